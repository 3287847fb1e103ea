package handlers

import (
	"net/http"

	"github.com/ayoubalgboom-bot/brglive-website/api"
	"github.com/ayoubalgboom-bot/brglive-website/config"
	"github.com/ayoubalgboom-bot/brglive-website/logging"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures all HTTP routes and handlers. The returned handler
// already carries the CORS and request logging middleware.
func SetupRoutes(cfg *config.Config, deps Dependencies) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			deps.Logger.Warn("Error writing health response", map[string]interface{}{
				"error": err.Error(),
			})
		}
	})

	// Prometheus metrics endpoint
	mux.Handle("/metrics", promhttp.Handler())

	// Stream relay
	mux.HandleFunc("/proxy", CreateProxyHandler(cfg, deps.Relay, deps.Logger))

	// Admin API: match registry
	matchesHandler := api.NewMatchesHandler(deps.Matches, deps.Logger)
	mux.Handle("/api/matches", matchesHandler)
	mux.Handle("/api/matches/", matchesHandler)

	// Admin API: channel catalog
	channelsHandler := api.NewChannelsHandler(deps.Channels, deps.Logger)
	mux.Handle("/api/channels", channelsHandler)
	mux.Handle("/api/channels/", channelsHandler)

	return logging.RequestLogger(deps.Logger)(CORS(mux))
}
