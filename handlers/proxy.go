package handlers

import (
	"errors"
	"net/http"

	"github.com/ayoubalgboom-bot/brglive-website/config"
	"github.com/ayoubalgboom-bot/brglive-website/logging"
	"github.com/ayoubalgboom-bot/brglive-website/relay"
)

// CreateProxyHandler creates the HTTP handler for the stream relay
// endpoint. The target URL arrives percent-encoded in the url query
// parameter; rewritten playlists point back at this same endpoint.
func CreateProxyHandler(cfg *config.Config, rly *relay.Relay, logger *logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		streamURL := r.URL.Query().Get("url")
		if streamURL == "" {
			logging.WriteJSONError(w, logger, "No stream URL provided", http.StatusBadRequest, map[string]interface{}{
				"path": r.URL.Path,
			})
			return
		}

		proxyBase := cfg.Public.BaseURL
		if proxyBase == "" {
			proxyBase = GetBaseURL(r)
		}
		proxyBase += "/proxy"

		logger.Info("proxying stream", map[string]interface{}{
			"target": streamURL,
		})

		err := rly.ServeStream(r.Context(), w, streamURL, proxyBase)
		if err == nil {
			return
		}

		// ServeStream only returns an error while the response is still
		// unwritten, so a structured body is still possible here.
		switch {
		case errors.Is(err, relay.ErrInvalidTarget):
			logging.WriteJSONError(w, logger, "Invalid stream URL", http.StatusBadRequest, map[string]interface{}{
				"target": streamURL,
			})
		case errors.Is(err, relay.ErrRedirectLoop):
			logging.WriteJSONError(w, logger, "Upstream redirect loop", http.StatusInternalServerError, map[string]interface{}{
				"target": streamURL,
			})
		default:
			logging.WriteJSONError(w, logger, "Upstream request failed", http.StatusInternalServerError, map[string]interface{}{
				"target": streamURL,
				"error":  err.Error(),
			})
		}
	}
}
