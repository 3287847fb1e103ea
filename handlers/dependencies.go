package handlers

import (
	"fmt"

	"github.com/ayoubalgboom-bot/brglive-website/channels"
	"github.com/ayoubalgboom-bot/brglive-website/config"
	"github.com/ayoubalgboom-bot/brglive-website/logging"
	"github.com/ayoubalgboom-bot/brglive-website/registry"
	"github.com/ayoubalgboom-bot/brglive-website/relay"
)

// Dependencies holds all the components needed by the handlers
type Dependencies struct {
	Logger   *logging.Logger
	Matches  *registry.Store
	Channels *channels.Store
	Relay    *relay.Relay
}

// InitDependencies initializes all application components
func InitDependencies(cfg *config.Config) (Dependencies, error) {
	logger := logging.New(logging.ParseLogLevel(cfg.Log.Level), "[brglive]")

	matches, err := registry.NewStore(cfg.MatchesPath(), logger)
	if err != nil {
		return Dependencies{}, fmt.Errorf("failed to initialize match registry: %w", err)
	}

	catalog, err := channels.NewStore(cfg.ChannelsPath(), logger)
	if err != nil {
		return Dependencies{}, fmt.Errorf("failed to initialize channel catalog: %w", err)
	}

	return Dependencies{
		Logger:   logger,
		Matches:  matches,
		Channels: catalog,
		Relay: relay.New(relay.Config{
			MaxRedirects:  cfg.Proxy.MaxRedirects,
			PlaylistLimit: cfg.Proxy.PlaylistMaxBytes,
			HeaderTimeout: cfg.Proxy.HeaderTimeout,
		}, logger),
	}, nil
}
