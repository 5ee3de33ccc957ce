package runtimeinit

import (
	"fmt"
	"log"

	"screen-annotate/src/clipboard"
	"screen-annotate/src/config"
	"screen-annotate/src/notification"
	"screen-annotate/src/screenshot"
)

type Options struct {
	LoadOptions  config.LoadOptions
	SetupLogging func(*config.Config)
	// RequireDisplay fails startup when no display can be grabbed.
	RequireDisplay     bool
	ShowBlockingErrors bool
}

func Bootstrap(opts Options) (*config.Config, error) {
	cfg, err := config.LoadWithOptions(opts.LoadOptions)
	if err != nil {
		if opts.ShowBlockingErrors {
			notification.ShowBlockingError("Configuration error", err.Error())
		}
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if opts.SetupLogging != nil {
		opts.SetupLogging(cfg)
	}

	if opts.RequireDisplay {
		bounds, err := screenshot.DisplayBounds()
		if err != nil {
			if opts.ShowBlockingErrors {
				notification.ShowBlockingError("No display", fmt.Sprintf("Startup check failed: %v", err))
			}
			return nil, fmt.Errorf("display check failed: %w", err)
		}
		log.Printf("primary display %v", bounds)
	}

	if cfg.CopyToClipboard {
		if err := clipboard.Init(); err != nil {
			log.Printf("clipboard unavailable, copying disabled: %v", err)
			cfg.CopyToClipboard = false
		}
	}

	log.Printf("saving captures to %s", cfg.SaveDir)
	return cfg, nil
}
