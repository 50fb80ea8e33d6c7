package backend

import (
	"errors"

	"annunciator/internal/config"
)

var errNilConfig = errors.New("backend: config is required")

// NewFromConfig builds a client from the backend section of cfg using the
// configured API token.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, errNilConfig
	}
	return NewClient(Config{
		BaseURL:        cfg.Backend.BaseURL,
		RequestTimeout: cfg.RequestTimeout(),
		MediaTimeout:   cfg.MediaTimeout(),
		RetryAttempts:  cfg.Backend.RetryAttempts,
	}, StaticToken(cfg.Backend.APIToken), opts...)
}
