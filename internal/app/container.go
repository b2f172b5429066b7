package app

import (
	"fmt"

	"github.com/ochronus/xfrtuc/internal/config"
	"github.com/ochronus/xfrtuc/internal/store"
	"github.com/sirupsen/logrus"
)

// Container centralizes the core dependencies used across the application.
// Tests substitute the store or logger through Options.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	Store  *store.Store
}

// Option allows customizing the container during construction.
type Option func(*Container) error

// WithLogger overrides the default logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(c *Container) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		c.Logger = logger
		return nil
	}
}

// WithStore overrides the default, empty store. Useful for seeding state
// before the server starts.
func WithStore(s *store.Store) Option {
	return func(c *Container) error {
		if s == nil {
			return fmt.Errorf("store cannot be nil")
		}
		c.Store = s
		return nil
	}
}

// NewContainer builds a Container with defaults derived from cfg.
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	container := &Container{
		Config: cfg,
		Logger: NewLogger(cfg.Loglevel),
	}

	for _, opt := range opts {
		if err := opt(container); err != nil {
			return nil, err
		}
	}

	if container.Store == nil {
		s, err := store.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create store: %w", err)
		}
		container.Store = s
	}

	return container, nil
}

// NewLogger builds the logrus logger shared by the server and the CLI.
// Unknown levels fall back to info.
func NewLogger(levelStr string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}
