// Package di provides dependency injection container
package di

import (
	"github.com/ssargent/beemap/pkg/api"
	"github.com/ssargent/beemap/pkg/config"
)

// Container holds all the dependencies for the application
type Container struct {
	metrics *api.Metrics
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		metrics: api.NewMetrics(),
	}
}

// NewServer builds an API server from the given configuration
func (c *Container) NewServer(cfg *config.Config) *api.Server {
	return api.NewServer(api.ServerConfig{
		Bind:   cfg.Bind,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
	}, c.metrics)
}
