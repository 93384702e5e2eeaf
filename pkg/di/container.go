// Package di provides dependency injection container
package di

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ssargent/derkv/pkg/codec"
	"github.com/ssargent/derkv/pkg/config"
)

// Container holds all the dependencies for the application
type Container struct {
	config   *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	codec    codec.Codec
}

// NewContainer creates a new dependency injection container. The codec is
// instrumented against a private registry so repeated containers never clash.
func NewContainer(cfg *config.Config, logger *zap.Logger) *Container {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	registry := prometheus.NewRegistry()
	return &Container{
		config:   cfg,
		logger:   logger,
		registry: registry,
		codec:    codec.NewInstrumentedCodec(codec.NewRecordCodec(), registry),
	}
}

// GetConfig returns the active configuration
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetLogger returns the application logger
func (c *Container) GetLogger() *zap.Logger {
	return c.logger
}

// GetRegistry returns the metrics registry the codec reports to
func (c *Container) GetRegistry() *prometheus.Registry {
	return c.registry
}

// GetCodec returns the record codec
func (c *Container) GetCodec() codec.Codec {
	return c.codec
}

// SetCodec allows overriding the codec (for testing)
func (c *Container) SetCodec(recordCodec codec.Codec) {
	c.codec = recordCodec
}

// NewRecordReader creates a stream reader honouring the configured size limit.
// Records are decoded through the container's codec.
func (c *Container) NewRecordReader(r io.Reader) *codec.RecordReader {
	return codec.NewRecordReader(r, codec.RecordReaderConfig{
		MaxRecordSize: c.config.MaxRecordSize,
		Codec:         c.codec,
	})
}
