package logging

import (
	"context"
	"fmt"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

var _logger = NewTmpLogger()

const requestIDField = "x_request_id"

// New builds a zap logger. Pretty selects the development encoder.
func New(levelName string, pretty bool) (*zap.Logger, error) {
	var c zap.Config
	var opts []zap.Option
	if pretty {
		c = zap.NewDevelopmentConfig()
		opts = append(opts, zap.AddStacktrace(zap.ErrorLevel))
	} else {
		c = zap.NewProductionConfig()
	}

	if levelName == "" {
		levelName = "info"
	}
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		return nil, fmt.Errorf("could not parse log level %s", levelName)
	}
	c.Level = level

	return c.Build(opts...)
}

// Init replaces the process logger used by Logger(ctx)
func Init(levelName string, pretty bool) (*zap.Logger, error) {
	l, err := New(levelName, pretty)
	if err != nil {
		return nil, err
	}
	_logger = l
	return l, nil
}

func NewTmpLogger() *zap.Logger {
	c := zap.NewProductionConfig()
	c.DisableStacktrace = true
	l, err := c.Build()
	if err != nil {
		panic(err)
	}
	return l
}

// Logger returns the process logger enriched with the request id from ctx
func Logger(ctx context.Context) *zap.Logger {
	return With(_logger, ctx)
}

// With enriches base with the request id carried by ctx, if any
func With(base *zap.Logger, ctx context.Context) *zap.Logger {
	if ctx == nil {
		return base
	}
	requestID := middleware.GetReqID(ctx)
	if requestID == "" {
		return base
	}
	return base.With(zap.String(requestIDField, requestID))
}
