// Package logger provides a structured, levelled logger built on log/slog.
//
// Handlers are chosen from config: human-readable text in development,
// JSON in production, with an optional asynchronous MongoDB sink
// (LOG_MONGO_URI) fanned out alongside stdout for order-flow auditing.
//
// WithCtx returns a logger pre-tagged with the request ID the middleware
// injected, so every line from a handler is correlated:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("order placed", "order_id", orderID)
//	// → time=... level=INFO msg="order placed" request_id=a1b2c3d4 order_id=17
package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/vastra/config"
)

var L *slog.Logger

// mongoSink is the active MongoDB handler, if any; closed on shutdown.
var mongoSink *MongoHandler

func init() {
	Setup()
}

// Setup (re)builds the default logger from config. Called once implicitly
// via init; internal/server calls it again after config.Load so the
// production JSON handler and the Mongo sink pick up real settings.
func Setup() {
	var base slog.Handler

	switch config.AppEnv() {
	case "production", "prod":
		base = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		base = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	handler := base
	if uri := config.Get("LOG_MONGO_URI", ""); uri != "" && mongoSink == nil {
		sink, err := NewMongoHandler(uri,
			config.Get("LOG_MONGO_DB", "vastra"),
			config.Get("LOG_MONGO_COLLECTION", "logs"))
		if err != nil {
			slog.Warn("logger: mongo sink disabled", "error", err)
		} else {
			mongoSink = sink
			handler = NewMultiHandler(base, sink)
		}
	} else if mongoSink != nil {
		handler = NewMultiHandler(base, mongoSink)
	}

	L = slog.New(handler)
	slog.SetDefault(L)
}

// Close flushes and disconnects the Mongo sink, if one was started.
func Close() {
	if mongoSink != nil {
		mongoSink.Close()
		mongoSink = nil
	}
}

// ctxKey is the unexported key under which the per-request logger lives.
type ctxKey struct{}

// WithCtx returns the per-request *slog.Logger stored by the Logger
// middleware, or the base logger when the context carries none.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a request-tagged *slog.Logger into ctx.
// Called by the Logger middleware — not usually needed in application code.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// Debug logs at DEBUG level using the base logger.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at INFO level using the base logger.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at WARN level using the base logger.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at ERROR level using the base logger.
func Error(msg string, args ...any) { L.Error(msg, args...) }
