package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/NHSDigital/im1-pfs-auth/authentication"
	"github.com/NHSDigital/im1-pfs-auth/forward"
	"github.com/NHSDigital/im1-pfs-auth/forward/emis"
	"github.com/NHSDigital/im1-pfs-auth/forward/tpp"
	"github.com/NHSDigital/im1-pfs-auth/healthcheck"
	"github.com/NHSDigital/im1-pfs-auth/lib/logging"
	"github.com/NHSDigital/im1-pfs-auth/lib/otel"
	"github.com/NHSDigital/im1-pfs-auth/sandbox"
	"github.com/rs/zerolog"
)

// Service is anything that mounts handlers on the public interface.
type Service interface {
	RegisterHandlers(mux *http.ServeMux)
}

func Start(config Config) error {
	ctx := context.Background()
	setupLogging(config.LogLevel)

	tracerProvider, err := otel.Initialize(ctx, config.OpenTelemetry)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		_ = tracerProvider.Shutdown(ctx)
	}()

	// The dispatch table is built once here and never mutated afterwards.
	router := forward.NewRouter(map[string]forward.Client{
		config.Suppliers.EMIS.URL: emis.New(nil),
		config.Suppliers.TPP.URL:  tpp.New(nil),
	})

	services := []Service{
		authentication.New(router),
		healthcheck.New(),
	}
	if config.Sandbox.Enabled {
		services = append(services, sandbox.New())
	}

	mux := http.NewServeMux()
	for _, service := range services {
		service.RegisterHandlers(mux)
	}

	err = http.ListenAndServe(config.Public.Address, mux)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// setupLogging installs the application-wide slog logger: JSON output at the
// configured level, enriched with context attributes and trace identifiers.
func setupLogging(level zerolog.Level) {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slogLevel(level)})
	slog.SetDefault(slog.New(logging.ContextHandler{Handler: handler}))
	zerolog.SetGlobalLevel(level)
}

func slogLevel(level zerolog.Level) slog.Level {
	switch {
	case level <= zerolog.DebugLevel:
		return slog.LevelDebug
	case level == zerolog.InfoLevel:
		return slog.LevelInfo
	case level == zerolog.WarnLevel:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
