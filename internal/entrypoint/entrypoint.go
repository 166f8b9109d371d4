package entrypoint

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mrlokans/tourism/internal/analytics"
	"github.com/mrlokans/tourism/internal/auth"
	"github.com/mrlokans/tourism/internal/config"
	"github.com/mrlokans/tourism/internal/database"
	http_controllers "github.com/mrlokans/tourism/internal/http"
	"github.com/mrlokans/tourism/internal/logging"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// csrfKeyLength is the key size gorilla/csrf requires.
const csrfKeyLength = 32

// CSRFKey turns the configured secret into a CSRF key. A 64-character hex
// secret is used as is; any other secret is hashed down to the key size.
// An empty secret yields a random key, reported through generated.
func CSRFKey(secret string) (key []byte, generated bool, err error) {
	if secret == "" {
		secret, err = auth.GenerateSessionSecret()
		if err != nil {
			return nil, false, fmt.Errorf("failed to generate CSRF secret: %w", err)
		}
		generated = true
	}
	if raw, err := hex.DecodeString(secret); err == nil && len(raw) == csrfKeyLength {
		return raw, generated, nil
	}
	sum := sha256.Sum256([]byte(secret))
	return sum[:], generated, nil
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down
// within the configured timeout. onShutdown runs before the listener closes.
func Serve(ctx context.Context, handler http.Handler, cfg *config.Config, logger *zap.Logger, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second
	addr := net.JoinHostPort(cfg.HTTP.Host, fmt.Sprint(cfg.HTTP.Port))

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server", zap.Duration("timeout", timeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(shutdownCtx)
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server exited")
	return nil
}

// Run wires the application together and serves until SIGINT or SIGTERM.
func Run(cfg *config.Config, version string) {
	logger := logging.Must(cfg.Log)
	defer func() { _ = logger.Sync() }()

	logger.Info("starting tourism", zap.String("version", version))

	store, err := database.Open(cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A broken schema degrades individual requests instead of the process
	database.InitializeOrWarn(ctx, store, cfg.Auth.BcryptCost)

	csrfSecret, generated, err := CSRFKey(cfg.Auth.SessionSecret)
	if err != nil {
		logger.Fatal("failed to prepare CSRF protection", zap.Error(err))
	}
	if generated {
		logger.Warn("generated session secret, set SECRET_KEY to keep forms valid across restarts")
	}

	plausible, rejected := analytics.NewPlausible(cfg.Plausible)
	if len(rejected) > 0 {
		logger.Warn("ignoring unknown Plausible extensions", zap.Strings("extensions", rejected))
	}
	if cfg.Demo.Enabled {
		logger.Info("demo mode enabled, admin console is read-only")
	}

	sessionStore := store.SessionStore()
	sessions := auth.NewSessionManager(sessionStore, cfg.Auth)

	router, err := http_controllers.NewRouter(http_controllers.RouterConfig{
		Store:         store,
		Sessions:      sessions,
		Logger:        logger,
		Auth:          cfg.Auth,
		Admin:         cfg.Admin,
		CSRFSecret:    csrfSecret,
		TemplatesPath: cfg.UI.TemplatesPath,
		StaticPath:    cfg.UI.StaticPath,
		CORSOrigins:   cfg.HTTP.CORSOrigins,
		DemoMode:      cfg.Demo.Enabled,
		Analytics:     plausible,
		Version:       version,
	})
	if err != nil {
		logger.Fatal("failed to build router", zap.Error(err))
	}

	onShutdown := func(context.Context) {
		router.Close()
		// the scs stores sweep expired sessions in the background
		if cleaner, ok := sessionStore.(interface{ StopCleanup() }); ok {
			cleaner.StopCleanup()
		}
	}

	serveErr := Serve(ctx, router, cfg, logger, onShutdown)
	if err := store.Close(); err != nil {
		logger.Warn("failed to close database", zap.Error(err))
	}
	if serveErr != nil {
		logger.Error("server stopped with error", zap.Error(serveErr))
		_ = logger.Sync()
		os.Exit(1)
	}
}
