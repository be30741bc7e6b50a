package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"discussionForum/internal/config"
)

// StartHTTP starts serving handler on the configured address and returns the
// bound address and a shutdown function.
func StartHTTP(cfg *config.Config, logs *zap.SugaredLogger, handler http.Handler) (net.Addr, func(context.Context) error, error) {
	if cfg == nil {
		return nil, nil, errors.New("config is required")
	}

	addr := cfg.HTTP.Address
	if addr == "" {
		addr = ":8080"
	}

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, err
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logs.Errorw("http server stopped", "error", err)
		}
	}()

	return lis.Addr(), func(ctx context.Context) error {
		if err := srv.Shutdown(ctx); err != nil {
			_ = srv.Close()
			return err
		}
		return nil
	}, nil
}
