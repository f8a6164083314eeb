package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pocketbook/pocketbook/internal/config"
	"github.com/pocketbook/pocketbook/internal/utils"
	"github.com/pocketbook/pocketbook/pkg/market"
	log "github.com/sirupsen/logrus"
)

// Application wires configuration, storage, router, and server lifecycle.
type Application struct {
	cfg    config.Application
	deps   *Dependencies
	router *mux.Router
	srv    *http.Server
	close  []func()
}

// NewApplication constructs the full HTTP application, ready to Run().
func NewApplication(ctx context.Context, cfg config.Application) (*Application, error) {
	stores, err := OpenStores(ctx, cfg)
	if err != nil {
		return nil, err
	}

	prices := market.NewCoinGeckoClient(cfg.Market.BaseUrl, cfg.Market.Timeout)
	deps := BuildDependencies(stores, cfg, prices, utils.SystemClock{})

	closeNotifier, err := AttachNotifier(deps, cfg.AMQP)
	if err != nil {
		stores.Close()
		return nil, err
	}

	r := NewRouter(deps)

	srv := &http.Server{
		Handler:      r,
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{
		cfg:    cfg,
		deps:   deps,
		router: r,
		srv:    srv,
		close:  []func(){closeNotifier, stores.Close},
	}, nil
}

func NewRouter(deps *Dependencies) *mux.Router {
	r := mux.NewRouter()
	SetupMiddleware(r)
	RegisterRoutes(r, deps)
	return r
}

func (a *Application) Dependencies() *Dependencies {
	return a.deps
}

// Run starts the HTTP server and blocks until ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	defer a.Close()
	a.deps.PriceBoard.RefreshAsync(a.deps.SettingsService.Current().Currency)

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting server on %s", a.srv.Addr)
		errCh <- a.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.srv.Shutdown(shutdownCtx)
	}
}

// Close releases the broker connection and the storage.
func (a *Application) Close() {
	a.deps.PriceBoard.Wait()
	for _, c := range a.close {
		c()
	}
	a.close = nil
}
