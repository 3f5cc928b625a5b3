package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/daniacca/qssa/internal/metrics"
	"github.com/daniacca/qssa/internal/qssa/notifiers"
)

// observer serves health, metrics and live progress while a run is in
// progress.
type observer struct {
	srv    *http.Server
	ln     net.Listener
	logger *zap.SugaredLogger
}

func newObserverMux(recorder *metrics.Recorder, progress *notifiers.WebSocketNotifier) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", recorder.Handler())
	mux.Handle("GET /progress", progress)
	return mux
}

// startObserver listens on addr and serves in the background.
func startObserver(addr string, recorder *metrics.Recorder, progress *notifiers.WebSocketNotifier, logger *zap.SugaredLogger) (*observer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	o := &observer{
		srv: &http.Server{
			Handler:           newObserverMux(recorder, progress),
			ReadHeaderTimeout: 5 * time.Second,
		},
		ln:     ln,
		logger: logger,
	}
	go func() {
		if err := o.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("observer stopped: %v", err)
		}
	}()
	logger.Infof("observer listening on %s (/healthz, /metrics, /progress)", ln.Addr())
	return o, nil
}

// Addr returns the bound address, useful when listening on port 0.
func (o *observer) Addr() string {
	return o.ln.Addr().String()
}

func (o *observer) Shutdown(ctx context.Context) error {
	return o.srv.Shutdown(ctx)
}
