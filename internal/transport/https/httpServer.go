package https

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

func NewRouter(h *HTTPHandlers) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware, accessLogMiddleware)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	r.PathPrefix("/swagger/").Handler(httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/segments", h.HandleGetAllSegments).Methods(http.MethodGet)
	api.HandleFunc("/segments", h.HandleAddSegment).Methods(http.MethodPost)
	api.HandleFunc("/segments/{slug}", h.HandleGetSegment).Methods(http.MethodGet)
	api.HandleFunc("/segments/{slug}", h.HandleUpdateSegment).Methods(http.MethodPut, http.MethodPatch)
	api.HandleFunc("/segments/{slug}", h.HandleDeleteSegment).Methods(http.MethodDelete)
	api.HandleFunc("/segments/{slug}/users", h.HandleGetSegmentMembers).Methods(http.MethodGet)

	api.HandleFunc("/users", h.HandleCreateUser).Methods(http.MethodPost)
	api.HandleFunc("/users", h.HandleGetUsers).Methods(http.MethodGet)
	api.HandleFunc("/users/stats", h.HandleGetUserStats).Methods(http.MethodGet)
	api.HandleFunc("/users/{id:[0-9]+}/segments", h.HandleGetUserSegments).Methods(http.MethodGet)
	api.HandleFunc("/users/{id:[0-9]+}/segments", h.HandleAddUserSegments).Methods(http.MethodPost)
	api.HandleFunc("/users/{id:[0-9]+}/segments", h.HandleRemoveUserSegments).Methods(http.MethodDelete)
	return r
}

func NewHTTPServer(httpHandler *HTTPHandlers, addr string) *http.Server {
	return &http.Server{
		Handler:           NewRouter(httpHandler),
		Addr:              addr,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// StartServer serves until ctx is cancelled or the listener fails, then shuts the
// server down and closes storage.
func StartServer(ctx context.Context, srv *http.Server, storage io.Closer, shutdownTimeout time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Default().Info("server ListenAndServe", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server ListenAndServe failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Default().Info("shutting down server gracefully", "shutdownTimeout", shutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		var err error
		if serr := srv.Shutdown(shutdownCtx); serr != nil {
			err = multierr.Append(err, fmt.Errorf("shutdown: %w", serr))
		}
		slog.Default().Info("closing storage")
		if cerr := storage.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("error closing storage: %w", cerr))
		}
		if err == nil {
			slog.Default().Info("server successfully shut down")
		}
		return err
	})
	return g.Wait()
}
