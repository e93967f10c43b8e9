// Package server is the local control API: sync status and triggers, the
// mirrored items, local mutations and the live event stream.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/jdholdren/newsync/internal/newsync"
	"github.com/jdholdren/newsync/internal/serverutil"
	"github.com/jdholdren/newsync/internal/sync"
)

type (
	// Syncer is the sync service as seen by the API.
	Syncer interface {
		Sync(ctx context.Context) bool
		Running() bool
		LastRun() (sync.Run, bool)
		MarkRead(ctx context.Context, ids []int64, read bool) error
		MarkStarred(ctx context.Context, ids []int64, starred bool) error
		AddFeed(ctx context.Context, url string) (newsync.Feed, error)
		AddFolder(ctx context.Context, name string) (newsync.Folder, error)
	}

	// Reader is the read side of the local store.
	Reader interface {
		AllItems(ctx context.Context) ([]newsync.Item, error)
		UnreadItems(ctx context.Context) ([]newsync.Item, error)
		StarredItems(ctx context.Context) ([]newsync.Item, error)
		UnreadCount(ctx context.Context) (int, error)
		PendingCounts(ctx context.Context) (newsync.PendingCounts, error)
		AllFolders(ctx context.Context) ([]newsync.Folder, error)
		AllFeeds(ctx context.Context) ([]newsync.Feed, error)
	}

	// Server serves the control API.
	Server struct {
		*http.Server

		// Syncs triggered over the API outlive the request that started them
		baseCtx context.Context
		syncer  Syncer
		store   Reader
		events  http.Handler
	}

	Config struct {
		Port       int
		CorsOrigin string
	}
)

// NewServer wires the routes. events serves the event stream, normally the
// sse server fed by the notifier bus.
func NewServer(ctx context.Context, config Config, syncer Syncer, store Reader, events http.Handler) *Server {
	r := serverutil.ErrRouter{Router: mux.NewRouter()}

	srvr := Server{
		baseCtx: ctx,
		syncer:  syncer,
		store:   store,
		events:  events,
		Server: &http.Server{
			Addr:        fmt.Sprintf(":%d", config.Port),
			ReadTimeout: 5 * time.Second,
			// The event stream clears its own deadline
			WriteTimeout: 10 * time.Second,
			BaseContext:  func(_ net.Listener) context.Context { return ctx },
			Handler: handlers.CORS(
				handlers.AllowedOrigins([]string{config.CorsOrigin}),
				handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
				handlers.AllowedHeaders([]string{"content-type"}),
			)(r),
		},
	}

	r.Use(serverutil.AccessLogMiddleware)
	r.HandleFuncE("/api/status", srvr.getStatus).Methods(http.MethodGet)
	r.HandleFuncE("/api/sync", srvr.postSync).Methods(http.MethodPost)

	r.HandleFuncE("/api/items", srvr.getItems).Methods(http.MethodGet)
	r.HandleFuncE("/api/items/read", srvr.postItemsRead).Methods(http.MethodPost)
	r.HandleFuncE("/api/items/starred", srvr.postItemsStarred).Methods(http.MethodPost)

	r.HandleFuncE("/api/feeds", srvr.getFeeds).Methods(http.MethodGet)
	r.HandleFuncE("/api/feeds", srvr.postFeeds).Methods(http.MethodPost)
	r.HandleFuncE("/api/folders", srvr.getFolders).Methods(http.MethodGet)
	r.HandleFuncE("/api/folders", srvr.postFolders).Methods(http.MethodPost)

	r.HandleFunc("/api/events", srvr.getEvents).Methods(http.MethodGet)

	slog.Debug("configured control server", "port", config.Port)

	return &srvr
}
