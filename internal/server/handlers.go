package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	nserrs "github.com/jdholdren/newsync/internal/errors"
	"github.com/jdholdren/newsync/internal/newsync"
	"github.com/jdholdren/newsync/internal/notify"
	"github.com/jdholdren/newsync/internal/serverutil"
	"github.com/jdholdren/newsync/internal/sync"
)

type StatusResp struct {
	Running     bool                  `json:"running"`
	LastRun     *sync.Run             `json:"lastRun"`
	UnreadCount int                   `json:"unreadCount"`
	BadgeLabel  string                `json:"badgeLabel"`
	Pending     newsync.PendingCounts `json:"pending"`
}

func (s Server) getStatus(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	count, err := s.store.UnreadCount(ctx)
	if err != nil {
		return err
	}
	pending, err := s.store.PendingCounts(ctx)
	if err != nil {
		return err
	}

	resp := StatusResp{
		Running:     s.syncer.Running(),
		UnreadCount: count,
		BadgeLabel:  notify.Label(count),
		Pending:     pending,
	}
	if run, ok := s.syncer.LastRun(); ok {
		resp.LastRun = &run
	}

	return serverutil.WriteJSON(w, http.StatusOK, resp)
}

type PostSyncResp struct {
	// Started is false when the request joined a sync already in flight.
	Started bool `json:"started"`
}

func (s Server) postSync(w http.ResponseWriter, r *http.Request) error {
	if s.syncer.Running() {
		return serverutil.WriteJSON(w, http.StatusAccepted, PostSyncResp{Started: false})
	}

	go s.syncer.Sync(s.baseCtx)

	return serverutil.WriteJSON(w, http.StatusAccepted, PostSyncResp{Started: true})
}

func (s Server) getItems(w http.ResponseWriter, r *http.Request) error {
	var (
		ctx   = r.Context()
		items []newsync.Item
		err   error
	)
	switch filter := r.URL.Query().Get("filter"); filter {
	case "", "unread":
		items, err = s.store.UnreadItems(ctx)
	case "starred":
		items, err = s.store.StarredItems(ctx)
	case "all":
		items, err = s.store.AllItems(ctx)
	default:
		return nserrs.E(http.StatusBadRequest, "invalid filter", nserrs.Detail{
			Field: "filter",
			Error: "must be one of unread, starred or all",
		})
	}
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusOK, items)
}

type PostItemsReadReq struct {
	IDs  []int64 `json:"ids"`
	Read bool    `json:"read"`
}

func (req PostItemsReadReq) Validate() error {
	return validateIDs(req.IDs)
}

func (s Server) postItemsRead(w http.ResponseWriter, r *http.Request) error {
	req, err := serverutil.DecodeValid[PostItemsReadReq](r.Body)
	if err != nil {
		return err
	}
	if err := s.syncer.MarkRead(r.Context(), req.IDs, req.Read); err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

type PostItemsStarredReq struct {
	IDs     []int64 `json:"ids"`
	Starred bool    `json:"starred"`
}

func (req PostItemsStarredReq) Validate() error {
	return validateIDs(req.IDs)
}

func (s Server) postItemsStarred(w http.ResponseWriter, r *http.Request) error {
	req, err := serverutil.DecodeValid[PostItemsStarredReq](r.Body)
	if err != nil {
		return err
	}
	if err := s.syncer.MarkStarred(r.Context(), req.IDs, req.Starred); err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func validateIDs(ids []int64) error {
	if len(ids) == 0 {
		return nserrs.E(http.StatusBadRequest, "invalid request", nserrs.Detail{Field: "ids", Error: "at least one id is required"})
	}
	for _, id := range ids {
		if id <= 0 {
			return nserrs.E(http.StatusBadRequest, "invalid request", nserrs.Detail{Field: "ids", Error: "ids must be positive"})
		}
	}
	return nil
}

func (s Server) getFeeds(w http.ResponseWriter, r *http.Request) error {
	feeds, err := s.store.AllFeeds(r.Context())
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusOK, feeds)
}

type PostFeedsReq struct {
	URL string `json:"url"`
}

func (req PostFeedsReq) Validate() error {
	if req.URL == "" {
		return nserrs.E(http.StatusBadRequest, "invalid request", nserrs.Detail{Field: "url", Error: "required"})
	}
	return nil
}

func (s Server) postFeeds(w http.ResponseWriter, r *http.Request) error {
	req, err := serverutil.DecodeValid[PostFeedsReq](r.Body)
	if err != nil {
		return err
	}
	feed, err := s.syncer.AddFeed(r.Context(), req.URL)
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusCreated, feed)
}

func (s Server) getFolders(w http.ResponseWriter, r *http.Request) error {
	folders, err := s.store.AllFolders(r.Context())
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusOK, folders)
}

type PostFoldersReq struct {
	Name string `json:"name"`
}

func (req PostFoldersReq) Validate() error {
	if req.Name == "" {
		return nserrs.E(http.StatusBadRequest, "invalid request", nserrs.Detail{Field: "name", Error: "required"})
	}
	return nil
}

func (s Server) postFolders(w http.ResponseWriter, r *http.Request) error {
	req, err := serverutil.DecodeValid[PostFoldersReq](r.Body)
	if err != nil {
		return err
	}
	folder, err := s.syncer.AddFolder(r.Context(), req.Name)
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusCreated, folder)
}

// getEvents hands the request to the event stream. The stream is long lived,
// so the server's write timeout is lifted for it.
func (s Server) getEvents(w http.ResponseWriter, r *http.Request) {
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		slog.WarnContext(r.Context(), "error lifting write deadline for event stream", "error", err)
	}

	q := r.URL.Query()
	if q.Get("stream") == "" {
		q.Set("stream", notify.StreamName)
		r.URL.RawQuery = q.Encode()
	}

	s.events.ServeHTTP(w, r)
}
