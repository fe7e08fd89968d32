// Package sync reconciles the remote paginated user source with the local
// store: a small state machine that turns refresh/append requests into page
// fetches and keyed writes, tracking end-of-data.
package sync

import (
	"context"
	stdsync "sync"

	"go.uber.org/zap"

	"github-users-service/internal/domain/user"
	apperrors "github-users-service/pkg/errors"
)

// Phase is the paging session state.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseRefreshing Phase = "refreshing"
	PhaseAppending  Phase = "appending"
	PhaseExhausted  Phase = "exhausted"
)

// LoadType selects the transition to perform.
type LoadType string

const (
	LoadRefresh LoadType = "refresh"
	LoadAppend  LoadType = "append"
	LoadPrepend LoadType = "prepend"
)

// Result reports the outcome of a completed load transition.
type Result struct {
	// EndOfData is set when no further pages exist past the current one.
	EndOfData bool
}

// RemoteSource fetches one page of users.
type RemoteSource interface {
	FetchPage(ctx context.Context, req user.PageRequest) ([]user.User, error)
}

// Store receives the fetched pages.
type Store interface {
	ReplaceAll(ctx context.Context, users []user.User) error
	UpsertAll(ctx context.Context, users []user.User) error
}

// Mediator orchestrates paged fetch-and-persist cycles. At most one load is
// in flight at a time; a failed transition leaves the state untouched so the
// caller may retry it.
type Mediator struct {
	mu       stdsync.Mutex
	remote   RemoteSource
	store    Store
	log      *zap.Logger
	pageSize int
	lastID   int64 // id of the last successfully loaded user, 0 if none
	phase    Phase
}

// NewMediator creates a mediator with the given page size.
func NewMediator(remote RemoteSource, store Store, pageSize int, log *zap.Logger) *Mediator {
	return &Mediator{
		remote:   remote,
		store:    store,
		log:      log,
		pageSize: pageSize,
		phase:    PhaseIdle,
	}
}

// Phase returns the current session phase.
func (m *Mediator) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Load performs one transition. Serialized internally: a call blocks until
// any outstanding load finishes.
func (m *Mediator) Load(ctx context.Context, lt LoadType) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch lt {
	case LoadPrepend:
		// Backward pagination does not exist; the session is always
		// already at the beginning.
		return Result{EndOfData: true}, nil
	case LoadRefresh:
		return m.refresh(ctx)
	case LoadAppend:
		return m.append(ctx)
	default:
		return Result{}, apperrors.NewLoadError(string(lt), context.Canceled)
	}
}

// refresh fetches page 1 and replaces the store contents with it. An
// explicit refresh is valid from any phase, including Exhausted: it starts a
// new session.
func (m *Mediator) refresh(ctx context.Context) (Result, error) {
	prev := m.phase
	m.phase = PhaseRefreshing

	page, err := m.remote.FetchPage(ctx, user.PageRequest{Page: 1, PerPage: m.pageSize})
	if err != nil {
		m.phase = prev
		m.log.Warn("refresh fetch failed", zap.Error(err))
		return Result{}, apperrors.NewLoadError("refresh", err)
	}

	if len(page) == 0 {
		// End of data on page 1: no clear, no write
		m.phase = PhaseExhausted
		m.log.Info("refresh found no users, session exhausted")
		return Result{EndOfData: true}, nil
	}

	// The fetched page must be persisted even if the caller has gone away
	if err := m.store.ReplaceAll(context.WithoutCancel(ctx), page); err != nil {
		m.phase = prev
		return Result{}, apperrors.NewLoadError("refresh", err)
	}

	m.lastID = page[len(page)-1].ID
	m.phase = PhaseAppending
	m.log.Info("refreshed users", zap.Int("count", len(page)), zap.Int64("last_id", m.lastID))
	return Result{EndOfData: false}, nil
}

// append fetches the page following the last loaded user and upserts it.
func (m *Mediator) append(ctx context.Context) (Result, error) {
	if m.phase == PhaseExhausted {
		return Result{EndOfData: true}, nil
	}

	prev := m.phase
	m.phase = PhaseAppending

	next := user.NextPageIndex(m.lastID, m.pageSize)
	page, err := m.remote.FetchPage(ctx, user.PageRequest{Page: next, PerPage: m.pageSize})
	if err != nil {
		m.phase = prev
		m.log.Warn("append fetch failed", zap.Int("page", next), zap.Error(err))
		return Result{}, apperrors.NewLoadError("append", err)
	}

	if len(page) == 0 {
		m.phase = PhaseExhausted
		m.log.Info("append reached end of data", zap.Int("page", next))
		return Result{EndOfData: true}, nil
	}

	if err := m.store.UpsertAll(context.WithoutCancel(ctx), page); err != nil {
		m.phase = prev
		return Result{}, apperrors.NewLoadError("append", err)
	}

	m.lastID = page[len(page)-1].ID
	m.log.Info("appended users",
		zap.Int("page", next),
		zap.Int("count", len(page)),
		zap.Int64("last_id", m.lastID),
	)
	return Result{EndOfData: false}, nil
}
