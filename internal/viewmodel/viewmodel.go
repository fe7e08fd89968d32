// Package viewmodel is the presentation boundary: observable collections and
// flags that a UI layer subscribes to, plus the request methods it calls.
// It owns only transient snapshots; persistence stays with the store.
package viewmodel

import (
	"context"

	"go.uber.org/zap"

	domain "github-users-service/internal/domain/user"
	"github-users-service/internal/search"
	syncer "github-users-service/internal/sync"
	"github-users-service/internal/usecase/user"
	"github-users-service/pkg/stream"
)

// Loader drives the paged load cycle.
type Loader interface {
	Load(ctx context.Context, lt syncer.LoadType) (syncer.Result, error)
}

// Observer exposes the store's live query.
type Observer interface {
	Observe(ctx context.Context) <-chan []domain.User
}

// ViewModel holds the observable state cells for the user screens. The
// filtered view is a pure derivation of the current query and the last full
// snapshot, recomputed whenever either changes.
type ViewModel struct {
	uc       user.Usecase
	loader   Loader
	observer Observer
	log      *zap.Logger

	users      *stream.Value[[]domain.User]
	filtered   *stream.Value[[]domain.User]
	paged      *stream.Value[[]domain.User]
	selected   *stream.Value[*domain.User]
	query      *stream.Value[string]
	loading    *stream.Value[bool]
	errorFlag  *stream.Value[bool]
	searching  *stream.Value[bool]
	pagination *stream.Value[bool]
	endOfData  *stream.Value[bool]
}

// New creates a ViewModel. Call Start to begin mirroring the store's live
// query into the paged collection.
func New(uc user.Usecase, loader Loader, observer Observer, log *zap.Logger) *ViewModel {
	return &ViewModel{
		uc:         uc,
		loader:     loader,
		observer:   observer,
		log:        log,
		users:      stream.NewValue[[]domain.User](nil),
		filtered:   stream.NewValue[[]domain.User](nil),
		paged:      stream.NewValue[[]domain.User](nil),
		selected:   stream.NewValue[*domain.User](nil),
		query:      stream.NewValue(""),
		loading:    stream.NewValue(true),
		errorFlag:  stream.NewValue(false),
		searching:  stream.NewValue(false),
		pagination: stream.NewValue(false),
		endOfData:  stream.NewValue(false),
	}
}

// Start mirrors store change notifications into the paged users cell until
// ctx is canceled.
func (vm *ViewModel) Start(ctx context.Context) {
	updates := vm.observer.Observe(ctx)
	go func() {
		for snapshot := range updates {
			vm.paged.Set(snapshot)
		}
	}()
}

// Users is the full, unfiltered collection.
func (vm *ViewModel) Users() *stream.Value[[]domain.User] { return vm.users }

// Filtered is the search-filtered view of Users.
func (vm *ViewModel) Filtered() *stream.Value[[]domain.User] { return vm.filtered }

// Paged is the live store snapshot backing incremental loading.
func (vm *ViewModel) Paged() *stream.Value[[]domain.User] { return vm.paged }

// Selected is the currently selected user, nil when none.
func (vm *ViewModel) Selected() *stream.Value[*domain.User] { return vm.selected }

// Query is the current search text.
func (vm *ViewModel) Query() *stream.Value[string] { return vm.query }

// Loading reports whether an initial load is in progress.
func (vm *ViewModel) Loading() *stream.Value[bool] { return vm.loading }

// Error reports whether the last operation served degraded data or failed.
func (vm *ViewModel) Error() *stream.Value[bool] { return vm.errorFlag }

// Searching reports whether search mode is active.
func (vm *ViewModel) Searching() *stream.Value[bool] { return vm.searching }

// Pagination reports whether incremental loading mode is active.
func (vm *ViewModel) Pagination() *stream.Value[bool] { return vm.pagination }

// EndOfData reports whether the paging session is exhausted.
func (vm *ViewModel) EndOfData() *stream.Value[bool] { return vm.endOfData }

// LoadUsers fetches the full user list and publishes it. Degraded results
// still populate the collection but raise the error flag.
func (vm *ViewModel) LoadUsers(ctx context.Context) {
	vm.loading.Set(true)

	resp, err := vm.uc.ListUsers(ctx)
	if err != nil {
		vm.log.Warn("load users failed", zap.Error(err))
		vm.loading.Set(false)
		vm.errorFlag.Set(true)
		return
	}

	vm.users.Set(resp.Users)
	vm.refilter()
	vm.loading.Set(false)
	vm.errorFlag.Set(resp.Degraded)
}

// SelectUser fetches a single user's details and publishes them.
func (vm *ViewModel) SelectUser(ctx context.Context, id int64) {
	resp, err := vm.uc.GetUser(ctx, user.GetUserRequest{ID: id})
	if err != nil {
		vm.log.Warn("select user failed", zap.Int64("id", id), zap.Error(err))
		vm.errorFlag.Set(true)
		return
	}

	u := resp.User
	vm.selected.Set(&u)
	vm.errorFlag.Set(resp.Degraded)
}

// SetSearchQuery updates the search text and recomputes the filtered view.
func (vm *ViewModel) SetSearchQuery(q string) {
	vm.query.Set(q)
	vm.refilter()
}

// ToggleSearch flips search mode; leaving search clears the query.
func (vm *ViewModel) ToggleSearch() {
	active := !vm.searching.Get()
	vm.searching.Set(active)
	if !active {
		vm.SetSearchQuery("")
	}
}

// ClearSearch resets the query without leaving search mode.
func (vm *ViewModel) ClearSearch() {
	vm.SetSearchQuery("")
}

// TogglePagination flips between whole-list and incremental loading modes.
func (vm *ViewModel) TogglePagination() {
	vm.pagination.Set(!vm.pagination.Get())
}

// RefreshPaged starts a paging session over from page one.
func (vm *ViewModel) RefreshPaged(ctx context.Context) {
	vm.runLoad(ctx, syncer.LoadRefresh)
}

// LoadMore appends the next page to the paging session.
func (vm *ViewModel) LoadMore(ctx context.Context) {
	vm.runLoad(ctx, syncer.LoadAppend)
}

func (vm *ViewModel) runLoad(ctx context.Context, lt syncer.LoadType) {
	result, err := vm.loader.Load(ctx, lt)
	if err != nil {
		// Recoverable: previously loaded pages stay visible
		vm.log.Warn("paged load failed", zap.String("load", string(lt)), zap.Error(err))
		vm.errorFlag.Set(true)
		return
	}

	vm.errorFlag.Set(false)
	vm.endOfData.Set(result.EndOfData)
}

// refilter recomputes the filtered view from the current snapshot and query.
func (vm *ViewModel) refilter() {
	vm.filtered.Set(search.Filter(vm.users.Get(), vm.query.Get()))
}
