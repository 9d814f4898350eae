// Package catalog maintains the filtered event list backing the
// discovery screen. Free-text input is debounced into a single server
// refetch while category and feature changes refetch immediately; in
// the meantime the view keeps filtering the last good result set
// locally so the list never appears to block.
package catalog

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/campusevents/campus-client/internal/api"
	"github.com/campusevents/campus-client/internal/models"
	"github.com/campusevents/campus-client/pkg/debounce"
	"github.com/campusevents/campus-client/pkg/logger"
)

// TypeAll is the category value meaning "no type filter".
const TypeAll = "All"

const defaultDebounce = 300 * time.Millisecond

// EventSource is the slice of the API client the view-model needs.
type EventSource interface {
	ListEvents(ctx context.Context, q api.ListEventsQuery) ([]models.Event, error)
}

// ViewModel holds catalog state for one screen. It is safe for the
// debounce timer goroutine and the owning flow to touch concurrently,
// but it is not meant to be shared between screens — each owns its
// own.
type ViewModel struct {
	source    EventSource
	debouncer *debounce.Debouncer
	collegeID string
	onUpdate  func([]models.Event)
	onError   func(error)

	// seq tags every issued fetch; responses whose tag is not newer
	// than the last applied one are discarded, so a slow stale
	// response can never overwrite fresher state.
	seq atomic.Uint64

	mu        sync.Mutex
	applied   uint64
	events    []models.Event // last good full result set
	search    string
	eventType string
	feature   string
	lastErr   error
}

// Options configures a ViewModel.
type Options struct {
	Source EventSource
	// CollegeID scopes server queries.
	CollegeID string
	// DebounceInterval is the search quiet period; defaults to 300ms.
	DebounceInterval time.Duration
	// InitialSearch, InitialType and InitialFeature seed the filters
	// without scheduling or performing any fetch. One-shot callers set
	// these and call Refresh once instead of going through the
	// debounced setters.
	InitialSearch  string
	InitialType    string
	InitialFeature string
	// OnUpdate receives the visible (locally filtered) list after
	// every applied refetch.
	OnUpdate func([]models.Event)
	// OnError receives non-fatal fetch failures.
	OnError func(error)
}

// New creates a ViewModel with the seeded filters and an empty list.
// No fetch happens until a setter or Refresh is called.
func New(opts Options) *ViewModel {
	interval := opts.DebounceInterval
	if interval <= 0 {
		interval = defaultDebounce
	}
	eventType := opts.InitialType
	if eventType == "" {
		eventType = TypeAll
	}
	return &ViewModel{
		source:    opts.Source,
		debouncer: debounce.New(interval),
		collegeID: opts.CollegeID,
		onUpdate:  opts.OnUpdate,
		onError:   opts.OnError,
		search:    opts.InitialSearch,
		eventType: eventType,
		feature:   opts.InitialFeature,
	}
}

// SetSearch updates the free-text query. The local view reflects it
// instantly; the server refetch is debounced, and a burst of calls
// within the quiet period results in exactly one fetch using the last
// entered value.
func (vm *ViewModel) SetSearch(query string) {
	vm.mu.Lock()
	vm.search = query
	vm.mu.Unlock()

	vm.notify()
	vm.debouncer.Schedule(func() {
		vm.fetch(context.Background())
	})
}

// SetType changes the category filter and refetches immediately.
func (vm *ViewModel) SetType(ctx context.Context, eventType string) {
	vm.mu.Lock()
	if eventType == "" {
		eventType = TypeAll
	}
	vm.eventType = eventType
	vm.mu.Unlock()

	vm.fetch(ctx)
}

// SetFeature changes the feature-tag filter and refetches immediately.
func (vm *ViewModel) SetFeature(ctx context.Context, feature string) {
	vm.mu.Lock()
	vm.feature = feature
	vm.mu.Unlock()

	vm.fetch(ctx)
}

// Refresh refetches with the current filters, e.g. on mount or when
// the screen regains focus.
func (vm *ViewModel) Refresh(ctx context.Context) {
	vm.fetch(ctx)
}

// Visible returns the last good result set narrowed by the current
// free-text query (case-insensitive, over title and description) and
// category. This is the instant, client-side view used while a
// refetch is pending.
func (vm *ViewModel) Visible() []models.Event {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.visibleLocked()
}

// Events returns a copy of the last good, unfiltered result set.
func (vm *ViewModel) Events() []models.Event {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	out := make([]models.Event, len(vm.events))
	copy(out, vm.events)
	return out
}

// Featured returns up to limit featured events from the visible list.
func (vm *ViewModel) Featured(limit int) []models.Event {
	var out []models.Event
	for _, ev := range vm.Visible() {
		if ev.Featured {
			out = append(out, ev)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out
}

// LastError returns the most recent fetch failure, cleared by the
// next successful fetch.
func (vm *ViewModel) LastError() error {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.lastErr
}

// Close cancels any pending debounced fetch.
func (vm *ViewModel) Close() {
	vm.debouncer.Stop()
}

func (vm *ViewModel) fetch(ctx context.Context) {
	seq := vm.seq.Add(1)

	vm.mu.Lock()
	query := api.ListEventsQuery{
		CollegeID: vm.collegeID,
		Search:    vm.search,
		Feature:   vm.feature,
	}
	if vm.eventType != TypeAll {
		query.Type = vm.eventType
	}
	vm.mu.Unlock()

	rows, err := vm.source.ListEvents(ctx, query)

	vm.mu.Lock()
	if seq <= vm.applied {
		vm.mu.Unlock()
		logger.Debug("discarding stale catalog response",
			zap.Uint64("seq", seq))
		return
	}
	vm.applied = seq

	if err != nil {
		// Non-fatal: keep showing the last good list.
		vm.lastErr = err
		vm.mu.Unlock()
		if vm.onError != nil {
			vm.onError(err)
		}
		return
	}

	vm.events = rows
	vm.lastErr = nil
	visible := vm.visibleLocked()
	vm.mu.Unlock()

	if vm.onUpdate != nil {
		vm.onUpdate(visible)
	}
}

func (vm *ViewModel) visibleLocked() []models.Event {
	out := make([]models.Event, 0, len(vm.events))
	for i := range vm.events {
		ev := vm.events[i]
		if !ev.MatchesQuery(vm.search) {
			continue
		}
		if vm.eventType != TypeAll && string(ev.Type) != vm.eventType {
			continue
		}
		out = append(out, ev)
	}
	return out
}

func (vm *ViewModel) notify() {
	if vm.onUpdate == nil {
		return
	}
	vm.onUpdate(vm.Visible())
}
