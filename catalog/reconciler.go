package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/rpupo63/portfolio/errs"
)

type State int32

const (
	StateIdle State = iota
	StateSubmitting
	StateSuccess
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

var (
	ErrSubmitInProgress = errors.New("submit already in progress")
	ErrDisposed         = errors.New("reconciler disposed")
)

// RefreshError reports that a mutation succeeded but the list re-fetch
// that follows it failed. The cache still holds the previous list.
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string {
	return "project saved but the list could not be refreshed: " + e.Err.Error()
}

func (e *RefreshError) Unwrap() error {
	return e.Err
}

// Reconciler binds form submission and deletion to gateway calls and
// re-fetches the whole catalog after every successful mutation.
type Reconciler struct {
	gateway Gateway
	form    *EditForm
	cache   *Cache
	logger  zerolog.Logger

	state      atomic.Int32
	submitting atomic.Bool
	disposed   atomic.Bool

	mu          sync.Mutex
	status      string
	transitions []func(from, to State)
}

type ReconcilerOption func(*Reconciler)

func WithReconcilerLogger(logger zerolog.Logger) ReconcilerOption {
	return func(r *Reconciler) {
		r.logger = logger
	}
}

// NewReconciler wires gateway, form and cache together. A nil form or
// cache is replaced by a fresh one.
func NewReconciler(gateway Gateway, form *EditForm, cache *Cache, opts ...ReconcilerOption) *Reconciler {
	if form == nil {
		form = NewEditForm()
	}
	if cache == nil {
		cache = NewCache()
	}
	r := &Reconciler{
		gateway: gateway,
		form:    form,
		cache:   cache,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Reconciler) Form() *EditForm {
	return r.form
}

func (r *Reconciler) Cache() *Cache {
	return r.cache
}

func (r *Reconciler) State() State {
	return State(r.state.Load())
}

// Status is the last human readable outcome.
func (r *Reconciler) Status() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// OnTransition registers fn to observe every state change.
func (r *Reconciler) OnTransition(fn func(from, to State)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = append(r.transitions, fn)
}

// Dispose detaches the reconciler. Results of calls still in flight are
// dropped instead of being applied.
func (r *Reconciler) Dispose() {
	r.disposed.Store(true)
}

func (r *Reconciler) transition(to State) {
	from := State(r.state.Swap(int32(to)))
	r.logger.Debug().Stringer("from", from).Stringer("to", to).Msg("reconciler transition")

	r.mu.Lock()
	observers := append([]func(from, to State){}, r.transitions...)
	r.mu.Unlock()
	for _, fn := range observers {
		fn(from, to)
	}
}

func (r *Reconciler) setStatus(status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = status
}

// Submit validates the form and creates or updates the project. On success
// the catalog is re-fetched and the form reset; on failure the form is
// left untouched. A second call while one is running returns
// ErrSubmitInProgress without contacting the gateway.
func (r *Reconciler) Submit(ctx context.Context) error {
	if r.disposed.Load() {
		return ErrDisposed
	}
	if !r.submitting.CompareAndSwap(false, true) {
		return ErrSubmitInProgress
	}
	defer r.submitting.Store(false)

	snapshot := r.form.Snapshot()
	if err := snapshot.validate(); err != nil {
		r.setStatus(errs.StatusMessage(err))
		return err
	}

	r.transition(StateSubmitting)

	var err error
	verb := "created"
	if snapshot.Editing() {
		verb = "updated"
		_, err = r.gateway.UpdateProject(ctx, snapshot.TargetID, snapshot.Fields(), snapshot.PendingImage)
	} else {
		_, err = r.gateway.CreateProject(ctx, snapshot.Fields(), snapshot.PendingImage)
	}

	if r.disposed.Load() {
		return ErrDisposed
	}

	if err != nil {
		r.transition(StateFailed)
		r.setStatus(errs.StatusMessage(err))
		r.transition(StateIdle)
		return err
	}

	r.transition(StateSuccess)
	r.setStatus("✅ Project " + verb)

	refreshErr := r.refresh(ctx)
	if r.disposed.Load() {
		return ErrDisposed
	}
	if refreshErr != nil {
		refreshErr = &RefreshError{Err: refreshErr}
		r.setStatus("⚠️ " + refreshErr.Error())
	}

	r.form.BeginCreate()
	r.transition(StateIdle)
	return refreshErr
}

// Delete removes a project the caller has already confirmed and
// re-fetches the catalog. On failure the cache is left untouched.
func (r *Reconciler) Delete(ctx context.Context, id string) error {
	if r.disposed.Load() {
		return ErrDisposed
	}

	err := r.gateway.DeleteProject(ctx, id)
	if r.disposed.Load() {
		return ErrDisposed
	}
	if err != nil {
		r.setStatus(errs.StatusMessage(err))
		return err
	}
	r.setStatus("✅ Project deleted")

	refreshErr := r.refresh(ctx)
	if r.disposed.Load() {
		return ErrDisposed
	}
	if refreshErr != nil {
		refreshErr = &RefreshError{Err: refreshErr}
		r.setStatus("⚠️ " + refreshErr.Error())
	}
	return refreshErr
}

// Refresh re-fetches the catalog. A failure leaves the cache as it was.
func (r *Reconciler) Refresh(ctx context.Context) error {
	if r.disposed.Load() {
		return ErrDisposed
	}
	err := r.refresh(ctx)
	if r.disposed.Load() {
		return ErrDisposed
	}
	if err != nil {
		r.setStatus(errs.StatusMessage(err))
	}
	return err
}

func (r *Reconciler) refresh(ctx context.Context) error {
	records, err := r.gateway.ListProjects(ctx)
	if err != nil {
		return err
	}
	if r.disposed.Load() {
		return nil
	}
	r.cache.ReplaceAll(records)
	return nil
}
