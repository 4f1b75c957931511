package learner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/abhisek/bitlit/internal/store"
	"github.com/abhisek/bitlit/internal/tutor"
)

// DefaultSnapshotKeep is how many snapshots per learner survive pruning.
const DefaultSnapshotKeep = 5

// ErrInvalidID is returned for an empty learner id.
var ErrInvalidID = errors.New("learner: invalid id")

type entry struct {
	learner  *Learner
	lastUsed time.Time // guarded by Registry.mu

	saveMu sync.Mutex
	saved  uint64
}

// Registry loads learners on first use and persists them when their
// state changes. It is safe for concurrent use.
type Registry struct {
	repo      store.SnapshotRepo
	transport tutor.Transport
	logger    *zap.Logger
	keep      int
	now       func() time.Time

	mu       sync.Mutex
	learners map[string]*entry
	loads    singleflight.Group
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the registry logger.
func WithLogger(l *zap.Logger) RegistryOption {
	return func(r *Registry) { r.logger = l }
}

// WithSnapshotKeep sets how many snapshots per learner Prune keeps.
func WithSnapshotKeep(n int) RegistryOption {
	return func(r *Registry) {
		if n > 0 {
			r.keep = n
		}
	}
}

// WithClock sets the time source used for idle tracking.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) { r.now = now }
}

// NewRegistry creates a registry. A nil repo keeps learners in memory only.
func NewRegistry(repo store.SnapshotRepo, transport tutor.Transport, opts ...RegistryOption) *Registry {
	r := &Registry{
		repo:      repo,
		transport: transport,
		logger:    zap.NewNop(),
		keep:      DefaultSnapshotKeep,
		now:       time.Now,
		learners:  make(map[string]*entry),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Get returns the learner with id, restoring it from its latest snapshot
// or creating a fresh one on first use.
func (r *Registry) Get(ctx context.Context, id string) (*Learner, error) {
	if id == "" {
		return nil, ErrInvalidID
	}
	if e := r.lookup(id); e != nil {
		return e.learner, nil
	}

	v, err, _ := r.loads.Do(id, func() (any, error) {
		if e := r.lookup(id); e != nil {
			return e, nil
		}
		e, err := r.load(ctx, id)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		e.lastUsed = r.now()
		r.learners[id] = e
		r.mu.Unlock()
		return e, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*entry).learner, nil
}

// lookup returns the loaded entry for id and marks it as used.
func (r *Registry) lookup(id string) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.learners[id]
	if e != nil {
		e.lastUsed = r.now()
	}
	return e
}

// Evict persists and unloads every learner not used for idle. Learners
// with a turn in flight stay loaded, as do learners whose save failed.
// It returns how many learners were unloaded. Without a repo, evicted
// state is gone.
func (r *Registry) Evict(ctx context.Context, idle time.Duration) (int, error) {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	var candidates []string
	for id, e := range r.learners {
		if e.lastUsed.Before(cutoff) {
			candidates = append(candidates, id)
		}
	}
	r.mu.Unlock()

	var (
		errs    []error
		evicted int
	)
	for _, id := range candidates {
		if _, err := r.persistEntry(ctx, id); err != nil {
			errs = append(errs, err)
			continue
		}
		if r.unloadIfIdle(id, cutoff) {
			evicted++
		}
	}
	if evicted > 0 {
		r.logger.Debug("learners evicted", zap.Int("count", evicted), zap.Duration("idle", idle))
	}
	return evicted, errors.Join(errs...)
}

// unloadIfIdle drops id if it is still idle, saved and not mid-turn.
func (r *Registry) unloadIfIdle(id string, cutoff time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.learners[id]
	if e == nil || !e.lastUsed.Before(cutoff) || e.learner.Tutor.InFlight() {
		return false
	}
	e.saveMu.Lock()
	defer e.saveMu.Unlock()
	if r.repo != nil && e.learner.Revision() != e.saved {
		return false
	}
	delete(r.learners, id)
	return true
}

func (r *Registry) load(ctx context.Context, id string) (*entry, error) {
	if r.repo == nil {
		return &entry{learner: New(id, "", nil, r.transport, r.logger)}, nil
	}
	snap, err := r.repo.Latest(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load learner %s: %w", id, err)
	}
	if snap == nil {
		r.logger.Info("new learner", zap.String("learner", id))
		return &entry{learner: New(id, "", nil, r.transport, r.logger)}, nil
	}
	l := FromSnapshot(id, snap.Data, r.transport, r.logger)
	r.logger.Debug("learner restored",
		zap.String("learner", id),
		zap.Int("xp", l.Ledger.XP()),
		zap.Time("snapshot", snap.Timestamp),
	)
	return &entry{learner: l, saved: l.Revision()}, nil
}

// Persist snapshots the learner if its persisted state changed since the
// last save. It reports whether a snapshot was written.
func (r *Registry) Persist(ctx context.Context, id string) (bool, error) {
	return r.persistEntry(ctx, id)
}

// persistEntry saves id without marking it as used.
func (r *Registry) persistEntry(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	e := r.learners[id]
	r.mu.Unlock()
	if e == nil || r.repo == nil {
		return false, nil
	}

	e.saveMu.Lock()
	defer e.saveMu.Unlock()

	rev := e.learner.Revision()
	if rev == e.saved {
		return false, nil
	}
	snap := &store.Snapshot{
		Name:      id,
		Timestamp: time.Now(),
		Data:      e.learner.Snapshot(),
	}
	if err := r.repo.Save(ctx, snap); err != nil {
		return false, fmt.Errorf("persist learner %s: %w", id, err)
	}
	e.saved = rev
	return true, nil
}

// PersistAll persists every loaded learner with unsaved changes.
func (r *Registry) PersistAll(ctx context.Context) error {
	var errs []error
	for _, id := range r.IDs() {
		if _, err := r.persistEntry(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Prune trims stored snapshots of every known learner to the keep limit.
func (r *Registry) Prune(ctx context.Context) error {
	if r.repo == nil {
		return nil
	}
	names, err := r.repo.Names(ctx)
	if err != nil {
		return fmt.Errorf("list learners: %w", err)
	}
	var errs []error
	for _, name := range names {
		if err := r.repo.Prune(ctx, name, r.keep); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Reset forgets a learner: stored snapshots are deleted and the next Get
// starts from zero.
func (r *Registry) Reset(ctx context.Context, id string) error {
	r.mu.Lock()
	delete(r.learners, id)
	r.mu.Unlock()

	if r.repo == nil {
		return nil
	}
	if err := r.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("reset learner %s: %w", id, err)
	}
	return nil
}

// IDs returns the ids of all loaded learners.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.learners))
	for id := range r.learners {
		ids = append(ids, id)
	}
	return ids
}
