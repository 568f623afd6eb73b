// Package store holds the household's domain state in memory.
//
// A Store is opened once per process from a kv.Store, serves every read from
// memory and applies every mutation synchronously. After a mutation the
// affected collections are re-serialized and handed to a background
// persister, so a slow or failing disk never blocks the caller and never
// rolls back the in-memory change. Derived views (budget remaining,
// upcoming and overdue tasks, category breakdowns, average ratings) are
// recomputed on every call.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"homekeep/internal/core"
	"homekeep/internal/kv"
	"homekeep/internal/log"
)

var (
	ErrDuplicateID = errors.New("duplicate id")
	ErrClosed      = errors.New("store closed")
)

// DefaultWriteTimeout bounds a single background kv write.
const DefaultWriteTimeout = 5 * time.Second

// Notifier receives a ChangeEvent after each applied mutation.
type Notifier interface {
	Notify(ctx context.Context, event core.ChangeEvent) error
}

type Store struct {
	mu sync.RWMutex

	profile       core.HomeProfile
	appliances    []core.Appliance
	tasks         []core.MaintenanceTask
	budgetItems   []core.BudgetItem
	pros          []core.TrustedPro
	monthlyBudget core.Money

	logger    *slog.Logger
	now       func() time.Time
	persister *persister
}

type options struct {
	logger       *slog.Logger
	now          func() time.Time
	notifier     Notifier
	writeTimeout time.Duration
}

type Option func(*options)

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock replaces time.Now. "Today" and the current month are taken from
// the calendar date of the returned time in its own location.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithNotifier(n Notifier) Option {
	return func(o *options) { o.notifier = n }
}

func WithWriteTimeout(d time.Duration) Option {
	return func(o *options) { o.writeTimeout = d }
}

// Open loads every collection from backend and starts the persister.
//
// A missing key yields an empty collection. A value that does not decode is
// logged and treated as empty. Any other read error fails Open, since
// continuing would overwrite data that is merely unreachable.
func Open(ctx context.Context, backend kv.Store, opts ...Option) (*Store, error) {
	o := options{
		now:          time.Now,
		writeTimeout: DefaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default().With(log.FieldComponent, log.ComponentStore)
	}

	s := &Store{
		logger: o.logger,
		now:    o.now,
	}

	start := time.Now()
	if err := s.load(ctx, backend); err != nil {
		return nil, err
	}
	s.repairReferences()

	s.persister = newPersister(backend, o.notifier, o.logger, o.writeTimeout)
	go s.persister.run()

	s.logger.InfoContext(ctx, "Store loaded",
		"appliances", len(s.appliances),
		"tasks", len(s.tasks),
		"budget_items", len(s.budgetItems),
		"trusted_pros", len(s.pros),
		log.FieldDuration, time.Since(start).Milliseconds())

	return s, nil
}

func (s *Store) load(ctx context.Context, backend kv.Reader) error {
	targets := map[core.Collection]any{
		core.CollectionHomeProfile:   &s.profile,
		core.CollectionAppliances:    &s.appliances,
		core.CollectionTasks:         &s.tasks,
		core.CollectionBudgetItems:   &s.budgetItems,
		core.CollectionTrustedPros:   &s.pros,
		core.CollectionMonthlyBudget: &s.monthlyBudget,
	}

	var (
		mu   sync.Mutex
		raws = make(map[core.Collection][]byte, len(targets))
	)
	g, gctx := errgroup.WithContext(ctx)
	for c := range targets {
		g.Go(func() error {
			b, err := backend.Get(gctx, string(c))
			if errors.Is(err, kv.ErrNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("load %s: %w", c, err)
			}
			mu.Lock()
			raws[c] = b
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for c, raw := range raws {
		if err := json.Unmarshal(raw, targets[c]); err != nil {
			s.logger.WarnContext(ctx, "Discarding unreadable collection",
				log.FieldOperation, log.OpLoad,
				log.FieldCollection, c,
				log.FieldBytes, len(raw),
				log.FieldError, err)
			resetTarget(targets[c])
		}
	}
	return nil
}

// resetTarget zeroes a partially decoded collection.
func resetTarget(target any) {
	switch t := target.(type) {
	case *core.HomeProfile:
		*t = core.HomeProfile{}
	case *[]core.Appliance:
		*t = nil
	case *[]core.MaintenanceTask:
		*t = nil
	case *[]core.BudgetItem:
		*t = nil
	case *[]core.TrustedPro:
		*t = nil
	case *core.Money:
		*t = core.Money{}
	}
}

// repairReferences clears appliance references that point nowhere, which
// can happen when a collection was discarded on load.
func (s *Store) repairReferences() {
	repaired := 0
	for i := range s.tasks {
		s.tasks[i].NormalizeRecurrence()
		if id := s.tasks[i].ApplianceID; id != "" && s.applianceIndex(id) < 0 {
			s.tasks[i].ApplianceID = ""
			repaired++
		}
	}
	for i := range s.budgetItems {
		if id := s.budgetItems[i].ApplianceID; id != "" && s.applianceIndex(id) < 0 {
			s.budgetItems[i].ApplianceID = ""
			repaired++
		}
	}
	for i := range s.pros {
		before := len(s.pros[i].LinkedApplianceIDs)
		s.pros[i].LinkedApplianceIDs = slices.DeleteFunc(s.pros[i].LinkedApplianceIDs, func(id string) bool {
			return s.applianceIndex(id) < 0
		})
		repaired += before - len(s.pros[i].LinkedApplianceIDs)
	}
	if repaired > 0 {
		s.logger.Warn("Cleared dangling appliance references", log.FieldCount, repaired)
	}
}

// Flush waits until every change made before the call has been written and
// returns the write errors seen since the previous Flush.
func (s *Store) Flush(ctx context.Context) error {
	return s.persister.flush(ctx)
}

// Close flushes pending writes and stops the persister. Later mutations
// still apply in memory but are no longer persisted.
func (s *Store) Close(ctx context.Context) error {
	return s.persister.close(ctx)
}

// LastPersistError reports collections whose latest background write
// failed. It returns nil once every collection has been written successfully.
func (s *Store) LastPersistError() error {
	return s.persister.lastError()
}

// persistLocked snapshots the given collections and queues them for writing.
// Callers hold s.mu.
func (s *Store) persistLocked(collections ...core.Collection) {
	for _, c := range collections {
		var (
			value  any
			remove bool
		)
		switch c {
		case core.CollectionHomeProfile:
			value = s.profile
		case core.CollectionAppliances:
			value = s.appliances
		case core.CollectionTasks:
			value = s.tasks
		case core.CollectionBudgetItems:
			value = s.budgetItems
		case core.CollectionTrustedPros:
			value = s.pros
		case core.CollectionMonthlyBudget:
			value = s.monthlyBudget
			remove = s.monthlyBudget.Cents == 0
		}

		if remove {
			s.persister.enqueueRemove(string(c))
			continue
		}
		b, err := json.Marshal(value)
		if err != nil {
			s.logger.Error("Failed to encode collection", log.FieldCollection, c, log.FieldError, err)
			continue
		}
		s.persister.enqueueSet(string(c), b)
	}
}

func (s *Store) notifyLocked(c core.Collection, op core.ChangeOp, id string) {
	s.persister.enqueueEvent(core.ChangeEvent{Collection: c, Op: op, ID: id, At: s.now()})
}

func (s *Store) today() core.Date {
	return core.DateOf(s.now())
}

func (s *Store) applianceIndex(id string) int {
	return slices.IndexFunc(s.appliances, func(a core.Appliance) bool { return a.ID == id })
}

func (s *Store) taskIndex(id string) int {
	return slices.IndexFunc(s.tasks, func(t core.MaintenanceTask) bool { return t.ID == id })
}

func (s *Store) budgetItemIndex(id string) int {
	return slices.IndexFunc(s.budgetItems, func(b core.BudgetItem) bool { return b.ID == id })
}

func (s *Store) proIndex(id string) int {
	return slices.IndexFunc(s.pros, func(p core.TrustedPro) bool { return p.ID == id })
}

func (s *Store) warnNotFound(op string, c core.Collection, id string) {
	s.logger.Warn("Entity not found, ignoring",
		log.NewFields().WithOperation(op).WithEntity(string(c), id).ToSlice()...)
}
