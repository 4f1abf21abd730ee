package migration

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/pool"
	"github.com/synqtech/synq-site/internal/models"
	"go.uber.org/zap"
)

// LockName is the RunGuard lease the migration takes.
const LockName = "local-data-migration"

type State string

const (
	StateDone   State = "done"
	StateFailed State = "failed"
)

// Outcome is the terminal result of one kind's pipeline.
type Outcome struct {
	Kind       models.Kind `json:"kind"`
	State      State       `json:"state"`
	Source     Source      `json:"source,omitempty"`
	Loaded     int         `json:"loaded"`
	Dropped    int         `json:"dropped"`
	Inserted   int         `json:"inserted"`
	SeedStatus SeedStatus  `json:"seed_status,omitempty"`
	Err        error       `json:"-"`
	Error      string      `json:"error,omitempty"`
}

type Report struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Skipped    bool      `json:"skipped"`
	SkipReason string    `json:"skip_reason,omitempty"`
	Outcomes   []Outcome `json:"outcomes"`
}

// Outcome returns the result recorded for kind.
func (r Report) Outcome(kind models.Kind) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Kind == kind {
			return o, true
		}
	}
	return Outcome{}, false
}

// Failed lists the kinds whose pipeline failed.
func (r Report) Failed() []models.Kind {
	var failed []models.Kind
	for _, o := range r.Outcomes {
		if o.State == StateFailed {
			failed = append(failed, o.Kind)
		}
	}
	return failed
}

type MigratorConfig struct {
	Loader     *Loader
	Seeder     *Seeder
	Normalizer *Normalizer
	// Guard, when set, serialises runs across processes.
	Guard RunGuard
	// HealthCheck gates Start; a failing check skips the migration.
	HealthCheck func(ctx context.Context) error
	Sequential  bool
	Kinds       []models.Kind
	Logger      *zap.Logger
}

// Migrator copies local records into the remote tables, one independent
// Load → Normalize → Seed pipeline per kind.
type Migrator struct {
	loader      *Loader
	seeder      *Seeder
	normalizer  *Normalizer
	guard       RunGuard
	healthCheck func(ctx context.Context) error
	sequential  bool
	kinds       []models.Kind
	logger      *zap.Logger

	running   atomic.Bool
	startOnce sync.Once
}

func NewMigrator(cfg MigratorConfig) *Migrator {
	m := &Migrator{
		loader:      cfg.Loader,
		seeder:      cfg.Seeder,
		normalizer:  cfg.Normalizer,
		guard:       cfg.Guard,
		healthCheck: cfg.HealthCheck,
		sequential:  cfg.Sequential,
		kinds:       cfg.Kinds,
		logger:      cfg.Logger,
	}
	if m.normalizer == nil {
		m.normalizer = NewNormalizer()
	}
	if len(m.kinds) == 0 {
		m.kinds = models.AllKinds()
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}
	return m
}

// Start runs the migration in the background, at most once per Migrator.
// The returned channel yields the report and is then closed; later calls
// get an already closed channel.
func (m *Migrator) Start(ctx context.Context) <-chan Report {
	done := make(chan Report, 1)
	started := false

	m.startOnce.Do(func() {
		started = true
		go func() {
			defer close(done)
			if m.healthCheck != nil {
				if err := m.healthCheck(ctx); err != nil {
					m.logger.Warn("Remote store unreachable, skipping data migration", zap.Error(err))
					now := time.Now()
					done <- Report{StartedAt: now, FinishedAt: now, Skipped: true, SkipReason: "remote store unreachable"}
					return
				}
			}
			done <- m.Run(ctx)
		}()
	})

	if !started {
		close(done)
	}
	return done
}

// Run executes every kind's pipeline and reports the outcome. It never
// fails: errors end up in the report and the log.
func (m *Migrator) Run(ctx context.Context) Report {
	report := Report{StartedAt: time.Now()}

	if !m.running.CompareAndSwap(false, true) {
		m.logger.Warn("Data migration already running, skipping")
		return m.skip(report, "already running")
	}
	defer m.running.Store(false)

	if m.guard != nil {
		release, acquired, err := m.guard.Acquire(ctx, LockName)
		if err != nil {
			m.logger.Error("Failed to acquire migration lock", zap.Error(err))
			return m.skip(report, "lock unavailable")
		}
		if !acquired {
			m.logger.Info("Data migration running elsewhere, skipping")
			return m.skip(report, "lock held elsewhere")
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release migration lock", zap.Error(err))
			}
		}()
	}

	report.Outcomes = make([]Outcome, len(m.kinds))
	if m.sequential {
		for i, kind := range m.kinds {
			report.Outcomes[i] = m.migrateKind(ctx, kind)
		}
	} else {
		p := pool.New().WithMaxGoroutines(len(m.kinds))
		for i, kind := range m.kinds {
			i, kind := i, kind
			p.Go(func() {
				report.Outcomes[i] = m.migrateKind(ctx, kind)
			})
		}
		p.Wait()
	}

	report.FinishedAt = time.Now()
	m.logSummary(report)
	return report
}

func (m *Migrator) skip(report Report, reason string) Report {
	report.Skipped = true
	report.SkipReason = reason
	report.FinishedAt = time.Now()
	return report
}

func (m *Migrator) migrateKind(ctx context.Context, kind models.Kind) (out Outcome) {
	out = Outcome{Kind: kind, State: StateFailed}
	log := m.logger.With(zap.String("kind", kind.String()))

	defer func() {
		if r := recover(); r != nil {
			out.State = StateFailed
			out.Err = fmt.Errorf("panic: %v", r)
			log.Error("Migration pipeline panicked", zap.Any("panic", r))
		}
		if out.Err != nil {
			out.Error = out.Err.Error()
		}
	}()

	loaded, err := m.loader.Load(ctx, kind)
	if err != nil {
		out.Err = err
		log.Error("Failed to load local records", zap.Error(err))
		return out
	}
	out.Source = loaded.Source
	out.Loaded = len(loaded.Records)

	records, dropped := m.normalizer.NormalizeBatch(kind, loaded.Records)
	for _, verr := range dropped {
		log.Warn("Dropping invalid local record",
			zap.Int("index", verr.Index),
			zap.String("field", verr.Field),
		)
	}
	out.Dropped = len(dropped)

	result, err := m.seeder.Seed(ctx, kind, records)
	if err != nil {
		out.Err = err
		log.Error("Failed to seed remote table", zap.Error(err))
		return out
	}
	out.SeedStatus = result.Status
	out.Inserted = result.Inserted
	out.State = StateDone

	log.Debug("Kind migrated",
		zap.String("source", string(out.Source)),
		zap.String("seed_status", string(out.SeedStatus)),
		zap.Int("inserted", out.Inserted),
	)
	return out
}

func (m *Migrator) logSummary(report Report) {
	fields := []zap.Field{zap.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt))}
	for _, o := range report.Outcomes {
		fields = append(fields, zap.String(o.Kind.String(), fmt.Sprintf("%s/%s (%d inserted, %d dropped)", o.State, o.SeedStatus, o.Inserted, o.Dropped)))
	}

	if failed := report.Failed(); len(failed) > 0 {
		m.logger.Warn("Data migration finished with failures", fields...)
		return
	}
	m.logger.Info("Data migration completed", fields...)
}
