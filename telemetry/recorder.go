package telemetry

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/milk9111/skyhook/logging"
)

const (
	flushInterval = 500 * time.Millisecond
	queueCap      = 4096
)

// Open connects to the sqlite telemetry store. An empty path opens an
// in-memory database that vanishes with the process.
func Open(path string) (*gorm.DB, error) {
	dsn := path
	if dsn == "" {
		dsn = "file::memory:?cache=shared"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		CreateBatchSize:        256,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", dsn, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = MEMORY;",
		"PRAGMA synchronous = OFF;",
		"PRAGMA temp_store = MEMORY;",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("telemetry: set pragma: %w", err)
		}
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(DatabaseModels...); err != nil {
		return fmt.Errorf("telemetry: migrate schema: %w", err)
	}
	return nil
}

// recordQueue buffers rows between the frame loop and the writer
// goroutine. Past capacity it drops new rows instead of growing, so a
// stalled writer costs samples rather than memory.
type recordQueue[T any] struct {
	mu      sync.Mutex
	items   []T
	limit   int
	dropped uint64
}

func newRecordQueue[T any](limit int) *recordQueue[T] {
	return &recordQueue[T]{limit: limit}
}

func (q *recordQueue[T]) push(items ...T) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, item := range items {
		if q.limit > 0 && len(q.items) >= q.limit {
			q.dropped++
			continue
		}
		q.items = append(q.items, item)
	}
}

func (q *recordQueue[T]) drain() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = make([]T, 0, cap(out))
	return out
}

func (q *recordQueue[T]) takeDropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := q.dropped
	q.dropped = 0
	return n
}

// Recorder journals frame samples and damage records for one session.
// Record calls never block the frame loop; a background goroutine
// drains the queues into the database on an interval.
type Recorder struct {
	db      *gorm.DB
	session Session
	frame   atomic.Int64

	frames *recordQueue[FrameSample]
	damage *recordQueue[DamageRecord]

	stopCh chan struct{}
	doneCh chan struct{}
	once   sync.Once
}

func NewRecorder(db *gorm.DB, seed int64, label string) (*Recorder, error) {
	r := &Recorder{
		db: db,
		session: Session{
			StartedAt: time.Now(),
			Seed:      seed,
			Label:     label,
		},
		frames: newRecordQueue[FrameSample](queueCap),
		damage: newRecordQueue[DamageRecord](queueCap),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
	if err := db.Create(&r.session).Error; err != nil {
		return nil, fmt.Errorf("telemetry: create session: %w", err)
	}

	go r.run()
	return r, nil
}

// Frame reports the current frame number.
func (r *Recorder) Frame() int64 {
	if r == nil {
		return 0
	}
	return r.frame.Load()
}

// NextFrame advances the frame counter and reports the new value.
func (r *Recorder) NextFrame() int64 {
	if r == nil {
		return 0
	}
	return r.frame.Add(1)
}

func (r *Recorder) SessionID() uint {
	if r == nil {
		return 0
	}
	return r.session.ID
}

func (r *Recorder) RecordFrame(s FrameSample) {
	if r == nil {
		return
	}
	s.SessionID = r.session.ID
	r.frames.push(s)
}

func (r *Recorder) RecordDamage(d DamageRecord) {
	if r == nil {
		return
	}
	d.SessionID = r.session.ID
	r.damage.push(d)
}

func (r *Recorder) run() {
	defer close(r.doneCh)
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.flush()
		case <-r.stopCh:
			r.flush()
			return
		}
	}
}

func (r *Recorder) flush() {
	writeQueue(r.db, r.frames, "frame samples")
	writeQueue(r.db, r.damage, "damage records")
	if n := r.frames.takeDropped() + r.damage.takeDropped(); n > 0 {
		logging.Logger.Warn().Uint64("dropped", n).Msg("telemetry queue overflow")
	}
}

// writeQueue drains one queue into the database. On failure the rows
// go back in the queue for the next flush, bounded by its capacity.
func writeQueue[T any](db *gorm.DB, q *recordQueue[T], what string) {
	items := q.drain()
	if len(items) == 0 {
		return
	}
	if err := db.Create(&items).Error; err != nil {
		logging.Logger.Error().Err(err).Str("records", what).Msg("telemetry write failed")
		q.push(items...)
	}
}

// Close stops the writer, flushes whatever is queued and stamps the
// session row. Safe to call more than once.
func (r *Recorder) Close() error {
	if r == nil {
		return nil
	}
	var err error
	r.once.Do(func() {
		close(r.stopCh)
		<-r.doneCh
		err = r.db.Model(&r.session).Updates(map[string]any{
			"ended_at": time.Now(),
			"frames":   r.frame.Load(),
		}).Error
	})
	return err
}
