package scheduler

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/metrics"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	DefaultPollInterval = 5 * time.Minute
	DefaultLookahead    = time.Hour
)

// Store returns reminders that are neither delivered nor cancelled.
type Store interface {
	PendingNotifications(ctx context.Context, from, to time.Time) ([]models.Notification, error)
}

// Dispatcher delivers a reminder when its timer fires.
type Dispatcher interface {
	Dispatch(ctx context.Context, n models.Notification) error
}

type timer struct {
	key   string
	timer *time.Timer
}

// Scheduler polls for upcoming reminders and keeps one in-process timer per
// notification. Timer state is not persisted; a restart rebuilds it from the
// next poll.
type Scheduler struct {
	Store      Store
	Dispatcher Dispatcher
	Log        *zerolog.Logger

	PollInterval time.Duration
	Lookahead    time.Duration
	Grace        time.Duration
	Now          func() time.Time

	mu     sync.Mutex
	timers map[uuid.UUID]*timer

	ctx      context.Context
	cancel   context.CancelFunc
	syncCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func New(store Store, dispatcher Dispatcher, log *zerolog.Logger) *Scheduler {
	return &Scheduler{
		Store:        store,
		Dispatcher:   dispatcher,
		Log:          log,
		PollInterval: DefaultPollInterval,
		Lookahead:    DefaultLookahead,
		timers:       make(map[uuid.UUID]*timer),
		syncCh:       make(chan struct{}, 1),
		done:         make(chan struct{}),
	}
}

func (s *Scheduler) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Start polls once and then on every interval until Stop is called or ctx ends.
func (s *Scheduler) Start(ctx context.Context) {
	s.ctx, s.cancel = context.WithCancel(ctx)
	ctx = s.Log.WithContext(s.ctx)

	go func() {
		defer close(s.done)

		interval := s.PollInterval
		if interval <= 0 {
			interval = DefaultPollInterval
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			if err := s.Poll(ctx); err != nil {
				s.Log.Error().Err(err).Msg("failed to poll reminders")
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			case <-s.syncCh:
			}
		}
	}()
}

// Sync requests an immediate poll. Requests made while one is pending are merged.
func (s *Scheduler) Sync() {
	select {
	case s.syncCh <- struct{}{}:
	default:
	}
}

// Poll registers a timer for every pending reminder due within the lookahead
// window. Reminders already tracked are skipped; overdue ones inside the grace
// window fire immediately.
func (s *Scheduler) Poll(ctx context.Context) error {
	now := s.now()
	lookahead := s.Lookahead
	if lookahead <= 0 {
		lookahead = DefaultLookahead
	}

	pending, err := s.Store.PendingNotifications(ctx, now.Add(-s.Grace), now.Add(lookahead))
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, n := range pending {
		if _, ok := s.timers[n.ID]; ok {
			continue
		}
		delay := n.ScheduledFor.Sub(now)
		if delay < 0 {
			delay = 0
		}

		n := n
		s.timers[n.ID] = &timer{
			key:   n.Key(),
			timer: time.AfterFunc(delay, func() { s.fire(n) }),
		}
		added++
	}
	metrics.RemindersScheduled.Set(float64(len(s.timers)))

	if added > 0 {
		s.Log.Debug().Int("added", added).Int("tracked", len(s.timers)).Msg("reminder timers registered")
	}
	return nil
}

func (s *Scheduler) fire(n models.Notification) {
	ctx := s.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	logger := s.Log.With().Str("reminder", n.Key()).Logger()

	if err := s.Dispatcher.Dispatch(logger.WithContext(ctx), n); err != nil {
		logger.Error().Err(err).Msg("failed to dispatch reminder")
	}

	s.mu.Lock()
	delete(s.timers, n.ID)
	metrics.RemindersScheduled.Set(float64(len(s.timers)))
	s.mu.Unlock()
}

// Cancel stops and forgets every timer whose key contains entityID.
func (s *Scheduler) Cancel(entityID uuid.UUID) int {
	id := entityID.String()

	s.mu.Lock()
	defer s.mu.Unlock()

	cancelled := 0
	for nid, t := range s.timers {
		if strings.Contains(t.key, id) {
			t.timer.Stop()
			delete(s.timers, nid)
			cancelled++
		}
	}
	metrics.RemindersScheduled.Set(float64(len(s.timers)))
	return cancelled
}

// Tracked returns the number of pending timers.
func (s *Scheduler) Tracked() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop ends the poll loop and stops every pending timer.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
			<-s.done
		}

		s.mu.Lock()
		for id, t := range s.timers {
			t.timer.Stop()
			delete(s.timers, id)
		}
		metrics.RemindersScheduled.Set(0)
		s.mu.Unlock()
	})
}
