package timer

import (
	"sync"
	"time"
)

// Ticker is the tick source driving a running session.
type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}

type TickerFunc func(d time.Duration) Ticker

type stdTicker struct {
	*time.Ticker
}

func (t stdTicker) Chan() <-chan time.Time {
	return t.C
}

func newStdTicker(d time.Duration) Ticker {
	return stdTicker{time.NewTicker(d)}
}

type Option func(*Store)

// WithTicker replaces the wall clock ticker, mostly for tests.
func WithTicker(fn TickerFunc) Option {
	return func(s *Store) {
		s.newTicker = fn
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func WithInterval(d time.Duration) Option {
	return func(s *Store) {
		s.interval = d
	}
}

// Store owns the process-wide timer session and its only tick source. Any number of
// observers may subscribe; ticking never depends on how many there are.
type Store struct {
	mu        sync.Mutex
	session   Session
	version   uint64
	gen       uint64
	halt      func()
	subs      map[int]func(Session)
	nextSub   int
	newTicker TickerFunc
	interval  time.Duration
	now       func() time.Time

	// serialises delivery; delivered is the newest version handed to subscribers
	notifyMu  sync.Mutex
	delivered uint64
}

// update is a published change: the snapshot, its version and the subscribers at that moment.
type update struct {
	version uint64
	snap    Session
	subs    []func(Session)
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		session:   idleSession(),
		subs:      make(map[int]func(Session)),
		newTicker: newStdTicker,
		interval:  time.Second,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Snapshot returns a copy of the current session.
func (s *Store) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Subscribe registers fn to receive a snapshot after every change and tick. Snapshots arrive in order
// and a superseded one is skipped. fn runs on the publishing goroutine and must not call back into the
// Store. The returned func unsubscribes.
func (s *Store) Subscribe(fn func(Session)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Start binds the session to a project and starts ticking. Elapsed time survives only when
// resetTime is false and some time was already accumulated.
func (s *Store) Start(projectID, taskID, description string, resetTime bool) error {
	if projectID == "" {
		return ErrNoProject
	}
	if taskID == "" {
		taskID = NoTask
	}

	s.mu.Lock()
	if s.session.Phase == Saving {
		s.mu.Unlock()
		return ErrInvalidTransition
	}
	s.haltLocked()

	if resetTime || s.session.ElapsedSeconds == 0 {
		s.session.ElapsedSeconds = 0
		s.session.StartedAt = s.now()
	}
	s.session.ProjectID = projectID
	s.session.TaskID = taskID
	s.session.Description = description
	s.setPhaseLocked(Running)
	s.runLocked()

	u := s.changedLocked()
	s.mu.Unlock()

	s.publish(u)
	return nil
}

// Pause freezes a running session. No tick is applied once Pause returns.
func (s *Store) Pause() error {
	return s.transition(func() error {
		if s.session.Phase != Running {
			return ErrInvalidTransition
		}
		s.haltLocked()
		s.setPhaseLocked(Paused)
		return nil
	})
}

// Continue resumes a paused session without touching elapsed time.
func (s *Store) Continue() error {
	return s.transition(func() error {
		if s.session.Phase != Paused {
			return ErrInvalidTransition
		}
		if s.session.ProjectID == "" {
			return ErrNoProject
		}
		s.setPhaseLocked(Running)
		s.runLocked()
		return nil
	})
}

// Stop halts a running or paused session. Elapsed time and the project binding are kept for reconciliation.
func (s *Store) Stop() error {
	return s.transition(s.stopLocked)
}

// Reset returns the store to a fresh idle session. It fails while an entry is being saved.
func (s *Store) Reset() error {
	return s.transition(func() error {
		if s.session.Phase == Saving {
			return ErrInvalidTransition
		}
		s.haltLocked()
		s.session = idleSession()
		return nil
	})
}

func (s *Store) stopLocked() error {
	if s.session.Phase != Running && s.session.Phase != Paused {
		return ErrInvalidTransition
	}
	s.haltLocked()
	s.setPhaseLocked(Stopped)
	return nil
}

func (s *Store) transition(fn func() error) error {
	s.mu.Lock()
	if err := fn(); err != nil {
		s.mu.Unlock()
		return err
	}
	u := s.changedLocked()
	s.mu.Unlock()

	s.publish(u)
	return nil
}

func (s *Store) setPhaseLocked(p Phase) {
	s.session.Phase = p
	s.session.IsRunning = p == Running
}

// runLocked starts the single tick goroutine for the current generation.
func (s *Store) runLocked() {
	s.gen++
	gen := s.gen
	t := s.newTicker(s.interval)
	done := make(chan struct{})
	s.halt = func() {
		t.Stop()
		close(done)
	}

	go func() {
		for {
			select {
			case <-done:
				return
			case <-t.Chan():
				s.tick(gen)
			}
		}
	}()
}

// haltLocked stops the tick goroutine. Bumping gen discards a tick already waiting on the lock.
func (s *Store) haltLocked() {
	s.gen++
	if s.halt != nil {
		s.halt()
		s.halt = nil
	}
}

func (s *Store) tick(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.session.Phase != Running {
		s.mu.Unlock()
		return
	}
	s.session.ElapsedSeconds++
	u := s.changedLocked()
	s.mu.Unlock()

	s.publish(u)
}

func (s *Store) changedLocked() update {
	s.version++
	subs := make([]func(Session), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return update{version: s.version, snap: s.session, subs: subs}
}

// publish hands u to its subscribers unless a newer version already went out, so a tick that
// lost the race with Pause or Stop never shows up after them.
func (s *Store) publish(u update) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	if u.version <= s.delivered {
		return
	}
	s.delivered = u.version

	for _, fn := range u.subs {
		fn(u.snap)
	}
}
