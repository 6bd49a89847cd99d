package search

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/govrecords/internal/domain/search/request"
	"github.com/kailas-cloud/govrecords/internal/domain/search/state"
	"github.com/kailas-cloud/govrecords/internal/metrics"
)

// DefaultDebounce is the quiet period before an input change triggers a fetch.
const DefaultDebounce = 300 * time.Millisecond

// SessionOptions configures a Session.
type SessionOptions struct {
	// Debounce is the quiet period after the last query-changing action.
	// Zero fetches immediately; negative uses DefaultDebounce.
	Debounce time.Duration
	// OnChange receives every new state while the session lock is held.
	// It must not call back into the Session.
	OnChange func(state.State)
	Logger   *zap.Logger
}

// Session drives one interactive search: it owns the current state, debounces
// query-changing actions, and applies fetch completions in last-request-wins
// order. A superseded fetch is not aborted; its result is discarded.
type Session struct {
	ctx      context.Context
	svc      *Service
	debounce time.Duration
	onChange func(state.State)
	logger   *zap.Logger

	gen Generation
	wg  sync.WaitGroup

	mu     sync.Mutex
	st     state.State
	timer  *time.Timer
	armed  uint64
	closed bool
}

// NewSession creates a session starting from initial. Fetches run under ctx.
func NewSession(ctx context.Context, svc *Service, initial state.State, opts SessionOptions) *Session {
	if opts.Debounce < 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Session{
		ctx:      ctx,
		svc:      svc,
		debounce: opts.Debounce,
		onChange: opts.OnChange,
		logger:   opts.Logger,
		st:       initial,
	}
}

// State returns the current state.
func (s *Session) State() state.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st
}

// Dispatch applies a to the current state and returns the new state. Actions
// that change what must be fetched (re)arm the debounce timer.
func (s *Session) Dispatch(a state.Action) state.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s.st
	}

	s.apply(a)
	if state.Refetches(a) {
		s.schedule()
	}
	return s.st
}

// Refresh schedules a fetch for the current inputs without changing them.
func (s *Session) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.schedule()
	}
}

// Close stops the pending timer and waits for in-flight fetches to finish.
// Completions arriving after Close are dropped.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.cancelTimerLocked()
	s.mu.Unlock()

	s.wg.Wait()
}

// Wait blocks until no timer is pending and no fetch is in flight.
func (s *Session) Wait() {
	s.wg.Wait()
}

func (s *Session) apply(a state.Action) {
	s.st = state.Reduce(s.st, a)
	if s.onChange != nil {
		s.onChange(s.st)
	}
}

// schedule must be called with mu held.
func (s *Session) schedule() {
	s.cancelTimerLocked()
	s.armed++
	token := s.armed

	s.wg.Add(1)
	if s.debounce == 0 {
		s.fireLocked(token)
		s.wg.Done()
		return
	}
	s.timer = time.AfterFunc(s.debounce, func() {
		defer s.wg.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		s.fireLocked(token)
	})
}

// cancelTimerLocked stops a pending timer. If the timer already fired, its
// callback sees a stale token and does nothing.
func (s *Session) cancelTimerLocked() {
	if s.timer == nil {
		return
	}
	if s.timer.Stop() {
		s.wg.Done()
	}
	s.timer = nil
}

func (s *Session) fireLocked(token uint64) {
	if s.closed || token != s.armed {
		return
	}
	s.timer = nil

	seq := s.gen.Next()
	req, suppressed := s.svc.Prepare(s.st.Input)
	if suppressed {
		metrics.SearchSuppressedTotal.Inc()
		s.apply(state.SearchSuppressed{Seq: seq})
		return
	}

	s.apply(state.SearchStarted{Seq: seq, Request: req.Describe()})
	s.wg.Add(1)
	go s.fetch(seq, req)
}

func (s *Session) fetch(seq uint64, req request.Request) {
	defer s.wg.Done()

	raw, err := s.svc.Fetch(s.ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || !s.gen.IsLatest(seq) {
		metrics.SearchStaleDiscardedTotal.Inc()
		s.logger.Debug("Discarding stale search result",
			zap.Uint64("seq", seq),
			zap.Uint64("latest", s.gen.Current()),
		)
		return
	}
	if err != nil {
		s.logger.Warn("Search failed",
			zap.Uint64("seq", seq),
			zap.Stringer("request", req),
			zap.Error(err),
		)
		s.apply(state.SearchFailed{Seq: seq, Err: err.Error()})
		return
	}
	s.apply(state.SearchSucceeded{Seq: seq, Raw: raw})
}
