package simulation

import (
	"sync"
	"time"

	"github.com/futig/parallel-universe/internal/entity"
)

// State is the submission state of one wizard session: the loading flag,
// the current result and the last transport failure.
type State struct {
	mu          sync.Mutex
	loading     bool
	result      *entity.SimulationResult
	lastErr     error
	completedAt time.Time
}

func NewState() *State {
	return &State{}
}

// Status is a consistent copy of State.
type Status struct {
	Loading     bool
	Result      *entity.SimulationResult
	LastError   error
	CompletedAt time.Time
}

func (s *State) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Status{
		Loading:     s.loading,
		Result:      s.result,
		LastError:   s.lastErr,
		CompletedAt: s.completedAt,
	}
}

func (s *State) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *State) Result() *entity.SimulationResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

func (s *State) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// begin sets the loading flag unless a submission is already running.
func (s *State) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loading {
		return entity.ErrSubmissionInProgress
	}
	s.loading = true
	return nil
}

// succeed replaces the result and clears the loading flag.
func (s *State) succeed(result *entity.SimulationResult, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.result = result
	s.lastErr = nil
	s.completedAt = at
	s.loading = false
}

// fail records the failure and clears the loading flag. The previous result is kept.
func (s *State) fail(err error, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastErr = err
	s.completedAt = at
	s.loading = false
}
