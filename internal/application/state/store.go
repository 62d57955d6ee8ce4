package state

import (
	"sync"
	"time"

	"github.com/penwyp/go-sales-chart/internal/core/model"
	"github.com/penwyp/go-sales-chart/internal/util"
)

// DefaultErrorTTL is how long an error notice stays up without being dismissed
const DefaultErrorTTL = 6 * time.Second

// Snapshot is a point-in-time copy of the UI state.
type Snapshot struct {
	Loading     bool
	Error       string
	Records     []model.RawRecord
	Granularity model.Granularity
	UseStatic   bool
	Generation  uint64
	LastUpdate  time.Time
}

// Store holds the UI state. Every change goes through a transition method;
// subscribers get a coalesced notification after each change.
type Store struct {
	mu sync.RWMutex

	loading     bool
	errMsg      string
	errSeq      uint64
	records     []model.RawRecord
	granularity model.Granularity
	useStatic   bool
	generation  uint64
	lastUpdate  time.Time

	errorTTL    time.Duration
	errTimer    *time.Timer
	subscribers []chan struct{}
}

// NewStore creates a store in its initial state: loading, day granularity, remote source.
func NewStore(errorTTL time.Duration) *Store {
	if errorTTL <= 0 {
		errorTTL = DefaultErrorTTL
	}
	return &Store{
		loading:     true,
		records:     make([]model.RawRecord, 0),
		granularity: model.DefaultGranularity,
		errorTTL:    errorTTL,
	}
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]model.RawRecord, len(s.records))
	copy(records, s.records)

	return Snapshot{
		Loading:     s.loading,
		Error:       s.errMsg,
		Records:     records,
		Granularity: s.granularity,
		UseStatic:   s.useStatic,
		Generation:  s.generation,
		LastUpdate:  s.lastUpdate,
	}
}

// BeginLoad marks a load in flight and returns its token. Only the newest token
// may complete.
func (s *Store) BeginLoad() uint64 {
	s.mu.Lock()
	s.generation++
	token := s.generation
	s.loading = true
	s.mu.Unlock()

	s.notify()
	return token
}

// CompleteLoad applies a finished load. A result whose token is not the newest is
// dropped and false is returned. On failure the previous records stay visible.
func (s *Store) CompleteLoad(token uint64, records []model.RawRecord, errMsg string) bool {
	s.mu.Lock()
	if token != s.generation {
		latest := s.generation
		s.mu.Unlock()
		util.LogDebugf("Dropping stale load result: token=%d latest=%d", token, latest)
		return false
	}

	s.loading = false
	if errMsg != "" {
		s.setErrorLocked(errMsg)
	} else {
		s.records = records
		s.lastUpdate = time.Now()
	}
	s.mu.Unlock()

	s.notify()
	return true
}

// SetGranularity switches the selector and reports whether it changed
func (s *Store) SetGranularity(g model.Granularity) bool {
	s.mu.Lock()
	changed := s.granularity != g
	s.granularity = g
	s.mu.Unlock()

	if changed {
		s.notify()
	}
	return changed
}

// SetUseStatic flips the data source toggle and reports whether it changed
func (s *Store) SetUseStatic(useStatic bool) bool {
	s.mu.Lock()
	changed := s.useStatic != useStatic
	s.useStatic = useStatic
	s.mu.Unlock()

	if changed {
		s.notify()
	}
	return changed
}

// DismissError clears the error notice
func (s *Store) DismissError() {
	s.mu.Lock()
	hadError := s.errMsg != ""
	s.clearErrorLocked()
	s.mu.Unlock()

	if hadError {
		s.notify()
	}
}

func (s *Store) setErrorLocked(msg string) {
	s.errMsg = msg
	s.errSeq++
	seq := s.errSeq

	if s.errTimer != nil {
		s.errTimer.Stop()
	}
	s.errTimer = time.AfterFunc(s.errorTTL, func() {
		s.expireError(seq)
	})
}

func (s *Store) clearErrorLocked() {
	s.errMsg = ""
	if s.errTimer != nil {
		s.errTimer.Stop()
		s.errTimer = nil
	}
}

// expireError clears the notice only if it is still the one the timer was set for.
func (s *Store) expireError(seq uint64) {
	s.mu.Lock()
	if seq != s.errSeq || s.errMsg == "" {
		s.mu.Unlock()
		return
	}
	s.errMsg = ""
	s.errTimer = nil
	s.mu.Unlock()

	s.notify()
}

// Subscribe returns a channel that receives a signal after state changes.
// Signals are coalesced; read Snapshot for the current state.
func (s *Store) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subscribers = append(s.subscribers, ch)
	s.mu.Unlock()
	return ch
}

// Close stops the error timer.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.errTimer != nil {
		s.errTimer.Stop()
		s.errTimer = nil
	}
}

func (s *Store) notify() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
