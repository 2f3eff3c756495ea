package attempt

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type State string

const (
	Unknown   State = "unknown"
	Loading   State = "loading"
	Answering State = "answering"
	Submitted State = "submitted"
)

var ErrAttemptSubmitted = errors.New("attempt already submitted")

// Tracker holds the quiz-taking state of each attempt:
// Loading -> Answering (re-entrant) -> Submitted (terminal).
// Entries expire after the configured ttl.
type Tracker struct {
	mu    sync.Mutex
	store *gocache.Cache
}

func NewTracker(ttl time.Duration) *Tracker {
	return &Tracker{store: gocache.New(ttl, ttl/4+time.Second)}
}

func key(attemptID int) string {
	return strconv.Itoa(attemptID)
}

func (t *Tracker) get(attemptID int) State {
	if v, ok := t.store.Get(key(attemptID)); ok {
		return v.(State)
	}
	return Unknown
}

func (t *Tracker) set(attemptID int, s State) {
	t.store.SetDefault(key(attemptID), s)
}

// State returns the current state, or Unknown.
func (t *Tracker) State(attemptID int) State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.get(attemptID)
}

// Begin marks a page load. It returns the state to restore if the load fails.
func (t *Tracker) Begin(attemptID int) (State, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev := t.get(attemptID)
	if prev == Submitted {
		return prev, fmt.Errorf("%w: %d", ErrAttemptSubmitted, attemptID)
	}
	t.set(attemptID, Loading)
	return prev, nil
}

// Restore puts back the state Begin replaced.
func (t *Tracker) Restore(attemptID int, prev State) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.get(attemptID) != Loading {
		return
	}
	if prev == Unknown {
		t.store.Delete(key(attemptID))
		return
	}
	t.set(attemptID, prev)
}

func (t *Tracker) Loaded(attemptID int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.get(attemptID) != Submitted {
		t.set(attemptID, Answering)
	}
}

// CanAnswer (re)enters Answering unless the attempt is already submitted.
// A page still Loading is left for Loaded to complete. An Unknown attempt
// enters Answering directly: entries expire and do not survive a restart,
// so Moodle stays the authority on whether the attempt is open.
func (t *Tracker) CanAnswer(attemptID int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.get(attemptID) {
	case Submitted:
		return fmt.Errorf("%w: %d", ErrAttemptSubmitted, attemptID)
	case Loading:
		return nil
	}
	t.set(attemptID, Answering)
	return nil
}

func (t *Tracker) Finish(attemptID int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.set(attemptID, Submitted)
}
