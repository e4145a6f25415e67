package decision

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/linguabridge-backend/internal/platform/logger"
	"github.com/yungbote/linguabridge-backend/internal/policy"
)

// CooldownWindow is the backpressure window applied after a backend failure
// or a backend-signaled rate limit.
const CooldownWindow = 60 * time.Second

// SessionState is a point-in-time snapshot of one session's mutable state.
type SessionState struct {
	Mastery         float64
	Frustration     float64
	BudgetRemaining int
	CooldownUntil   *time.Time
	Channel         Channel
}

type sessionEntry struct {
	mu    sync.Mutex
	state SessionState
}

// Tracker owns every live session's budget/cooldown/signal state. All
// mutation for one session happens under that session's lock; the lock is
// only ever held for counter reads and writes, never across network I/O
// (callers Reserve, release, call out, then Commit*).
//
// State lives in memory: a reconnect presenting the same session id reuses
// the live entry, a process restart rebuilds from policy.
type Tracker struct {
	log *logger.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*sessionEntry
}

func NewTracker(baseLog *logger.Logger) *Tracker {
	return &Tracker{
		log:      baseLog.With("component", "SessionTracker"),
		sessions: make(map[uuid.UUID]*sessionEntry),
	}
}

// StartSession initializes state for a session from its resolved policy.
// If the session is already live (reconnect race, second device) the
// existing state is kept; budgets do not refill on reconnect.
func (t *Tracker) StartSession(sessionID uuid.UUID, pol policy.EffectivePolicy) SessionState {
	t.mu.Lock()
	entry, ok := t.sessions[sessionID]
	if !ok {
		entry = &sessionEntry{
			state: SessionState{
				Mastery:         0.5,
				Frustration:     0,
				BudgetRemaining: pol.Budgeting.MaxCallsPerSession,
				Channel:         ChannelDeterministic,
			},
		}
		t.sessions[sessionID] = entry
	}
	t.mu.Unlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.state
}

// EndSession drops a session's live state.
func (t *Tracker) EndSession(sessionID uuid.UUID) {
	t.mu.Lock()
	delete(t.sessions, sessionID)
	t.mu.Unlock()
}

func (t *Tracker) entry(sessionID uuid.UUID) *sessionEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	entry, ok := t.sessions[sessionID]
	if !ok {
		// Unknown session: conservative zero-budget state. StartSession is
		// the real initialization path.
		entry = &sessionEntry{
			state: SessionState{Mastery: 0.5, Channel: ChannelDeterministic},
		}
		t.sessions[sessionID] = entry
	}
	return entry
}

// Snapshot returns the session's current state.
func (t *Tracker) Snapshot(sessionID uuid.UUID) SessionState {
	entry := t.entry(sessionID)
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.state
}

// ApplyAttempt folds a review attempt into the aggregate signals. deltaPoints
// is in percentage points (-20..+15); frustration rises on lapses and decays
// on success.
func (t *Tracker) ApplyAttempt(sessionID uuid.UUID, deltaPoints float64, lapsed bool) SessionState {
	entry := t.entry(sessionID)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	entry.state.Mastery = clamp01(entry.state.Mastery + deltaPoints/100)
	if lapsed || deltaPoints < 0 {
		entry.state.Frustration = clamp01(entry.state.Frustration + 0.1)
	} else {
		entry.state.Frustration = clamp01(entry.state.Frustration - 0.05)
	}
	return entry.state
}

// Reserve decides whether a backend-calling action may proceed right now.
// It does not decrement the budget: the decrement happens in CommitSuccess
// after the call actually succeeds. For non-backend actions Reserve always
// allows and only reports state.
func (t *Tracker) Reserve(sessionID uuid.UUID, action Action, now time.Time) (bool, SessionState) {
	entry := t.entry(sessionID)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if !action.CallsBackend() {
		return true, entry.state
	}
	if entry.state.BudgetRemaining <= 0 {
		return false, entry.state
	}
	if entry.state.CooldownUntil != nil && now.Before(*entry.state.CooldownUntil) {
		return false, entry.state
	}
	return true, entry.state
}

// CommitSuccess records a successful backend call: budget down one (never
// below zero), channel LLM.
func (t *Tracker) CommitSuccess(sessionID uuid.UUID) SessionState {
	entry := t.entry(sessionID)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.state.BudgetRemaining > 0 {
		entry.state.BudgetRemaining--
	}
	entry.state.Channel = ChannelLLM
	return entry.state
}

// CommitFailure records a failed or rate-limited backend call: cooldown
// opens for CooldownWindow and the session falls back to the deterministic
// channel. The budget is not charged for failures.
func (t *Tracker) CommitFailure(sessionID uuid.UUID, now time.Time) SessionState {
	entry := t.entry(sessionID)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	until := now.Add(CooldownWindow)
	entry.state.CooldownUntil = &until
	entry.state.Channel = ChannelDeterministic
	return entry.state
}

// SetChannel records the channel that actually served a turn.
func (t *Tracker) SetChannel(sessionID uuid.UUID, ch Channel) SessionState {
	entry := t.entry(sessionID)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	entry.state.Channel = ch
	return entry.state
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
