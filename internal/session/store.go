package session

import (
	"errors"
	"sync"
	"time"

	"github.com/uptc-energy/energy-assistant/pkg/models"
)

var ErrNotFound = errors.New("session not found")

// Context is the explicit per-session state passed through the orchestrator:
// the running conversation, the most recent prediction, and the inefficiency
// event currently in focus. Nothing here survives process restart.
type Context struct {
	ID             string                    `json:"id"`
	History        []models.ConversationTurn `json:"history"`
	LastPrediction *models.PredictionRecord  `json:"last_prediction,omitempty"`
	SelectedEvent  *models.InefficiencyEvent `json:"selected_event,omitempty"`
	CreatedAt      time.Time                 `json:"created_at"`
	UpdatedAt      time.Time                 `json:"updated_at"`
}

// Store is the key-value session backend. Do runs fn under a per-session
// lock, which is the single-writer discipline for conversation state: two
// concurrent turns on the same session serialize instead of overwriting each
// other's prediction record.
type Store interface {
	// Create allocates a new empty session and returns its id.
	Create() string

	// Snapshot returns a copy of the session state, safe to read without
	// holding the session lock.
	Snapshot(id string) (Context, error)

	// Do executes fn with exclusive access to the session context. Mutations
	// made by fn are retained; UpdatedAt is refreshed afterwards.
	Do(id string, fn func(*Context) error) error

	// Reset clears history, last prediction, and event selection, keeping
	// the session itself alive.
	Reset(id string) error
}

type entry struct {
	mu  sync.Mutex
	ctx Context
}

// MemoryStore keeps sessions in process memory, matching the demo's
// session-scoped persistence model.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*entry),
	}
}

func (s *MemoryStore) Create() string {
	id := models.NewUUID()
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &entry{
		ctx: Context{ID: id, CreatedAt: now, UpdatedAt: now},
	}
	return id
}

func (s *MemoryStore) lookup(id string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

func (s *MemoryStore) Snapshot(id string) (Context, error) {
	e, err := s.lookup(id)
	if err != nil {
		return Context{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return copyContext(&e.ctx), nil
}

func (s *MemoryStore) Do(id string, fn func(*Context) error) error {
	e, err := s.lookup(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := fn(&e.ctx); err != nil {
		return err
	}
	e.ctx.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) Reset(id string) error {
	return s.Do(id, func(ctx *Context) error {
		ctx.History = nil
		ctx.LastPrediction = nil
		ctx.SelectedEvent = nil
		return nil
	})
}

func copyContext(ctx *Context) Context {
	out := *ctx
	out.History = make([]models.ConversationTurn, len(ctx.History))
	copy(out.History, ctx.History)
	if ctx.LastPrediction != nil {
		p := *ctx.LastPrediction
		out.LastPrediction = &p
	}
	if ctx.SelectedEvent != nil {
		e := *ctx.SelectedEvent
		out.SelectedEvent = &e
	}
	return out
}
