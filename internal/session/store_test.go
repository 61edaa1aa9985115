package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uptc-energy/energy-assistant/pkg/models"
)

func TestMemoryStore_CreateAndSnapshot(t *testing.T) {
	s := NewMemoryStore()
	id := s.Create()
	require.NotEmpty(t, id)

	snap, err := s.Snapshot(id)
	require.NoError(t, err)
	assert.Equal(t, id, snap.ID)
	assert.Empty(t, snap.History)
	assert.Nil(t, snap.LastPrediction)
}

func TestMemoryStore_UnknownSession(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Snapshot("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.Do("missing", func(ctx *Context) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Reset("missing"), ErrNotFound)
}

func TestMemoryStore_DoMutates(t *testing.T) {
	s := NewMemoryStore()
	id := s.Create()

	err := s.Do(id, func(ctx *Context) error {
		ctx.History = append(ctx.History, models.ConversationTurn{
			Role: models.RoleUser, Content: "hola",
		})
		ctx.LastPrediction = &models.PredictionRecord{Site: "UPTC_CHI", ValueKWh: 1.2}
		return nil
	})
	require.NoError(t, err)

	snap, err := s.Snapshot(id)
	require.NoError(t, err)
	require.Len(t, snap.History, 1)
	assert.Equal(t, "hola", snap.History[0].Content)
	require.NotNil(t, snap.LastPrediction)
	assert.Equal(t, 1.2, snap.LastPrediction.ValueKWh)
}

func TestMemoryStore_SnapshotIsACopy(t *testing.T) {
	s := NewMemoryStore()
	id := s.Create()

	require.NoError(t, s.Do(id, func(ctx *Context) error {
		ctx.History = append(ctx.History, models.ConversationTurn{Role: models.RoleUser, Content: "a"})
		ctx.LastPrediction = &models.PredictionRecord{ValueKWh: 1.0}
		return nil
	}))

	snap, err := s.Snapshot(id)
	require.NoError(t, err)
	snap.History[0].Content = "mutated"
	snap.LastPrediction.ValueKWh = 99.0

	fresh, err := s.Snapshot(id)
	require.NoError(t, err)
	assert.Equal(t, "a", fresh.History[0].Content)
	assert.Equal(t, 1.0, fresh.LastPrediction.ValueKWh)
}

func TestMemoryStore_Reset(t *testing.T) {
	s := NewMemoryStore()
	id := s.Create()

	require.NoError(t, s.Do(id, func(ctx *Context) error {
		ctx.History = append(ctx.History, models.ConversationTurn{Role: models.RoleUser, Content: "a"})
		ctx.LastPrediction = &models.PredictionRecord{ValueKWh: 1.0}
		ctx.SelectedEvent = &models.InefficiencyEvent{SeverityRank: 1}
		return nil
	}))

	require.NoError(t, s.Reset(id))

	snap, err := s.Snapshot(id)
	require.NoError(t, err)
	assert.Empty(t, snap.History)
	assert.Nil(t, snap.LastPrediction)
	assert.Nil(t, snap.SelectedEvent)
}

func TestMemoryStore_ConcurrentTurnsSerialize(t *testing.T) {
	s := NewMemoryStore()
	id := s.Create()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Do(id, func(ctx *Context) error {
				ctx.History = append(ctx.History, models.ConversationTurn{
					Role: models.RoleUser, Content: "turn",
				})
				return nil
			})
		}()
	}
	wg.Wait()

	snap, err := s.Snapshot(id)
	require.NoError(t, err)
	assert.Len(t, snap.History, 50)
}
