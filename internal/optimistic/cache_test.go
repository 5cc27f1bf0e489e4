package optimistic

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

func stored(day int, start string) models.Appointment {
	return models.Appointment{
		ID:        uuid.New(),
		Date:      time.Date(2024, 5, day, 3, 0, 0, 0, time.UTC),
		StartTime: start,
		Status:    "scheduled",
	}
}

func TestCache_UpdateCopies(t *testing.T) {
	c := NewCache()
	ap := stored(10, "14:00")
	key := ap.ID.String()
	c.Put(key, ap)

	assert.True(t, c.Update(key, func(a *models.Appointment) { a.Status = "completed" }))
	assert.False(t, c.Update("missing", func(a *models.Appointment) { a.Status = "completed" }))

	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, "completed", got.Status)
	// o valor original não é alterado
	assert.Equal(t, "scheduled", ap.Status)

	c.Remove(key)
	_, ok = c.Get(key)
	assert.False(t, ok)
}

func TestCache_LoadKeepsDrafts(t *testing.T) {
	c := NewCache()
	old := stored(9, "10:00")
	c.Put(old.ID.String(), old)
	draft := c.PutDraft(models.Appointment{StartTime: "08:00", Date: time.Date(2024, 5, 11, 3, 0, 0, 0, time.UTC)})
	assert.True(t, strings.HasPrefix(draft, "draft-"))

	a, b := stored(10, "16:00"), stored(10, "09:00")
	c.Load([]models.Appointment{a, b})

	_, ok := c.Get(old.ID.String())
	assert.False(t, ok)

	items := c.Items()
	require.Len(t, items, 3)
	assert.Equal(t, b.ID.String(), items[0].Key)
	assert.Equal(t, a.ID.String(), items[1].Key)
	assert.Equal(t, draft, items[2].Key)
}

func TestRegistry_ForIsPerUser(t *testing.T) {
	r := NewRegistry()

	assert.Same(t, r.For("u1"), r.For("u1"))
	assert.NotSame(t, r.For("u1"), r.For("u2"))
}

func TestCache_RefsFollowDraft(t *testing.T) {
	c := NewCache()
	sessionID := uuid.New()

	c.SetRefs("draft-missing", Refs{SessionID: &sessionID})
	assert.Nil(t, c.Refs("draft-missing").SessionID)

	key := c.PutDraft(stored(10, "10:00"))
	c.SetRefs(key, Refs{SessionID: &sessionID})
	require.NotNil(t, c.Refs(key).SessionID)
	assert.Equal(t, sessionID, *c.Refs(key).SessionID)
	assert.Nil(t, c.Refs(key).TransactionID)

	c.Remove(key)
	assert.Nil(t, c.Refs(key).SessionID)
}
