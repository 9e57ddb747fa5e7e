package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/controlusuario/userbot/internal/domain"
)

func TestStoreIsolatesAdmins(t *testing.T) {
	store := NewMemoryStore()

	store.Put(Session{AdminID: 1, TargetID: 100, Step: StepPlan})
	store.Put(Session{AdminID: 2, TargetID: 200, Step: StepFirstName})

	s1, ok := store.Get(1)
	assert.True(t, ok)
	assert.EqualValues(t, 100, s1.TargetID)
	assert.Equal(t, StepPlan, s1.Step)

	s2, ok := store.Get(2)
	assert.True(t, ok)
	assert.EqualValues(t, 200, s2.TargetID)

	store.Clear(1)
	assert.False(t, store.Active(1))
	assert.True(t, store.Active(2))
}

func TestPutReplacesExistingSession(t *testing.T) {
	store := NewMemoryStore()
	store.Put(Session{AdminID: 1, TargetID: 100, Step: StepAcademy})
	store.Put(Session{AdminID: 1, Step: StepTargetID})

	s, ok := store.Get(1)
	assert.True(t, ok)
	assert.Zero(t, s.TargetID)
	assert.Equal(t, StepTargetID, s.Step)
}

func TestStepSequence(t *testing.T) {
	order := []Step{StepTargetID, StepFirstName, StepLastName, StepPlan, StepGroup, StepAcademy, StepPhone, StepDone}
	for i := 0; i < len(order)-1; i++ {
		assert.Equal(t, order[i+1], order[i].Next())
	}
	assert.Equal(t, StepDone, StepDone.Next())
}

func TestStepFields(t *testing.T) {
	assert.Equal(t, "", StepTargetID.Field())
	assert.Equal(t, domain.FieldFirstName, StepFirstName.Field())
	assert.Equal(t, domain.FieldPhone, StepPhone.Field())
	assert.Equal(t, "", StepDone.Field())
}
