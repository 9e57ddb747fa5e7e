package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/controlusuario/userbot/internal/domain"
)

func newTestRegistry() *Registry {
	return NewRegistry(
		[]string{"Free", "Plus", "Premium"},
		[]string{"Grupo Free", "Grupo Plus", "Grupo Premium"},
		[]string{"Academia Free", "Academia Plus", "Academia Premium"},
	)
}

func TestEnumFieldsAreCaseSensitive(t *testing.T) {
	r := newTestRegistry()

	assert.True(t, r.IsValid(domain.FieldPlan, "Plus"))
	assert.True(t, r.IsValid(domain.FieldPlan, " Plus "))
	assert.False(t, r.IsValid(domain.FieldPlan, "plus"))
	assert.False(t, r.IsValid(domain.FieldPlan, "Gold"))
	assert.True(t, r.IsValid(domain.FieldGroup, "Grupo Free"))
	assert.True(t, r.IsValid(domain.FieldAcademy, "Academia Premium"))
}

func TestFreeTextFieldsRequireNonEmpty(t *testing.T) {
	r := newTestRegistry()

	assert.True(t, r.IsValid(domain.FieldFirstName, "Ana"))
	assert.True(t, r.IsValid(domain.FieldPhone, "555"))
	assert.False(t, r.IsValid(domain.FieldLastName, "   "))
	assert.False(t, r.IsValid(domain.FieldLastName, ""))
}

func TestUnknownFieldNeverValid(t *testing.T) {
	r := newTestRegistry()
	assert.False(t, r.IsValid("password", "whatever"))
}

func TestOptions(t *testing.T) {
	r := newTestRegistry()

	assert.Equal(t, []string{"Free", "Plus", "Premium"}, r.Options(domain.FieldPlan))
	assert.Nil(t, r.Options(domain.FieldFirstName))
	assert.True(t, r.IsEnum(domain.FieldGroup))
	assert.False(t, r.IsEnum(domain.FieldPhone))

	// Mutating the returned slice must not affect the registry.
	opts := r.Options(domain.FieldPlan)
	opts[0] = "Hacked"
	assert.True(t, r.IsValid(domain.FieldPlan, "Free"))
}
