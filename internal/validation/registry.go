// Package validation holds the enumerated legal value sets for constrained
// user fields and validates candidate input against them.
package validation

import (
	"strings"

	"github.com/controlusuario/userbot/internal/domain"
)

// Registry validates candidate values for editable user fields. Enumerated
// fields (plan, grupo, academia) accept only exact members of their domain;
// free-text fields accept any non-empty trimmed string.
type Registry struct {
	domains map[string][]string
}

// NewRegistry builds a registry from the configured value sets.
func NewRegistry(plans, groups, academies []string) *Registry {
	return &Registry{
		domains: map[string][]string{
			domain.FieldPlan:    plans,
			domain.FieldGroup:   groups,
			domain.FieldAcademy: academies,
		},
	}
}

// IsValid reports whether value is acceptable for the named field.
// Unknown field names are never valid. Validation never fails hard; the
// caller re-prompts on false.
func (r *Registry) IsValid(field, value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	if options, ok := r.domains[field]; ok {
		for _, opt := range options {
			if opt == value {
				return true
			}
		}
		return false
	}
	return domain.IsEditableField(field)
}

// IsEnum reports whether the field is constrained to an enumerated domain.
func (r *Registry) IsEnum(field string) bool {
	_, ok := r.domains[field]
	return ok
}

// Options returns the legal values for an enumerated field, or nil for
// free-text fields.
func (r *Registry) Options(field string) []string {
	options, ok := r.domains[field]
	if !ok {
		return nil
	}
	out := make([]string, len(options))
	copy(out, options)
	return out
}
