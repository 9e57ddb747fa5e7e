// Package domain defines the user roster records shared by storage and flows.
package domain

import (
	"database/sql"
	"time"
)

// Field identifiers accepted by single-field updates. They match the wire
// names used in admin commands, not necessarily the database column names.
const (
	FieldFirstName = "nombre"
	FieldLastName  = "apellido"
	FieldPlan      = "plan"
	FieldGroup     = "grupo"
	FieldAcademy   = "academia"
	FieldPhone     = "telefono"
)

// EditableFields lists every field an administrator may modify, in the
// order the registration flow collects them.
var EditableFields = []string{
	FieldFirstName,
	FieldLastName,
	FieldPlan,
	FieldGroup,
	FieldAcademy,
	FieldPhone,
}

// User is one registered Telegram actor. The id is the Telegram user id and
// never changes. Optional fields are nullable so that "unset" is an explicit
// state rather than an absent map key.
type User struct {
	ID           int64          `db:"id"`
	Username     sql.NullString `db:"username"`
	Phone        sql.NullString `db:"phone"`
	FirstName    sql.NullString `db:"first_name"`
	LastName     sql.NullString `db:"last_name"`
	Plan         sql.NullString `db:"plan"`
	Group        sql.NullString `db:"group_name"`
	Academy      sql.NullString `db:"academy"`
	Verified     bool           `db:"verified"`
	RegisteredAt time.Time      `db:"registered_at"`
}

// IsEditableField reports whether name is a known editable field.
func IsEditableField(name string) bool {
	for _, f := range EditableFields {
		if f == name {
			return true
		}
	}
	return false
}
