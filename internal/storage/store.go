// Package storage persists the user roster. The contract is a thin
// document-style store: point lookup, create-if-absent, partial field
// update, count, and ordered range scans for the listing.
package storage

import (
	"context"
	"errors"

	"github.com/controlusuario/userbot/internal/domain"
)

// ErrNotFound is returned by FindByID when no record exists for the id.
var ErrNotFound = errors.New("storage: user not found")

// UserStore is the persistence contract consumed by the flows.
type UserStore interface {
	// FindByID returns the record for the given Telegram user id,
	// or ErrNotFound.
	FindByID(ctx context.Context, id int64) (*domain.User, error)

	// CreateIfAbsent inserts a fresh unverified record unless one already
	// exists. It reports whether a row was created; an existing record is
	// never modified.
	CreateIfAbsent(ctx context.Context, id int64, username string) (bool, error)

	// UpdateFields applies a partial update of editable fields and returns
	// the number of matched records (0 when the user does not exist).
	UpdateFields(ctx context.Context, id int64, fields map[string]string) (int64, error)

	// SetVerified updates phone and flips the verified flag in one write.
	// Used by the final step of the registration flow.
	SetVerified(ctx context.Context, id int64, phone string) (int64, error)

	// SetPhone stores the shared contact phone number.
	SetPhone(ctx context.Context, id int64, phone string) (int64, error)

	// Count returns the total number of registered users.
	Count(ctx context.Context) (int64, error)

	// List returns users ordered by registration time (creation order),
	// skipping offset rows and returning at most limit rows.
	List(ctx context.Context, offset, limit int) ([]domain.User, error)
}

// columnFor maps editable wire field names to their database columns.
// Keeping the whitelist here guarantees dynamic updates never interpolate
// caller-provided identifiers.
var columnFor = map[string]string{
	domain.FieldFirstName: "first_name",
	domain.FieldLastName:  "last_name",
	domain.FieldPlan:      "plan",
	domain.FieldGroup:     "group_name",
	domain.FieldAcademy:   "academy",
	domain.FieldPhone:     "phone",
}
