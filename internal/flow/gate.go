package flow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/controlusuario/userbot/internal/logger"
	"github.com/controlusuario/userbot/internal/storage"
)

// RegistrationOutcome is the result of a first-contact event.
type RegistrationOutcome int

const (
	// RegistrationCreated means a fresh record was inserted.
	RegistrationCreated RegistrationOutcome = iota
	// RegistrationExists means the actor was already registered; nothing
	// was modified.
	RegistrationExists
)

// PhoneResult is the result of a contact-sharing event.
type PhoneResult int

const (
	// PhoneAccepted means the phone was stored on the existing record.
	PhoneAccepted PhoneResult = iota
	// PhoneMismatchedOwner means the shared contact belongs to someone else.
	PhoneMismatchedOwner
	// PhoneNotRegistered means the actor has no record yet; first contact
	// must happen before sharing a phone.
	PhoneNotRegistered
)

// Gate handles idempotent self-registration and later phone capture for
// ordinary users.
type Gate struct {
	users storage.UserStore
	log   *slog.Logger
}

// NewGate wires the registration gate.
func NewGate(users storage.UserStore) *Gate {
	return &Gate{users: users, log: logger.Component("flow.gate")}
}

// FirstContact creates a user record on first /start. A repeated first
// contact for the same actor performs zero field mutations.
func (g *Gate) FirstContact(ctx context.Context, actorID int64, handle string) (RegistrationOutcome, error) {
	created, err := g.users.CreateIfAbsent(ctx, actorID, strings.TrimSpace(handle))
	if err != nil {
		return RegistrationExists, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if !created {
		return RegistrationExists, nil
	}
	g.log.Info("user self-registered",
		slog.String("event", "gate.first_contact"),
		slog.Int64("user_id", actorID),
	)
	return RegistrationCreated, nil
}

// PhoneShared stores the phone number from a shared contact. The contact
// must belong to the sender, and the sender must have completed first
// contact already. Re-sharing overwrites the previous number.
func (g *Gate) PhoneShared(ctx context.Context, actorID int64, phone string, contactOwnerID int64) (PhoneResult, error) {
	if contactOwnerID != actorID {
		g.log.Warn("foreign contact rejected",
			slog.String("event", "gate.phone"),
			slog.Int64("user_id", actorID),
			slog.Int64("owner_id", contactOwnerID),
		)
		return PhoneMismatchedOwner, nil
	}

	matched, err := g.users.SetPhone(ctx, actorID, strings.TrimSpace(phone))
	if err != nil {
		return PhoneNotRegistered, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if matched == 0 {
		return PhoneNotRegistered, nil
	}
	g.log.Info("phone captured",
		slog.String("event", "gate.phone"),
		slog.Int64("user_id", actorID),
	)
	return PhoneAccepted, nil
}
