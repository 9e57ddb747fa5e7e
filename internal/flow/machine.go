package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/controlusuario/userbot/internal/logger"
	"github.com/controlusuario/userbot/internal/session"
	"github.com/controlusuario/userbot/internal/storage"
	"github.com/controlusuario/userbot/internal/validation"
)

// User-facing texts for the registration flow.
const (
	msgAskTargetID  = "Envía el ID de Telegram del usuario a registrar:"
	msgInvalidID    = "ID inválido. Debe ser un número."
	msgUserNotFound = "❌ Usuario no registrado. El usuario debe iniciar el bot primero."
	msgStoreFailure = "⚠️ Error temporal de almacenamiento. Vuelve a intentarlo."
	msgCancelled    = "Registro cancelado."
	msgNoFlow       = "No hay ningún registro en curso."
	msgCompleted    = "✅ Usuario registrado y verificado correctamente."
)

var stepPrompts = map[session.Step]string{
	session.StepFirstName: "Nombre del usuario:",
	session.StepLastName:  "Apellido del usuario:",
	session.StepPlan:      "Selecciona el plan del usuario:",
	session.StepGroup:     "Selecciona el grupo del usuario:",
	session.StepAcademy:   "Selecciona la academia del usuario:",
	session.StepPhone:     "Teléfono del usuario:",
}

// Machine drives the bounded prompt sequence that collects one target user's
// fields. Each administrator owns at most one session; input events for the
// same administrator must be delivered one at a time.
type Machine struct {
	sessions session.Store
	users    storage.UserStore
	registry *validation.Registry
	log      *slog.Logger
}

// NewMachine wires the state machine with its collaborators.
func NewMachine(sessions session.Store, users storage.UserStore, registry *validation.Registry) *Machine {
	return &Machine{
		sessions: sessions,
		users:    users,
		registry: registry,
		log:      logger.Component("flow.machine"),
	}
}

// Active reports whether the administrator has a flow in progress.
func (m *Machine) Active(adminID int64) bool {
	return m.sessions.Active(adminID)
}

// Start opens a fresh editing session for the administrator, replacing any
// session already in progress.
func (m *Machine) Start(ctx context.Context, adminID int64) Effect {
	m.sessions.Put(session.Session{AdminID: adminID, Step: session.StepTargetID})
	m.log.Info("flow started",
		slog.String("event", "flow.start"),
		slog.Int64("admin_id", adminID),
		slog.String("rid", logger.RIDFrom(ctx)),
	)
	return Effect{Action: ActionAdvance, Text: msgAskTargetID}
}

// Cancel clears the administrator's session without persisting the in-flight
// step. Fields committed by earlier completed steps stay committed.
func (m *Machine) Cancel(ctx context.Context, adminID int64) Effect {
	if !m.sessions.Active(adminID) {
		return Effect{Action: ActionNone, Text: msgNoFlow}
	}
	m.sessions.Clear(adminID)
	m.log.Info("flow cancelled",
		slog.String("event", "flow.cancel"),
		slog.Int64("admin_id", adminID),
		slog.String("rid", logger.RIDFrom(ctx)),
	)
	return Effect{Action: ActionNone, Text: msgCancelled}
}

// HandleText feeds one text input from the owning administrator into the
// machine. Inputs from administrators without a session produce no effect.
func (m *Machine) HandleText(ctx context.Context, adminID int64, text string) (Effect, error) {
	sess, ok := m.sessions.Get(adminID)
	if !ok {
		return Effect{Action: ActionNone}, nil
	}

	value := strings.TrimSpace(text)
	if sess.Step == session.StepTargetID {
		return m.resolveTarget(ctx, sess, value)
	}
	return m.collectField(ctx, sess, value)
}

func (m *Machine) resolveTarget(ctx context.Context, sess session.Session, value string) (Effect, error) {
	targetID, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return Effect{Action: ActionAskAgain, Text: msgInvalidID}, nil
	}

	if _, err := m.users.FindByID(ctx, targetID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Creating brand-new users is the registration gate's job.
			m.sessions.Clear(sess.AdminID)
			m.log.Warn("target not found",
				slog.String("event", "flow.target"),
				slog.Int64("admin_id", sess.AdminID),
				slog.Int64("target_id", targetID),
			)
			return Effect{Action: ActionNone, Text: msgUserNotFound}, nil
		}
		return Effect{Action: ActionAskAgain, Text: msgStoreFailure},
			fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	sess.TargetID = targetID
	sess.Step = session.StepFirstName
	m.sessions.Put(sess)
	return m.promptFor(sess.Step), nil
}

func (m *Machine) collectField(ctx context.Context, sess session.Session, value string) (Effect, error) {
	field := sess.Step.Field()
	if !m.registry.IsValid(field, value) {
		// Self-loop: same prompt, session unchanged.
		eff := m.promptFor(sess.Step)
		if len(eff.Options) > 0 {
			eff.Action = ActionShowOptions
		} else {
			eff.Action = ActionAskAgain
		}
		return eff, nil
	}

	var (
		matched int64
		err     error
	)
	if sess.Step == session.StepPhone {
		matched, err = m.users.SetVerified(ctx, sess.TargetID, value)
	} else {
		matched, err = m.users.UpdateFields(ctx, sess.TargetID, map[string]string{field: value})
	}
	if err != nil {
		return Effect{Action: ActionAskAgain, Text: msgStoreFailure},
			fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if matched == 0 {
		// Target vanished mid-flow; abort rather than recreate it.
		m.sessions.Clear(sess.AdminID)
		return Effect{Action: ActionNone, Text: msgUserNotFound}, nil
	}

	m.log.Debug("field persisted",
		slog.String("event", "flow.step"),
		slog.Int64("admin_id", sess.AdminID),
		slog.Int64("target_id", sess.TargetID),
		slog.String("field", field),
	)

	sess.Step = sess.Step.Next()
	if sess.Step == session.StepDone {
		m.sessions.Clear(sess.AdminID)
		m.log.Info("flow completed",
			slog.String("event", "flow.complete"),
			slog.Int64("admin_id", sess.AdminID),
			slog.Int64("target_id", sess.TargetID),
		)
		return Effect{Action: ActionAdvance, Text: msgCompleted}, nil
	}
	m.sessions.Put(sess)
	return m.promptFor(sess.Step), nil
}

func (m *Machine) promptFor(step session.Step) Effect {
	eff := Effect{Action: ActionAdvance, Text: stepPrompts[step]}
	if field := step.Field(); field != "" {
		eff.Options = m.registry.Options(field)
	}
	return eff
}
