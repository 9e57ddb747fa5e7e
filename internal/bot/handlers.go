package bot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/controlusuario/userbot/internal/domain"
	"github.com/controlusuario/userbot/internal/flow"
	"github.com/controlusuario/userbot/internal/logger"
	"github.com/controlusuario/userbot/internal/storage"
)

const (
	msgWelcomeUser = "Bienvenido al sistema de registro de usuarios.\n" +
		"Por favor, comparte tu número de teléfono para completar tu registro."
	msgWelcomeAdmin   = "Bienvenido, Administrador. Menú principal:"
	msgPhoneAccepted  = "✅ Registro completado. Ahora eres parte del sistema."
	msgPhoneForeign   = "Por favor comparte tu propio número de teléfono."
	msgPhoneNoRecord  = "Primero pulsa /start para registrarte."
	msgGenericFailure = "⚠️ Error temporal. Vuelve a intentarlo."

	msgHelpUser = "Este bot registra tu teléfono y datos para la gestión de usuarios.\n" +
		"Pulsa /start para comenzar."
	msgHelpAdmin = "Comandos de Administrador:\n" +
		"/verificar <id> — consultar un usuario\n" +
		"/registrar — registro guiado de un usuario\n" +
		"/modificar <id> <campo> <valor> — cambiar un campo\n" +
		"/listar — lista paginada de usuarios\n" +
		"/cancelar — cancelar el registro en curso"

	msgUsageVerify = "Uso: /verificar <telegram_id>"
	msgUsageModify = "Uso: /modificar <telegram_id> <campo> <nuevo_valor>\n" +
		"Campos válidos: nombre, apellido, plan, grupo, academia, telefono"
	msgInvalidNumericID = "ID inválido. Debe ser un número."
	msgNoSuchUser       = "❌ Usuario no registrado."
	msgFieldUpdated     = "✅ Campo '%s' actualizado correctamente."
	msgInvalidField     = "Campo inválido. Usa nombre, apellido, plan, grupo, academia o telefono."
	msgInvalidValue     = "Valor no permitido para el campo '%s'."
)

// requestContext rebuilds the logging context from the Telegram update.
func requestContext(c tele.Context) context.Context {
	ctx := context.Background()
	if rid, ok := c.Get("rid").(string); ok && rid != "" {
		ctx = logger.WithRID(ctx, rid)
	}
	userID, chatID := int64(0), int64(0)
	if user := c.Sender(); user != nil {
		userID = user.ID
	}
	if chat := c.Chat(); chat != nil {
		chatID = chat.ID
	}
	return logger.WithUpdateMeta(ctx, c.Update().ID, userID, chatID)
}

// onStart greets administrators with the menu and self-registers ordinary
// users. Re-registration is a data no-op; the greeting never reveals whether
// the record already existed.
func (b *Bot) onStart(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	if b.cfg.IsAdmin(user.ID) {
		return b.send(c, msgWelcomeAdmin, adminMenuMarkup())
	}

	ctx := requestContext(c)
	if _, err := b.gate.FirstContact(ctx, user.ID, user.Username); err != nil {
		b.log.Error("first contact failed",
			slog.String("event", "gate.first_contact"),
			slog.Int64("user_id", user.ID),
			slog.String("err", err.Error()),
		)
		return b.send(c, msgGenericFailure)
	}
	return b.send(c, msgWelcomeUser, contactRequestMarkup())
}

func (b *Bot) onHelp(c tele.Context) error {
	user := c.Sender()
	if user != nil && b.cfg.IsAdmin(user.ID) {
		return b.send(c, msgHelpAdmin)
	}
	return b.send(c, msgHelpUser)
}

// onContact captures the shared phone number of a self-registering user.
func (b *Bot) onContact(c tele.Context) error {
	user := c.Sender()
	contact := c.Message().Contact
	if user == nil || contact == nil {
		return nil
	}

	ctx := requestContext(c)
	result, err := b.gate.PhoneShared(ctx, user.ID, contact.PhoneNumber, contact.UserID)
	if err != nil {
		b.log.Error("phone capture failed",
			slog.String("event", "gate.phone"),
			slog.Int64("user_id", user.ID),
			slog.String("err", err.Error()),
		)
		return b.send(c, msgGenericFailure)
	}

	switch result {
	case flow.PhoneAccepted:
		return b.send(c, msgPhoneAccepted, removeKeyboard())
	case flow.PhoneMismatchedOwner:
		return b.send(c, msgPhoneForeign)
	default:
		return b.send(c, msgPhoneNoRecord)
	}
}

// onText routes plain text: the admin menu labels first, then the active
// registration flow. Text from ordinary users outside a flow is ignored.
func (b *Bot) onText(c tele.Context) error {
	user := c.Sender()
	if user == nil || !b.cfg.IsAdmin(user.ID) {
		return nil
	}

	switch strings.TrimSpace(c.Text()) {
	case menuVerify:
		return b.send(c, msgUsageVerify)
	case menuRegister:
		return b.cmdRegister(c)
	case menuList:
		return b.cmdList(c)
	case menuCancel:
		return b.cmdCancel(c)
	}

	if !b.machine.Active(user.ID) {
		return nil
	}

	ctx := requestContext(c)
	eff, err := b.machine.HandleText(ctx, user.ID, c.Text())
	if err != nil {
		b.log.Error("flow step failed",
			slog.String("event", "flow.step"),
			slog.Int64("admin_id", user.ID),
			slog.String("err", err.Error()),
		)
	}
	return b.sendEffect(c, eff)
}

// cmdVerify shows the stored record for one user id.
func (b *Bot) cmdVerify(c tele.Context) error {
	args := c.Args()
	if len(args) < 1 {
		return b.send(c, msgUsageVerify)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return b.send(c, msgInvalidNumericID)
	}

	ctx := requestContext(c)
	u, err := b.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return b.send(c, msgNoSuchUser)
		}
		b.log.Error("verify lookup failed",
			slog.String("event", "admin.verify"),
			slog.Int64("target_id", id),
			slog.String("err", err.Error()),
		)
		return b.send(c, msgGenericFailure)
	}
	return b.send(c, userCard(u))
}

// cmdRegister starts the guided registration flow for the administrator.
func (b *Bot) cmdRegister(c tele.Context) error {
	ctx := requestContext(c)
	return b.sendEffect(c, b.machine.Start(ctx, c.Sender().ID))
}

// cmdModify applies one validated field change outside the guided flow.
func (b *Bot) cmdModify(c tele.Context) error {
	args := c.Args()
	if len(args) < 3 {
		return b.send(c, msgUsageModify)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return b.send(c, msgInvalidNumericID)
	}
	field := strings.ToLower(args[1])
	value := strings.Join(args[2:], " ")

	if !domain.IsEditableField(field) {
		return b.send(c, msgInvalidField)
	}
	if !b.registry.IsValid(field, value) {
		if options := b.registry.Options(field); len(options) > 0 {
			return b.send(c, fmt.Sprintf(msgInvalidValue, field)+"\nPermitidos: "+strings.Join(options, ", "))
		}
		return b.send(c, fmt.Sprintf(msgInvalidValue, field))
	}

	ctx := requestContext(c)
	matched, err := b.users.UpdateFields(ctx, id, map[string]string{field: strings.TrimSpace(value)})
	if err != nil {
		b.log.Error("modify failed",
			slog.String("event", "admin.modify"),
			slog.Int64("target_id", id),
			slog.String("field", field),
			slog.String("err", err.Error()),
		)
		return b.send(c, msgGenericFailure)
	}
	if matched == 0 {
		return b.send(c, msgNoSuchUser)
	}
	return b.send(c, fmt.Sprintf(msgFieldUpdated, field))
}

// cmdList sends the first page of the roster listing.
func (b *Bot) cmdList(c tele.Context) error {
	ctx := requestContext(c)
	eff, err := b.paginator.Render(ctx, 0)
	if err != nil {
		b.log.Error("listing failed",
			slog.String("event", "admin.list"),
			slog.String("err", err.Error()),
		)
	}
	return b.sendEffect(c, eff)
}

// cmdCancel aborts the administrator's in-flight registration flow.
func (b *Bot) cmdCancel(c tele.Context) error {
	ctx := requestContext(c)
	return b.sendEffect(c, b.machine.Cancel(ctx, c.Sender().ID))
}

// onCallback routes inline button presses: enum choices and cancellation
// feed the state machine, page navigation re-renders the listing in place.
func (b *Bot) onCallback(c tele.Context) error {
	user := c.Sender()
	cb := c.Callback()
	if user == nil || cb == nil {
		return nil
	}
	if !b.cfg.IsAdmin(user.ID) {
		return nil
	}

	key, payload := parseCallbackData(cb)
	_ = c.Respond()
	ctx := requestContext(c)

	switch key {
	case cbEnumOption:
		eff, err := b.machine.HandleText(ctx, user.ID, payload)
		if err != nil {
			b.log.Error("flow step failed",
				slog.String("event", "flow.step"),
				slog.Int64("admin_id", user.ID),
				slog.String("err", err.Error()),
			)
			return b.sendEffect(c, eff)
		}
		if eff.Action == flow.ActionNone && eff.Text == "" {
			return nil
		}
		// Freeze the answered prompt so the keyboard cannot be reused.
		_ = c.Edit(fmt.Sprintf("Seleccionado: %s", payload))
		return b.sendEffect(c, eff)

	case cbListPage:
		page, convErr := strconv.Atoi(payload)
		if convErr != nil {
			return nil
		}
		eff, err := b.paginator.Render(ctx, page)
		if err != nil {
			b.log.Error("listing failed",
				slog.String("event", "admin.list"),
				slog.String("err", err.Error()),
			)
			return nil
		}
		return b.editEffect(c, eff)

	case cbCancelFlow:
		eff := b.machine.Cancel(ctx, user.ID)
		return c.Edit(eff.Text)
	}
	return nil
}

// sendEffect renders a flow effect as a new message.
func (b *Bot) sendEffect(c tele.Context, eff flow.Effect) error {
	if eff.Text == "" {
		return nil
	}
	if eff.Action == flow.ActionShowPage {
		if markup := pageNavMarkup(eff.Window); markup != nil {
			return b.send(c, eff.Text, markup)
		}
		return b.send(c, eff.Text)
	}
	if len(eff.Options) > 0 {
		return b.send(c, eff.Text, enumOptionsMarkup(eff.Options))
	}
	return b.send(c, eff.Text)
}

// editEffect replaces the current message with the effect rendering; paging
// is an idempotent view refresh, not an append.
func (b *Bot) editEffect(c tele.Context, eff flow.Effect) error {
	if eff.Text == "" {
		return nil
	}
	if markup := pageNavMarkup(eff.Window); markup != nil {
		return c.Edit(eff.Text, markup)
	}
	return c.Edit(eff.Text)
}

func userCard(u *domain.User) string {
	verified := "No"
	if u.Verified {
		verified = "Sí"
	}
	return fmt.Sprintf(
		"🟢 Usuario encontrado\n"+
			"ID: %d\n"+
			"Username: @%s\n"+
			"Teléfono: %s\n"+
			"Nombre: %s\n"+
			"Apellido: %s\n"+
			"Plan: %s\n"+
			"Grupo: %s\n"+
			"Academia: %s\n"+
			"Verificado: %s\n"+
			"Registrado: %s",
		u.ID,
		nullOr(u.Username),
		nullOr(u.Phone),
		nullOr(u.FirstName),
		nullOr(u.LastName),
		nullOr(u.Plan),
		nullOr(u.Group),
		nullOr(u.Academy),
		verified,
		u.RegisteredAt.Format("2006-01-02 15:04"),
	)
}

func nullOr(v sql.NullString) string {
	if v.Valid && v.String != "" {
		return v.String
	}
	return "-"
}
