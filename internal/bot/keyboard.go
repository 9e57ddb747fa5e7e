package bot

import (
	"strconv"

	tele "gopkg.in/telebot.v4"

	"github.com/controlusuario/userbot/internal/flow"
)

// Reply keyboard labels for the administrator menu.
const (
	menuVerify   = "✅ Verificar usuario"
	menuRegister = "📝 Registrar usuario"
	menuList     = "📋 Ver todos los usuarios"
	menuCancel   = "❌ Cancelar"
)

const btnShareContact = "📱 Compartir teléfono"

// contactRequestMarkup asks an ordinary user to share their phone contact.
func contactRequestMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true, OneTimeKeyboard: true}
	markup.Reply(markup.Row(markup.Contact(btnShareContact)))
	return markup
}

// adminMenuMarkup is the persistent reply keyboard shown to administrators.
func adminMenuMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true}
	markup.Reply(
		markup.Row(markup.Text(menuVerify), markup.Text(menuRegister)),
		markup.Row(markup.Text(menuList), markup.Text(menuCancel)),
	)
	return markup
}

// removeKeyboard hides any active reply keyboard.
func removeKeyboard() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{RemoveKeyboard: true}
}

// enumOptionsMarkup renders the legal values of an enumerated field as
// inline buttons, three per row, with a cancel row below.
func enumOptionsMarkup(options []string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	var rows []tele.Row
	for i := 0; i < len(options); i += 3 {
		end := i + 3
		if end > len(options) {
			end = len(options)
		}
		var btns []tele.Btn
		for _, opt := range options[i:end] {
			btns = append(btns, markup.Data(opt, cbEnumOption, opt))
		}
		rows = append(rows, markup.Row(btns...))
	}
	rows = append(rows, markup.Row(markup.Data("❌ Cancelar", cbCancelFlow)))
	markup.Inline(rows...)
	return markup
}

// pageNavMarkup renders prev/next controls for a listing window. A control
// is present only when the adjacent page exists.
func pageNavMarkup(window *flow.PageWindow) *tele.ReplyMarkup {
	if window == nil || (!window.HasPrev && !window.HasNext) {
		return nil
	}
	markup := &tele.ReplyMarkup{}
	var btns []tele.Btn
	if window.HasPrev {
		btns = append(btns, markup.Data("⬅️ Anterior", cbListPage, strconv.Itoa(window.Page-1)))
	}
	if window.HasNext {
		btns = append(btns, markup.Data("Siguiente ➡️", cbListPage, strconv.Itoa(window.Page+1)))
	}
	markup.Inline(markup.Row(btns...))
	return markup
}
