package bot

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// Callback uniques used by inline keyboards.
const (
	cbEnumOption = "flow_opt"
	cbListPage   = "list_page"
	cbCancelFlow = "flow_cancel"
)

// parseCallbackData parses Telebot's \f<unique>|<payload> encoding and
// returns the unique key and payload (payload may be empty).
func parseCallbackData(cb *tele.Callback) (string, string) {
	if cb == nil {
		return "", ""
	}
	if cb.Unique != "" {
		return cb.Unique, cb.Data
	}
	raw := strings.TrimPrefix(cb.Data, "\f")
	raw = strings.TrimPrefix(raw, "\\f")
	parts := strings.SplitN(raw, "|", 2)
	key := strings.TrimSpace(parts[0])
	payload := ""
	if len(parts) == 2 {
		payload = parts[1]
	}
	return key, payload
}
