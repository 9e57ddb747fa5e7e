package bot

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestParseCallbackData(t *testing.T) {
	cases := []struct {
		name         string
		cb           *tele.Callback
		key, payload string
	}{
		{"nil", nil, "", ""},
		{"unique set", &tele.Callback{Unique: "list_page", Data: "2"}, "list_page", "2"},
		{"raw data", &tele.Callback{Data: "\\fflow_opt|Plus"}, "flow_opt", "Plus"},
		{"no payload", &tele.Callback{Data: "\\fflow_cancel"}, "flow_cancel", ""},
		{"payload with separator", &tele.Callback{Data: "\\fflow_opt|Grupo Free"}, "flow_opt", "Grupo Free"},
		{"formfeed prefix", &tele.Callback{Data: "\fflow_opt|Premium"}, "flow_opt", "Premium"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key, payload := parseCallbackData(tc.cb)
			if key != tc.key || payload != tc.payload {
				t.Fatalf("got (%q, %q), want (%q, %q)", key, payload, tc.key, tc.payload)
			}
		})
	}
}
