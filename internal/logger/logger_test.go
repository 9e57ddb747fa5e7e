package logger

import (
	"testing"
)

func TestBuildRID(t *testing.T) {
	rid := BuildRID(42, 7, 9)
	if rid != "42:7:9" {
		t.Fatalf("unexpected rid: %s", rid)
	}
}

func TestContextCarriers(t *testing.T) {
	ctx := WithRID(nil, "rid-123")
	ctx = WithUpdateMeta(ctx, 11, 22, 33)

	if got := RIDFrom(ctx); got != "rid-123" {
		t.Fatalf("rid = %s", got)
	}
	if got := UserIDFrom(ctx); got != 22 {
		t.Fatalf("user_id = %d", got)
	}
	if got := ChatIDFrom(ctx); got != 33 {
		t.Fatalf("chat_id = %d", got)
	}
	if got := RIDFrom(nil); got != "" {
		t.Fatalf("expected empty rid from nil context, got %s", got)
	}
}

func TestSanitizeLimit(t *testing.T) {
	in := "hola\x00mundo\x7f!"
	if got := Sanitize(in); got != "holamundo!" {
		t.Fatalf("sanitize = %q", got)
	}
	if got := SanitizeLimit("abcdef", 3); got != "abc" {
		t.Fatalf("limit = %q", got)
	}
	if got := SanitizeLimit("abc", 0); got != "" {
		t.Fatalf("zero limit = %q", got)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]string{
		"debug":   "DEBUG",
		"warn":    "WARN",
		"warning": "WARN",
		"error":   "ERROR",
		"":        "INFO",
		"bogus":   "INFO",
	}
	for in, want := range cases {
		if got := parseLevel(in).String(); got != want {
			t.Fatalf("parseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
