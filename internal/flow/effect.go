// Package flow implements the administrator-side registration state machine,
// the self-registration gate, and the paginated roster listing. The package
// is transport-agnostic: handlers feed it discrete input events and render
// the effects it returns.
package flow

import "errors"

// Action tells the transport layer what to do with an Effect.
type Action string

const (
	// ActionNone produces no prompt; Text may still carry a final notice.
	ActionNone Action = "none"
	// ActionAskAgain re-emits the current prompt without advancing state.
	ActionAskAgain Action = "ask-again"
	// ActionShowOptions re-emits an enumerated prompt with its legal values.
	ActionShowOptions Action = "show-enum-options"
	// ActionAdvance emits the next prompt or a completion confirmation.
	ActionAdvance Action = "advance"
	// ActionShowPage renders a listing page with navigation controls.
	ActionShowPage Action = "show-page"
)

// PageWindow describes one page of the roster listing.
type PageWindow struct {
	Page     int
	PageSize int
	Total    int64
	HasPrev  bool
	HasNext  bool
}

// Effect is the outbound result of one input event: opaque text plus enough
// structure for the transport to attach keyboards or navigation.
type Effect struct {
	Action  Action
	Text    string
	Options []string
	Window  *PageWindow
}

// ErrStoreUnavailable marks persistence failures that the admin may retry;
// the in-flight session is left untouched.
var ErrStoreUnavailable = errors.New("flow: store unavailable")
