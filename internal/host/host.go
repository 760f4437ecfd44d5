// Package host describes the page (or window) the front-end runs in: the
// scheduling primitives, event sources and output elements the core needs,
// without tying it to the DOM or to a particular game library.
package host

import "context"

// Handle identifies one pending scheduling request. The zero Handle is never
// issued.
type Handle uint64

// Scheduler arms one-shot callbacks on the host thread.
type Scheduler interface {
	// RequestAnimationFrame runs fn before the next display refresh.
	RequestAnimationFrame(fn func()) Handle
	// SetTimeout runs fn as soon as possible after the current task.
	SetTimeout(fn func()) Handle
	CancelAnimationFrame(h Handle)
	ClearTimeout(h Handle)
}

// Dispatcher moves work from any goroutine onto the host thread.
type Dispatcher interface {
	Post(fn func())
}

// Subscription is one attached listener. Detach is idempotent.
type Subscription interface {
	Detach()
}

// SubscriptionFunc adapts a function to Subscription.
type SubscriptionFunc func()

func (f SubscriptionFunc) Detach() { f() }

// Keyboard delivers document-level key events by key name ("Enter", "w", ...).
type Keyboard interface {
	Listen(down, up func(key string)) Subscription
}

// Event is a pointer event that may be claimed.
type Event interface {
	PreventDefault()
}

// Control is an on-screen button.
type Control interface {
	// Listen attaches engage and disengage handlers; disengage also fires
	// when the pointer leaves the control.
	Listen(engage, disengage func(Event)) Subscription
}

// Controls looks up on-screen buttons by element id.
type Controls interface {
	Control(id string) (Control, bool)
}

// Text is an element whose text content can be replaced.
type Text interface {
	SetText(s string)
}

// TextFunc adapts a function to Text.
type TextFunc func(s string)

func (f TextFunc) SetText(s string) { f(s) }

// Alerter shows a blocking user notification.
type Alerter interface {
	Alert(msg string)
}

// AlertFunc adapts a function to Alerter.
type AlertFunc func(msg string)

func (f AlertFunc) Alert(msg string) { f(msg) }

// File is a user-selected file.
type File interface {
	Name() string
	ReadAll(ctx context.Context) ([]byte, error)
}
