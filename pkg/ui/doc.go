// Package ui holds the engine-independent state behind the game's menus and
// overlays.
//
// Instead of global flags and per-frame key polling, state lives in an
// explicit [Context] that is created once, passed to whoever needs it and
// closed on teardown. Input reaches it as events through a [Dispatcher]:
//
//	ctx := ui.NewContext(logger, ui.DefaultConfig())
//	defer ctx.Close()
//
//	ctx.Input.Dispatch(ui.KeyEscape) // toggles pause, or closes the inspector
//
// The pieces can also be used on their own: [Panels] keeps back-button
// history, [Pause] tracks the paused flag and time scale, [Inspector] shows a
// single item, [Reveal] types text out rune by rune until cancelled and
// [Scroller] pans a clamped background.
//
// None of the types are safe for concurrent use; they are driven from one UI
// loop. [Reveal] is the exception: it runs its own goroutine and calls the
// emit function from it.
package ui
