package ui

// Inspector shows a single item up close. It replaces a global
// "is inspecting" flag: whoever needs to know asks the instance held by the
// [Context].
type Inspector struct {
	item     string
	open     bool
	openedBy uint64
}

// Inspect opens the inspector on item. ev is the event that caused the
// opening (use the zero Event for programmatic opens); that same event is
// ignored by HandleClose so one click cannot both open and close the view.
// Empty item names are ignored and Inspect returns false.
func (in *Inspector) Inspect(item string, ev Event) bool {
	if item == "" {
		return false
	}
	in.item = item
	in.open = true
	in.openedBy = ev.Seq
	return true
}

// Inspecting reports whether the inspector is open.
func (in *Inspector) Inspecting() bool { return in.open }

// Item returns the inspected item name, empty when closed.
func (in *Inspector) Item() string { return in.item }

// HandleClose closes the inspector in response to ev and reports whether it
// did. It does nothing when closed or when ev is the event that opened it.
func (in *Inspector) HandleClose(ev Event) bool {
	if !in.open || (ev.Seq != 0 && ev.Seq == in.openedBy) {
		return false
	}
	in.Close()
	return true
}

// Close hides the inspector and clears the item.
func (in *Inspector) Close() {
	in.open = false
	in.item = ""
	in.openedBy = 0
}
