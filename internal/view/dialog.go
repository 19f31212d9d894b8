package view

// DialogState is the phase of an entity dialog.
type DialogState int

const (
	Closed DialogState = iota
	Viewing
	Editing
)

// String returns the state name.
func (s DialogState) String() string {
	switch s {
	case Viewing:
		return "viewing"
	case Editing:
		return "editing"
	default:
		return "closed"
	}
}

// Dialog tracks one entity being viewed or edited.
//
// States: Closed → Viewing(entity) → Editing(draft) → Closed. Edits apply to
// a draft copy; the viewed entity is only replaced by Commit.
type Dialog[T any] struct {
	state  DialogState
	entity T
	draft  T
}

// State returns the current phase.
func (d *Dialog[T]) State() DialogState { return d.state }

// Open shows entity. Any unsaved draft is discarded.
func (d *Dialog[T]) Open(entity T) {
	var zero T
	d.state = Viewing
	d.entity = entity
	d.draft = zero
}

// Entity returns the entity being shown.
func (d *Dialog[T]) Entity() (T, bool) {
	if d.state == Closed {
		var zero T
		return zero, false
	}
	return d.entity, true
}

// Edit starts editing a copy of the viewed entity.
// It reports false if the dialog is not viewing anything.
func (d *Dialog[T]) Edit() bool {
	if d.state != Viewing {
		return false
	}
	d.state = Editing
	d.draft = d.entity
	return true
}

// Update applies fn to the draft.
func (d *Dialog[T]) Update(fn func(*T)) bool {
	if d.state != Editing {
		return false
	}
	fn(&d.draft)
	return true
}

// Draft returns the draft under edit.
func (d *Dialog[T]) Draft() (T, bool) {
	if d.state != Editing {
		var zero T
		return zero, false
	}
	return d.draft, true
}

// Cancel abandons the draft and returns to viewing.
func (d *Dialog[T]) Cancel() {
	if d.state == Editing {
		var zero T
		d.state = Viewing
		d.draft = zero
	}
}

// Commit returns the draft and closes the dialog.
func (d *Dialog[T]) Commit() (T, bool) {
	draft, ok := d.Draft()
	if !ok {
		return draft, false
	}
	d.Close()
	return draft, true
}

// Close hides the dialog.
func (d *Dialog[T]) Close() {
	var zero T
	d.state = Closed
	d.entity = zero
	d.draft = zero
}
