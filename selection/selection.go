// Package selection tracks the working set of orders picked for a batch
// action such as a merge. The set is ephemeral: it lives in memory only and
// resets with the page session.
package selection

import (
	"context"

	appstate "github.com/goliatone/go-appstate"
	"github.com/goliatone/go-appstate/pkg/activity"
)

// Ref identifies one order in the selection.
type Ref struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	GuestName string `json:"guest_name"`
}

// Manager owns the selection store.
type Manager struct {
	store   *appstate.Store[[]Ref]
	emitter *activity.Emitter
}

// Option configures a Manager.
type Option func(*Manager)

// WithEmitter attaches an activity emitter.
func WithEmitter(emitter *activity.Emitter) Option {
	return func(m *Manager) {
		m.emitter = emitter
	}
}

// New constructs an empty selection.
func New(opts ...Option) *Manager {
	m := &Manager{
		store: appstate.New([]Ref{}, appstate.WithName[[]Ref]("selection")),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Toggle flips membership for ref: selecting it when absent, deselecting it
// when already present. Callers cannot add without the risk of removing; the
// semantics are a strict toggle, not a set union.
func (m *Manager) Toggle(ref Ref) {
	selected := false
	m.store.Update(func(refs []Ref) []Ref {
		next := make([]Ref, 0, len(refs)+1)
		for _, existing := range refs {
			if existing.ID == ref.ID {
				continue
			}
			next = append(next, existing)
		}
		if len(next) == len(refs) {
			next = append(next, ref)
			selected = true
		}
		return next
	})
	m.emit(ref, selected)
}

// Selected returns a snapshot of the selection in selection order.
func (m *Manager) Selected() []Ref {
	refs := m.store.Get()
	snapshot := make([]Ref, len(refs))
	copy(snapshot, refs)
	return snapshot
}

// IsSelected reports whether the order with id is in the working set.
func (m *Manager) IsSelected(id string) bool {
	for _, ref := range m.store.Get() {
		if ref.ID == id {
			return true
		}
	}
	return false
}

// Clear empties the working set.
func (m *Manager) Clear() {
	m.store.Set([]Ref{})
}

// Subscribe registers fn for selection changes.
func (m *Manager) Subscribe(fn func([]Ref)) (cancel func()) {
	return m.store.Subscribe(fn)
}

func (m *Manager) emit(ref Ref, selected bool) {
	if !m.emitter.Enabled() {
		return
	}
	_ = m.emitter.Emit(context.Background(), activity.BuildSelectionToggledEvent(activity.StateEventInput{
		ObjectID: ref.ID,
		Metadata: map[string]any{
			"selected": selected,
		},
	}))
}
