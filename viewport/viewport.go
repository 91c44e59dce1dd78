// Package viewport derives the responsive mobile flag from the window width.
// Each mounted consumer attaches its own listener and detaches it on
// unmount; resize events recompute the flag with no debounce.
package viewport

import (
	appstate "github.com/goliatone/go-appstate"
)

// DefaultBreakpoint is the width, in pixels, below which the console renders
// its mobile layout.
const DefaultBreakpoint = 640

// State is the viewport's root value.
type State struct {
	IsMobile bool `json:"isMobile"`
}

// WidthFunc reports the current window width.
type WidthFunc func() int

// Manager owns the viewport store.
type Manager struct {
	store      *appstate.Store[State]
	breakpoint int
}

// Option configures a Manager.
type Option func(*Manager)

// WithBreakpoint overrides the mobile breakpoint.
func WithBreakpoint(breakpoint int) Option {
	return func(m *Manager) {
		if breakpoint > 0 {
			m.breakpoint = breakpoint
		}
	}
}

// New constructs a viewport manager. The flag starts false until the first
// Attach or Resize reports a width.
func New(opts ...Option) *Manager {
	m := &Manager{
		store:      appstate.New(State{}, appstate.WithName[State]("viewport")),
		breakpoint: DefaultBreakpoint,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Listener receives resize events from the host environment.
type Listener struct {
	manager *Manager
	width   WidthFunc
	active  bool
}

// Attach registers a listener for one mounted consumer. The flag is computed
// from width immediately — twice, matching the mount sequence where the
// width may change between module load and listener attach — and then on
// every Resize call until Detach.
func (m *Manager) Attach(width WidthFunc) *Listener {
	l := &Listener{manager: m, width: width, active: true}
	l.Resize()
	l.Resize()
	return l
}

// Resize recomputes the flag from the current width. Detached listeners are
// inert.
func (l *Listener) Resize() {
	if l == nil || !l.active || l.width == nil {
		return
	}
	l.manager.setWidth(l.width())
}

// Detach removes this listener. Exactly this consumer's listener goes away;
// other mounted consumers keep theirs.
func (l *Listener) Detach() {
	if l != nil {
		l.active = false
	}
}

// IsMobile returns the current flag.
func (m *Manager) IsMobile() bool {
	return m.store.Get().IsMobile
}

// Subscribe registers fn for flag changes. Every resize notifies, even when
// the flag value is unchanged, mirroring the undebounced resize handler.
func (m *Manager) Subscribe(fn func(State)) (cancel func()) {
	return m.store.Subscribe(fn)
}

func (m *Manager) setWidth(width int) {
	m.store.Set(State{IsMobile: width < m.breakpoint})
}
