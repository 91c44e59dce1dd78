// Package guest owns the seated guest's context: the identity singleton
// (name, area, table) and the live guest orders, keyed by order type and
// guest name. Both persist to the session scope.
package guest

import (
	"context"

	appstate "github.com/goliatone/go-appstate"
	"github.com/goliatone/go-appstate/cart"
	"github.com/goliatone/go-appstate/layering"
	"github.com/goliatone/go-appstate/pkg/activity"
	"github.com/goliatone/go-appstate/storage"
)

// Identity is the currently seated guest's context. All fields default to
// the empty string.
type Identity struct {
	Name  string `json:"name"`
	Area  string `json:"area"`
	Table string `json:"table"`
}

// Order is one live guest order. The collection holds at most one order per
// (Type, GuestName) pair.
type Order struct {
	Type        string      `json:"type"`
	Reason      string      `json:"reason"`
	ServiceUnit string      `json:"service_unit"`
	Area        string      `json:"area"`
	GuestName   string      `json:"guest_name"`
	Items       []cart.Line `json:"items"`
}

// Manager owns the identity and orders stores.
type Manager struct {
	identity *appstate.Store[Identity]
	orders   *appstate.Store[[]Order]
	emitter  *activity.Emitter
}

// Option configures a Manager.
type Option func(*config)

type config struct {
	adapter     storage.Adapter
	identityKey string
	ordersKey   string
	emitter     *activity.Emitter
}

// WithAdapter overrides the session-scope adapter.
func WithAdapter(adapter storage.Adapter) Option {
	return func(cfg *config) {
		if adapter != nil {
			cfg.adapter = adapter
		}
	}
}

// WithEmitter attaches an activity emitter.
func WithEmitter(emitter *activity.Emitter) Option {
	return func(cfg *config) {
		cfg.emitter = emitter
	}
}

// New constructs a guest manager hydrated from its adapter.
func New(opts ...Option) *Manager {
	cfg := config{
		identityKey: storage.KeyGuest,
		ordersKey:   storage.KeyGuestOrders,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.adapter == nil {
		cfg.adapter = storage.NewMemory()
	}

	return &Manager{
		identity: appstate.New(Identity{},
			appstate.WithName[Identity]("guest"),
			appstate.WithStorage[Identity](cfg.adapter, cfg.identityKey),
		),
		orders: appstate.New([]Order{},
			appstate.WithName[[]Order]("guest_orders"),
			appstate.WithStorage[[]Order](cfg.adapter, cfg.ordersKey),
		),
		emitter: cfg.emitter,
	}
}

// SetIdentity replaces the whole identity: every field takes the given value,
// and a field omitted from identity resets to the empty default. This is a
// full overwrite, not a merge.
func (m *Manager) SetIdentity(identity Identity) {
	m.identity.Set(identity)
	m.emitIdentity()
}

// SetName updates only the guest name, keeping area and table.
func (m *Manager) SetName(name string) {
	m.identity.Update(func(identity Identity) Identity {
		identity.Name = name
		return identity
	})
	m.emitIdentity()
}

// SetAreaAndTable updates the seating context, keeping the name.
func (m *Manager) SetAreaAndTable(area, table string) {
	m.identity.Update(func(identity Identity) Identity {
		identity.Area = area
		identity.Table = table
		return identity
	})
	m.emitIdentity()
}

// Identity returns a snapshot of the guest identity.
func (m *Manager) Identity() Identity {
	return m.identity.Get()
}

// SubscribeIdentity registers fn for identity changes.
func (m *Manager) SubscribeIdentity(fn func(Identity)) (cancel func()) {
	return m.identity.Subscribe(fn)
}

// SetOrderState upserts an order keyed by (Type, GuestName). When a matching
// order exists the provided fields overlay it shallowly — later fields win
// wholesale and Items is replaced, never merged element-wise. A new order
// with no items gets an empty item sequence. The whole collection persists
// afterward. There is deliberately no remove operation: live orders only
// ever advance server-side.
func (m *Manager) SetOrderState(order Order) {
	m.orders.Update(func(orders []Order) []Order {
		next := make([]Order, len(orders))
		copy(next, orders)
		for i := range next {
			if next[i].Type == order.Type && next[i].GuestName == order.GuestName {
				next[i] = layering.MergePartial(next[i], order)
				return next
			}
		}
		if order.Items == nil {
			order.Items = []cart.Line{}
		}
		return append(next, order)
	})
	m.emitOrder(order)
}

// Orders returns a snapshot of the live orders in insertion order.
func (m *Manager) Orders() []Order {
	orders := m.orders.Get()
	snapshot := make([]Order, len(orders))
	copy(snapshot, orders)
	return snapshot
}

// SubscribeOrders registers fn for order collection changes.
func (m *Manager) SubscribeOrders(fn func([]Order)) (cancel func()) {
	return m.orders.Subscribe(fn)
}

func (m *Manager) emitIdentity() {
	if !m.emitter.Enabled() {
		return
	}
	identity := m.identity.Get()
	_ = m.emitter.Emit(context.Background(), activity.BuildGuestUpdatedEvent(activity.StateEventInput{
		ObjectID: "guest",
		Metadata: map[string]any{
			"area":  identity.Area,
			"table": identity.Table,
		},
	}))
}

func (m *Manager) emitOrder(order Order) {
	if !m.emitter.Enabled() {
		return
	}
	_ = m.emitter.Emit(context.Background(), activity.BuildGuestOrderUpsertedEvent(activity.StateEventInput{
		ObjectID: order.Type + "/" + order.GuestName,
		Metadata: map[string]any{
			"type":       order.Type,
			"guest_name": order.GuestName,
		},
	}))
}
