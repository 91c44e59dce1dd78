package cart_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-appstate/cart"
	"github.com/goliatone/go-appstate/rules"
	"github.com/goliatone/go-appstate/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lemonade(quantity int) cart.Line {
	return cart.Line{
		CatalogID: "A",
		Name:      "Lemonade",
		Variant:   "L",
		Options:   []string{"ice"},
		Quantity:  quantity,
		Price:     10,
	}
}

// checkTotals asserts the derived-fields invariant: totals always equal the
// full reduction over the current lines.
func checkTotals(t *testing.T, m *cart.Manager) {
	t.Helper()
	var quantity int
	var price float64
	for _, line := range m.Items() {
		quantity += line.Quantity
		price += float64(line.Quantity) * line.Price
	}
	assert.Equal(t, quantity, m.TotalQuantity())
	assert.Equal(t, price, m.TotalPrice())
}

func TestAddMergesSameLine(t *testing.T) {
	m := cart.New()

	m.Add(lemonade(2))
	m.Add(lemonade(3))

	items := m.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, 5, m.TotalQuantity())
	assert.Equal(t, 50.0, m.TotalPrice())
	checkTotals(t, m)
}

func TestAddDistinguishesLinesByIdentity(t *testing.T) {
	tests := []struct {
		name  string
		other cart.Line
	}{
		{
			name:  "different_variant",
			other: cart.Line{CatalogID: "A", Variant: "S", Options: []string{"ice"}, Quantity: 1, Price: 10},
		},
		{
			name:  "different_note",
			other: cart.Line{CatalogID: "A", Variant: "L", Options: []string{"ice"}, Note: "no straw", Quantity: 1, Price: 10},
		},
		{
			name:  "different_catalog_id",
			other: cart.Line{CatalogID: "B", Variant: "L", Options: []string{"ice"}, Quantity: 1, Price: 10},
		},
		{
			// Option order is part of the identity.
			name:  "reordered_options",
			other: cart.Line{CatalogID: "A", Variant: "L", Options: []string{"lemon", "ice"}, Quantity: 1, Price: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := cart.New()
			m.Add(cart.Line{CatalogID: "A", Variant: "L", Options: []string{"ice", "lemon"}, Quantity: 1, Price: 10})
			m.Add(tt.other)

			assert.Len(t, m.Items(), 2)
			checkTotals(t, m)
		})
	}
}

func TestAddAssignsUniqueInstanceIDs(t *testing.T) {
	m := cart.New()
	m.Add(lemonade(1))
	m.Add(cart.Line{CatalogID: "B", Quantity: 1, Price: 5})

	items := m.Items()
	require.Len(t, items, 2)
	assert.NotEmpty(t, items[0].ID)
	assert.NotEmpty(t, items[1].ID)
	assert.NotEqual(t, items[0].ID, items[1].ID)
}

func TestAddIgnoresNonPositiveQuantity(t *testing.T) {
	m := cart.New()
	m.Add(lemonade(0))
	m.Add(lemonade(-2))

	assert.Empty(t, m.Items())
	assert.Equal(t, 0, m.TotalQuantity())
}

func TestUpdateQuantity(t *testing.T) {
	tests := []struct {
		name         string
		id           func(m *cart.Manager) string
		quantity     int
		wantQuantity int
	}{
		{name: "sets_exactly", id: firstID, quantity: 7, wantQuantity: 7},
		{name: "zero_is_noop", id: firstID, quantity: 0, wantQuantity: 2},
		{name: "negative_is_noop", id: firstID, quantity: -1, wantQuantity: 2},
		{name: "unknown_id_is_noop", id: func(*cart.Manager) string { return "missing" }, quantity: 3, wantQuantity: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := cart.New()
			m.Add(lemonade(2))

			m.UpdateQuantity(tt.id(m), tt.quantity)

			items := m.Items()
			require.Len(t, items, 1)
			assert.Equal(t, tt.wantQuantity, items[0].Quantity)
			checkTotals(t, m)
		})
	}
}

func firstID(m *cart.Manager) string {
	return m.Items()[0].ID
}

func TestRemove(t *testing.T) {
	m := cart.New()
	m.Add(lemonade(2))
	m.Add(cart.Line{CatalogID: "B", Name: "Tea", Quantity: 1, Price: 4})

	m.Remove("missing")
	assert.Len(t, m.Items(), 2)

	m.Remove(firstID(m))
	items := m.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "B", items[0].CatalogID)
	checkTotals(t, m)
}

func TestClear(t *testing.T) {
	m := cart.New()
	m.Add(lemonade(2))
	m.Clear()

	assert.Empty(t, m.Items())
	assert.Equal(t, 0, m.TotalQuantity())
	assert.Equal(t, 0.0, m.TotalPrice())
}

func TestCartPersistsAcrossManagers(t *testing.T) {
	adapter := storage.NewMemory()

	m := cart.New(cart.WithAdapter(adapter))
	m.Add(lemonade(2))

	reloaded := cart.New(cart.WithAdapter(adapter))
	assert.Equal(t, m.State(), reloaded.State())
}

func TestCartHydrationFallsBackOnCorruptPayload(t *testing.T) {
	adapter := storage.NewMemory()
	adapter.Save(storage.KeyCart, "not a cart")

	m := cart.New(cart.WithAdapter(adapter))
	assert.Empty(t, m.Items())
	assert.Equal(t, 0, m.TotalQuantity())
}

func TestSubscribeSeesTotalsConsistent(t *testing.T) {
	m := cart.New()

	var notified int
	m.Subscribe(func(state cart.State) {
		notified++
		var quantity int
		for _, line := range state.Items {
			quantity += line.Quantity
		}
		assert.Equal(t, quantity, state.TotalQuantity)
	})

	m.Add(lemonade(2))
	m.Add(lemonade(3))
	m.Clear()

	assert.Equal(t, 3, notified)
}

func TestPolicyDeniesAdd(t *testing.T) {
	m := cart.New(cart.WithPolicy(rules.NewExprEvaluator(), "total_quantity + args.candidate.quantity <= 3"))

	m.Add(lemonade(2))
	m.Add(lemonade(2)) // would push total to 4

	items := m.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestPolicyErrorDoesNotBlockAdd(t *testing.T) {
	var logged []rules.LogEvent
	m := cart.New(
		cart.WithPolicy(rules.NewExprEvaluator(), "total_quantity"), // non-boolean result
		cart.WithPolicyLogger(rules.RuleLoggerFunc(func(e rules.LogEvent) {
			logged = append(logged, e)
		})),
	)

	m.Add(lemonade(1))

	assert.Len(t, m.Items(), 1)
	require.Len(t, logged, 1)
	var evalErr *rules.EvaluationError
	assert.True(t, errors.As(logged[0].Err, &evalErr))
}

func TestPolicyLoggerAttachesRegardlessOfOptionOrder(t *testing.T) {
	var logged []rules.LogEvent
	m := cart.New(
		cart.WithPolicyLogger(rules.RuleLoggerFunc(func(e rules.LogEvent) {
			logged = append(logged, e)
		})),
		cart.WithPolicy(rules.NewExprEvaluator(), "total_quantity < 10"),
	)

	m.Add(lemonade(1))

	require.Len(t, logged, 1)
	assert.NoError(t, logged[0].Err)
}

func TestSnapshotsAreDetached(t *testing.T) {
	m := cart.New()
	m.Add(lemonade(2))

	items := m.Items()
	items[0].Quantity = 99

	assert.Equal(t, 2, m.Items()[0].Quantity)
}
