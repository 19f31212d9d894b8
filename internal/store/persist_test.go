package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/stockroom/internal/model"
)

func TestRoundTrip_RestartRestoresState(t *testing.T) {
	for _, mode := range bothModes {
		t.Run(string(mode), func(t *testing.T) {
			env := newTestEnv(t, mode, openSQLite(t))
			ctx := context.Background()

			p, err := env.store.AddProduct(ctx, lampFields())
			require.NoError(t, err)
			require.NoError(t, env.store.UpdateProductQuantity(ctx, p.ID, 7))
			a, err := env.store.AddOrder(ctx, orderFields("+1"))
			require.NoError(t, err)
			_, err = env.store.AddOrder(ctx, orderFields("+2"))
			require.NoError(t, err)
			require.NoError(t, env.store.UpdateOrderStatus(ctx, a.ID, model.StatusInWarehouse))
			require.NoError(t, env.store.DeleteCustomer(ctx, "+2"))
			_, err = env.store.ToggleDarkMode(ctx)
			require.NoError(t, err)

			restarted := env.reopen(t)
			assert.Equal(t, env.store.Products(), restarted.Products())
			assert.Equal(t, env.store.Orders(), restarted.Orders())
			assert.Equal(t, env.store.Customers(), restarted.Customers())
			assert.Equal(t, env.store.Preferences(), restarted.Preferences())
		})
	}
}

func TestLoad_EmptyBackingUsesDefaults(t *testing.T) {
	for _, mode := range bothModes {
		t.Run(string(mode), func(t *testing.T) {
			env := newTestEnv(t, mode, newMemBacking())

			assert.NotNil(t, env.store.Products())
			assert.Empty(t, env.store.Products())
			assert.NotNil(t, env.store.Orders())
			assert.NotNil(t, env.store.Customers())
			assert.Equal(t, model.DefaultPreferences(), env.store.Preferences())
		})
	}
}

func TestLoad_CorruptRecordsFallBack(t *testing.T) {
	backing := newMemBacking()
	backing.data[KeyProducts] = `{not json`
	backing.data[KeyOrders] = `[{"id":"o1","phoneNumber":"+1","status":"delivered"}]`
	backing.data[KeyDarkMode] = `"yes"`
	backing.data[KeyViewMode] = `{"products":"mosaic","orders":"list"}`
	backing.data[KeyShowConverter] = `false`

	env := newTestEnv(t, IndexDerived, backing)

	assert.Empty(t, env.store.Products())
	require.Len(t, env.store.Orders(), 1)
	assert.Equal(t, model.StatusDelivered, env.store.Orders()[0].Status)

	prefs := env.store.Preferences()
	assert.False(t, prefs.DarkMode)
	assert.Equal(t, model.DisplayList, prefs.ViewMode.Products, "unknown mode falls back")
	assert.Equal(t, model.DisplayList, prefs.ViewMode.Orders)
	assert.False(t, prefs.ShowConverter)
}

func TestLoad_SkipsUndecodableOrdersOnly(t *testing.T) {
	for _, mode := range bothModes {
		t.Run(string(mode), func(t *testing.T) {
			backing := newMemBacking()
			backing.data[KeyOrders] = `[{"id":"o1","phoneNumber":"+1","status":"delivered"},` +
				`{"id":"o2","phoneNumber":"+1","status":"lost"}]`

			env := newTestEnv(t, mode, backing)
			require.Len(t, env.store.Orders(), 1)
			assert.Equal(t, "o1", env.store.Orders()[0].ID)

			_, err := env.store.AddOrder(context.Background(), orderFields("+2"))
			require.NoError(t, err)

			restarted := env.reopen(t)
			require.Len(t, restarted.Orders(), 2)
			assert.Equal(t, "o1", restarted.Orders()[0].ID, "valid orders survive the next write")
		})
	}
}

func TestLoad_SkipsUndecodableProducts(t *testing.T) {
	backing := newMemBacking()
	backing.data[KeyProducts] = `[{"id":"p1","name":"Lamp","price":5},{"id":"p2","price":"cheap"},7]`

	env := newTestEnv(t, IndexDerived, backing)
	require.Len(t, env.store.Products(), 1)
	assert.Equal(t, "p1", env.store.Products()[0].ID)
}

func TestLoad_NullCustomersRecordIsAbsent(t *testing.T) {
	backing := newMemBacking()
	backing.data[KeyOrders] = `[{"id":"o1","phoneNumber":"+1","status":"delivered"}]`
	backing.data[KeyCustomers] = `null`
	backing.data[KeyProducts] = `null`

	env := newTestEnv(t, IndexDerived, backing)
	assert.NotNil(t, env.store.Products())
	customers := env.store.Customers()
	require.Len(t, customers, 1)
	assert.Equal(t, "+1", customers[0].PhoneNumber)
}

func TestLoad_LegacyDropsStaleHiddenKey(t *testing.T) {
	backing := newMemBacking()
	ctx := context.Background()

	derived := newTestEnv(t, IndexDerived, backing)
	a, err := derived.store.AddOrder(ctx, orderFields("+1"))
	require.NoError(t, err)
	_, err = derived.store.AddOrder(ctx, orderFields("+2"))
	require.NoError(t, err)
	require.NoError(t, derived.store.DeleteCustomer(ctx, "+2"))
	require.Contains(t, backing.data, KeyCustomerHidden)

	legacy, err := New(ctx, backing, WithIndexMode(IndexLegacy))
	require.NoError(t, err)
	assert.NotContains(t, backing.data, KeyCustomerHidden)
	require.NoError(t, legacy.DeleteCustomerOrder(ctx, "+1", a.ID))

	// Back on the derived index, removals made by the legacy index hold.
	again, err := New(ctx, backing, WithIndexMode(IndexDerived))
	require.NoError(t, err)
	assert.Empty(t, again.Customers())
	assert.Len(t, again.Orders(), 2)
}

func TestLoad_LegacyStatusLabels(t *testing.T) {
	backing := newMemBacking()
	backing.data[KeyOrders] = `[{"id":"o1","phoneNumber":"+1","status":"на складе"}]`

	env := newTestEnv(t, IndexDerived, backing)
	require.Len(t, env.store.Orders(), 1)
	assert.Equal(t, model.StatusInWarehouse, env.store.Orders()[0].Status)
}

func TestLoad_DerivedRebuildsFromLegacyCustomers(t *testing.T) {
	backing := newMemBacking()
	legacy := newTestEnv(t, IndexLegacy, backing)
	ctx := context.Background()

	a, err := legacy.store.AddOrder(ctx, orderFields("+1"))
	require.NoError(t, err)
	b, err := legacy.store.AddOrder(ctx, orderFields("+1"))
	require.NoError(t, err)
	_, err = legacy.store.AddOrder(ctx, orderFields("+2"))
	require.NoError(t, err)
	require.NoError(t, legacy.store.DeleteCustomerOrder(ctx, "+1", a.ID))
	require.NoError(t, legacy.store.DeleteCustomer(ctx, "+2"))

	derived, err := New(ctx, backing, WithIndexMode(IndexDerived))
	require.NoError(t, err)

	customers := derived.Customers()
	require.Len(t, customers, 1)
	assert.Equal(t, "+1", customers[0].PhoneNumber)
	assert.Equal(t, []model.Order{b}, customers[0].Orders)
	assert.Len(t, derived.Orders(), 3)
}

func TestOperations_WriteOnlyAffectedKeys(t *testing.T) {
	backing := newMemBacking()
	env := newTestEnv(t, IndexDerived, backing)

	_, err := env.store.AddProduct(context.Background(), lampFields())
	require.NoError(t, err)

	assert.Contains(t, backing.data, KeyProducts)
	assert.NotContains(t, backing.data, KeyOrders)
	assert.NotContains(t, backing.data, KeyCustomers)

	_, err = env.store.AddOrder(context.Background(), orderFields("+1"))
	require.NoError(t, err)
	assert.Contains(t, backing.data, KeyOrders)
	assert.Contains(t, backing.data, KeyCustomers)
	assert.Contains(t, backing.data, KeyCustomerHidden)
}

func TestLegacyMode_DoesNotWriteHiddenKey(t *testing.T) {
	backing := newMemBacking()
	env := newTestEnv(t, IndexLegacy, backing)

	_, err := env.store.AddOrder(context.Background(), orderFields("+1"))
	require.NoError(t, err)
	assert.NotContains(t, backing.data, KeyCustomerHidden)
}

func TestExportImport(t *testing.T) {
	for _, mode := range bothModes {
		t.Run(string(mode), func(t *testing.T) {
			src := newTestEnv(t, mode, newMemBacking())
			ctx := context.Background()

			_, err := src.store.AddProduct(ctx, lampFields())
			require.NoError(t, err)
			_, err = src.store.AddOrder(ctx, orderFields("+1"))
			require.NoError(t, err)
			o, err := src.store.AddOrder(ctx, orderFields("+1"))
			require.NoError(t, err)
			require.NoError(t, src.store.DeleteCustomerOrder(ctx, "+1", o.ID))
			require.NoError(t, src.store.SetViewMode(ctx, model.SectionOrders, model.DisplayList))

			doc := src.store.Export()

			dst := newTestEnv(t, mode, openSQLite(t))
			require.NoError(t, dst.store.Import(ctx, doc))

			assert.Equal(t, src.store.Products(), dst.store.Products())
			assert.Equal(t, src.store.Orders(), dst.store.Orders())
			assert.Equal(t, src.store.Customers(), dst.store.Customers())
			assert.Equal(t, src.store.Preferences(), dst.store.Preferences())
			assert.Equal(t, 1, dst.notified.count())

			restarted := dst.reopen(t)
			assert.Equal(t, src.store.Customers(), restarted.Customers())
		})
	}
}

func TestImport_KeepsPreferencesWhenAbsent(t *testing.T) {
	env := newTestEnv(t, IndexDerived, newMemBacking())
	ctx := context.Background()

	_, err := env.store.ToggleConverter(ctx)
	require.NoError(t, err)

	require.NoError(t, env.store.Import(ctx, Document{}))
	assert.False(t, env.store.Preferences().ShowConverter)
	assert.Empty(t, env.store.Products())
	assert.NotNil(t, env.store.Customers())
}

func TestImport_PersistFailureKeepsState(t *testing.T) {
	backing := newMemBacking()
	env := newTestEnv(t, IndexDerived, backing)
	ctx := context.Background()

	_, err := env.store.AddProduct(ctx, lampFields())
	require.NoError(t, err)

	backing.fail = true
	err = env.store.Import(ctx, Document{})
	require.ErrorIs(t, err, errWriteFailed)
	assert.Len(t, env.store.Products(), 1)
}
