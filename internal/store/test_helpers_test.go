package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/stockroom/internal/kv"
	"github.com/roach88/stockroom/internal/model"
	"github.com/roach88/stockroom/internal/testutil"
)

// recorder collects notifications.
type recorder struct {
	mu       sync.Mutex
	messages []string
}

func (r *recorder) Notify(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages)
}

// memBacking is an in-process kv.Backing whose writes can be made to fail.
type memBacking struct {
	data map[string]string
	fail bool
}

var errWriteFailed = errors.New("write failed")

func newMemBacking() *memBacking {
	return &memBacking{data: map[string]string{}}
}

func (m *memBacking) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memBacking) SetMany(_ context.Context, entries map[string]string) error {
	if m.fail {
		return errWriteFailed
	}
	for k, v := range entries {
		m.data[k] = v
	}
	return nil
}

func (m *memBacking) Delete(_ context.Context, key string) error {
	if m.fail {
		return errWriteFailed
	}
	delete(m.data, key)
	return nil
}

// testEnv bundles a store with its deterministic collaborators.
type testEnv struct {
	store    *Store
	backing  kv.Backing
	clock    *testutil.DeterministicClock
	notified *recorder
}

// openSQLite opens a file-backed kv store in a temp dir.
func openSQLite(t *testing.T) *kv.Store {
	t.Helper()
	db, err := kv.Open(filepath.Join(t.TempDir(), "stockroom.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// newTestEnv creates a store in the given index mode over backing.
func newTestEnv(t *testing.T, mode IndexMode, backing kv.Backing) *testEnv {
	t.Helper()
	env := &testEnv{
		backing:  backing,
		clock:    testutil.NewDeterministicClock(testutil.Epoch, time.Millisecond),
		notified: &recorder{},
	}
	s, err := New(context.Background(), backing,
		WithIndexMode(mode),
		WithClock(env.clock),
		WithIDGenerator(testutil.NewSequenceGenerator("id")),
		WithNotifier(env.notified),
	)
	require.NoError(t, err)
	env.store = s
	return env
}

// reopen builds a second store over the same backing, as after a restart.
func (e *testEnv) reopen(t *testing.T) *Store {
	t.Helper()
	s, err := New(context.Background(), e.backing, WithIndexMode(e.store.Mode()))
	require.NoError(t, err)
	return s
}

func lampFields() model.ProductFields {
	return model.ProductFields{Name: "Lamp", Price: 500, Quantity: 10, Description: ""}
}

func orderFields(phone string) model.OrderFields {
	return model.OrderFields{
		ProductName:  "Lamp",
		Price:        500,
		Quantity:     1,
		CustomerName: "Ann",
		PhoneNumber:  phone,
		OrderDate:    "2024-01-01",
		Status:       model.StatusInTransit,
	}
}

var bothModes = []IndexMode{IndexDerived, IndexLegacy}
