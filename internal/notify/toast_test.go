package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToast_ShowsMessage(t *testing.T) {
	toast := NewToast(WithDelay(time.Hour))
	defer toast.Stop()

	_, ok := toast.Current()
	assert.False(t, ok)

	toast.Notify(SuccessMessage)
	msg, ok := toast.Current()
	assert.True(t, ok)
	assert.Equal(t, SuccessMessage, msg)
}

func TestToast_ClearsAfterDelay(t *testing.T) {
	toast := NewToast(WithDelay(20 * time.Millisecond))

	toast.Notify("saved")
	require.Eventually(t, func() bool {
		_, ok := toast.Current()
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestToast_NewMessageRestartsTimer(t *testing.T) {
	toast := NewToast(WithDelay(150 * time.Millisecond))
	defer toast.Stop()

	toast.Notify("first")
	time.Sleep(100 * time.Millisecond)
	toast.Notify("second")
	time.Sleep(100 * time.Millisecond)

	// 200ms after the first message, but only 100ms after the second
	msg, ok := toast.Current()
	assert.True(t, ok, "second message should still be visible")
	assert.Equal(t, "second", msg)

	require.Eventually(t, func() bool {
		_, ok := toast.Current()
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestToast_OnChange(t *testing.T) {
	var mu sync.Mutex
	var events []string

	toast := NewToast(
		WithDelay(10*time.Millisecond),
		WithOnChange(func(message string, visible bool) {
			mu.Lock()
			defer mu.Unlock()
			if visible {
				events = append(events, "show:"+message)
			} else {
				events = append(events, "clear:"+message)
			}
		}),
	)

	toast.Notify("ok")
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(events) == 2
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"show:ok", "clear:ok"}, events)
}

func TestToast_StopKeepsMessage(t *testing.T) {
	toast := NewToast(WithDelay(10 * time.Millisecond))
	toast.Notify("kept")
	toast.Stop()

	time.Sleep(30 * time.Millisecond)
	msg, ok := toast.Current()
	assert.True(t, ok)
	assert.Equal(t, "kept", msg)
}

func TestDiscard(t *testing.T) {
	var n Notifier = Discard{}
	assert.NotPanics(t, func() { n.Notify("x") })
}
