package pointer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/odvcencio/chooser/pkg/selector"
)

func TestHub_SubscribePublish(t *testing.T) {
	h := NewHub()
	var got []selector.PointerEvent
	sub := h.Subscribe(func(ev selector.PointerEvent) { got = append(got, ev) })

	h.Publish(1, 2)
	assert.Equal(t, []selector.PointerEvent{{X: 1, Y: 2}}, got)
	assert.Equal(t, 1, h.Len())

	sub.Unsubscribe()
	sub.Unsubscribe()
	h.Publish(3, 4)
	assert.Len(t, got, 1)
	assert.Equal(t, 0, h.Len())
}

func TestHub_UnsubscribeDuringPublish(t *testing.T) {
	h := NewHub()
	calls := 0
	var second selector.Subscription
	h.Subscribe(func(selector.PointerEvent) {
		calls++
		second.Unsubscribe()
	})
	second = h.Subscribe(func(selector.PointerEvent) { calls++ })

	h.Publish(0, 0)
	assert.Equal(t, 1, calls, "listener removed mid-publish is skipped")
	assert.Equal(t, 1, h.Len())
}

func TestHub_DrivesOutsideDismiss(t *testing.T) {
	h := NewHub()
	c := selector.New(selector.Config[string]{
		Options: selector.Strings("a", "b"),
		Pointer: h,
		Surface: selector.RegionFunc(func(x, y int) bool { return y < 3 }),
	})

	c.Open()
	assert.Equal(t, 1, h.Len())
	h.Publish(0, 1)
	assert.True(t, c.IsOpen())
	h.Publish(0, 10)
	assert.False(t, c.IsOpen())
	assert.Equal(t, 0, h.Len())
}
