package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmitDeliversInConnectionOrder(t *testing.T) {
	var s Signal[int]
	var got []int

	s.Connect(func(v int) { got = append(got, v*10) })
	s.Connect(func(v int) { got = append(got, v*100) })

	s.Emit(2)
	assert.Equal(t, []int{20, 200}, got)
}

func TestDisconnectStopsDelivery(t *testing.T) {
	var s Signal[string]
	var got []string

	off := s.Connect(func(v string) { got = append(got, v) })
	s.Emit("a")
	off()
	s.Emit("b")

	assert.Equal(t, []string{"a"}, got)
	assert.Equal(t, 0, s.Len())

	// Disconnecting twice is harmless.
	off()
}

func TestDisconnectDuringDeliveryDoesNotSkipPeers(t *testing.T) {
	var s Signal[struct{}]
	var calls int

	var off func()
	off = s.Connect(func(struct{}) {
		calls++
		off()
	})
	s.Connect(func(struct{}) { calls++ })

	s.Emit(struct{}{})
	assert.Equal(t, 2, calls, "second handler must still run")

	s.Emit(struct{}{})
	assert.Equal(t, 3, calls, "first handler disconnected itself")
}
