package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChangeBroker(t *testing.T) {
	broker := NewChangeBroker()
	first, cancelFirst := broker.Subscribe(2)
	second, _ := broker.Subscribe(0)

	broker.Publish(ChangeEvent{Op: ChangeAdd, BookID: 1})
	assert.Equal(t, ChangeEvent{Op: ChangeAdd, BookID: 1}, <-first)
	assert.Equal(t, ChangeEvent{Op: ChangeAdd, BookID: 1}, <-second)

	t.Run("full subscriber does not block", func(t *testing.T) {
		broker.Publish(ChangeEvent{Op: ChangeToggle, BookID: 1})
		broker.Publish(ChangeEvent{Op: ChangeRemove, BookID: 1})
		assert.Len(t, second, 1)
		assert.Equal(t, ChangeEvent{Op: ChangeToggle, BookID: 1}, <-second)
		assert.Len(t, first, 2)
		<-first
		<-first
	})

	t.Run("unsubscribe closes the channel", func(t *testing.T) {
		cancelFirst()
		cancelFirst()
		_, ok := <-first
		assert.False(t, ok)
		broker.Publish(ChangeEvent{Op: ChangeAdd, BookID: 2})
		assert.Equal(t, ChangeEvent{Op: ChangeAdd, BookID: 2}, <-second)
	})

	t.Run("listeners run before channel delivery", func(t *testing.T) {
		listener := &MockPublisher{OnPub: func(ev ChangeEvent) {
			assert.Empty(t, second)
		}}
		broker.Attach(listener)
		broker.Publish(ChangeEvent{Op: ChangeToggle, BookID: 2})
		assert.Equal(t, []ChangeEvent{{Op: ChangeToggle, BookID: 2}}, listener.Published())
		assert.Equal(t, ChangeEvent{Op: ChangeToggle, BookID: 2}, <-second)
	})

	t.Run("close", func(t *testing.T) {
		broker.Close()
		broker.Close()
		_, ok := <-second
		assert.False(t, ok)
		broker.Publish(ChangeEvent{Op: ChangeAdd})

		late, _ := broker.Subscribe(1)
		_, ok = <-late
		assert.False(t, ok)
	})
}
