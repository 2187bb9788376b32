package http

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/wayfinder/pkg/domain"
)

func TestStreamManager_Topics(t *testing.T) {
	sm := NewStreamManager(nil)
	main, cancelMain := sm.Subscribe("main")
	defer cancelMain()
	all, cancelAll := sm.Subscribe(AllContainers)
	defer cancelAll()

	sm.Broadcast("tab", "a")
	sm.Broadcast("main", "b")

	assert.Equal(t, "a", <-all)
	assert.Equal(t, "b", <-all)
	assert.Equal(t, "b", <-main)
	assert.Empty(t, main)
}

func TestStreamManager_DropsWhenFull(t *testing.T) {
	sm := NewStreamManager(nil)
	ch, cancel := sm.Subscribe("main")

	for i := 0; i < cap(ch)+5; i++ {
		sm.Broadcast("main", "x")
	}
	assert.Len(t, ch, cap(ch))

	cancel()
	cancel()
	sm.Broadcast("main", "x")
	_, open := <-ch
	for open {
		_, open = <-ch
	}
}

func TestStreamManager_Hooks(t *testing.T) {
	sm := NewStreamManager(nil)
	ch, cancel := sm.Subscribe("main")
	defer cancel()

	hooks := sm.Hooks()
	hooks.OnReconcile(context.Background(), &domain.ReconcileEvent{ContainerID: "main", StackSize: 2})

	require.Len(t, ch, 1)
	assert.JSONEq(t,
		`{"kind":"reconcile","event":{"container_id":"main","stack_size":2,"instantiated":0,"dropped":0,"last_standard_index":0,"force_set":false}}`,
		<-ch)
}
