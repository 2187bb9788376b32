package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStackStoreContract runs a suite of tests to verify that a StackStore
// implementation adheres to the interface contract.
func RunStackStoreContract(t *testing.T, store StackStore) {
	ctx := context.Background()
	containerID := "contract-nav-" + time.Now().Format("20060102150405")

	records := []domain.RecoveryRecord{
		{Name: "Home", Param: `{"tab":1}`, Mode: int(domain.ModeStandard)},
		{Name: "Detail", Param: "", Mode: int(domain.ModeStandard), IsReplaced: true},
		{Name: "Confirm", Param: "x", Mode: int(domain.ModeDialog)},
	}

	t.Run("Save and Load", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, containerID, records))

		loaded, err := store.Load(ctx, containerID)
		require.NoError(t, err)
		assert.Equal(t, records, loaded, "records must round-trip in order")
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, containerID, records[:1]))

		loaded, err := store.Load(ctx, containerID)
		require.NoError(t, err)
		assert.Len(t, loaded, 1)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "missing-"+containerID)
		assert.ErrorIs(t, err, domain.ErrStackNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, containerID, records))
		require.NoError(t, store.Delete(ctx, containerID))

		_, err := store.Load(ctx, containerID)
		assert.ErrorIs(t, err, domain.ErrStackNotFound, "Load after Delete should return ErrStackNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := containerID + "-1"
		id2 := containerID + "-2"
		require.NoError(t, store.Save(ctx, id1, records))
		require.NoError(t, store.Save(ctx, id2, records))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
