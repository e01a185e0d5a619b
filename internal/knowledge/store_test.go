package knowledge

import (
	"errors"
	"sync"
	"testing"

	"insightx/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	kb, err := Embedded()
	require.NoError(t, err)
	return NewStore(kb, EmbeddedSource, zap.NewNop())
}

func TestStore_RebuildSwapsSnapshot(t *testing.T) {
	store := newTestStore(t)
	before := store.Current()

	snap, err := store.Rebuild(uniformSet(50))
	require.NoError(t, err)

	assert.NotEqual(t, before.Version, snap.Version)
	assert.Same(t, snap, store.Current())
	assert.Equal(t, "fixture.csv", snap.Source)
	assert.Equal(t, 50, store.Current().KB.TotalTransactions)
}

func TestStore_FailedRebuildKeepsPreviousSnapshot(t *testing.T) {
	store := newTestStore(t)
	before := store.Current()

	set := uniformSet(50)
	set.Fields = []models.Field{models.FieldStatus, models.FieldFraud}
	snap, err := store.Rebuild(set)

	assert.Nil(t, snap)
	var dataErr *DataError
	require.True(t, errors.As(err, &dataErr))
	assert.Equal(t, models.FieldAmount, dataErr.Field)
	assert.Same(t, before, store.Current())
	assert.Equal(t, 250000, store.Current().KB.TotalTransactions)
}

func TestStore_AdoptKeepsVersion(t *testing.T) {
	store := newTestStore(t)
	kb, err := Build(uniformSet(12))
	require.NoError(t, err)

	version := uuid.New()
	snap := store.Adopt(version, kb, "replica")

	assert.Equal(t, version, snap.Version)
	assert.Equal(t, version, store.Current().Version)
}

func TestStore_ConcurrentReadersSeeWholeSnapshots(t *testing.T) {
	store := newTestStore(t)
	small, err := Build(uniformSet(10))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				snap := store.Current()
				total := 0
				snap.KB.Table(models.DimDevice).Each(func(_ string, agg models.Aggregate) {
					total += agg.Count
				})
				assert.Equal(t, snap.KB.TotalTransactions, total)
			}
		}()
	}
	for i := 0; i < 20; i++ {
		store.Install(small, "fixture.csv")
	}
	wg.Wait()
}
