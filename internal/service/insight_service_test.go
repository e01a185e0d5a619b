package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"insightx/internal/knowledge"
	"insightx/internal/models"
	"insightx/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSnapshots struct {
	mu     sync.Mutex
	saved  []*models.SnapshotRecord
	latest *models.SnapshotRecord
	err    error
}

func (f *fakeSnapshots) Save(_ context.Context, rec *models.SnapshotRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, rec)
	return f.err
}

func (f *fakeSnapshots) Latest(context.Context) (*models.SnapshotRecord, error) {
	if f.latest == nil {
		return nil, repository.ErrSnapshotNotFound
	}
	return f.latest, nil
}

type fakeCache struct {
	mu        sync.Mutex
	docs      map[string][]byte
	latest    string
	announced []string
	gets      int
}

func newFakeCache() *fakeCache {
	return &fakeCache{docs: map[string][]byte{}}
}

func (f *fakeCache) Put(_ context.Context, version string, doc []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[version] = doc
	return nil
}

func (f *fakeCache) PutLatest(ctx context.Context, version string, doc []byte) error {
	if err := f.Put(ctx, version, doc); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latest = version
	return nil
}

func (f *fakeCache) Get(_ context.Context, version string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	doc, ok := f.docs[version]
	return doc, ok, nil
}

func (f *fakeCache) Latest(context.Context) (string, []byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.latest == "" {
		return "", nil, false, nil
	}
	return f.latest, f.docs[f.latest], true, nil
}

func (f *fakeCache) Announce(_ context.Context, version string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.announced = append(f.announced, version)
	return nil
}

type fakeRecords struct {
	set models.RecordSet
	err error
}

func (f fakeRecords) LoadRecordSet(context.Context) (models.RecordSet, error) {
	return f.set, f.err
}

func recordSet(name string, n int) models.RecordSet {
	records := make([]models.Transaction, n)
	for i := range records {
		records[i] = models.Transaction{
			Amount:   float64(100 + i),
			Category: "Food",
			State:    "Goa",
			Bank:     "HDFC",
			Device:   "iOS",
			Network:  "5G",
			TxType:   "P2M",
			AgeGroup: "18-25",
			Status:   models.StatusSuccess,
			Hour:     i % 24,
			Day:      "Friday",
			Month:    "March",
		}
	}
	return models.RecordSet{Name: name, Fields: models.AllFields(), Records: records}
}

func newTestService(t *testing.T, snapshots SnapshotRepository, cache SnapshotCache, records RecordSource) *InsightService {
	t.Helper()
	kb, err := knowledge.Embedded()
	require.NoError(t, err)
	store := knowledge.NewStore(kb, knowledge.EmbeddedSource, zap.NewNop())
	return NewInsightService(store, snapshots, cache, records, zap.NewNop())
}

func TestAsk_ValidatesQuestion(t *testing.T) {
	s := newTestService(t, nil, nil, nil)

	_, err := s.Ask("   ")
	assert.ErrorIs(t, err, ErrInvalidQuestion)

	_, err = s.Ask(strings.Repeat("a", 501))
	assert.ErrorIs(t, err, ErrInvalidQuestion)

	result, err := s.Ask(strings.Repeat("ф", 500))
	require.NoError(t, err, "length counts characters, not bytes")
	assert.Equal(t, RouteOverview, result.Response.Intent)
}

func TestAsk_ReportsClassification(t *testing.T) {
	s := newTestService(t, nil, nil, nil)

	result, err := s.Ask("  Compare Android vs iOS ")
	require.NoError(t, err)

	assert.Equal(t, RouteCompare, result.Response.Intent)
	assert.Equal(t, "device_compare", result.Response.ChartType)
	assert.Equal(t, []string{"COMPARE"}, result.Intents)
	assert.Equal(t, []string{"Android", "iOS"}, result.Entities.Devices)
	assert.Equal(t, s.Status().Version, result.Version)
}

func TestQuery_NeverFails(t *testing.T) {
	s := newTestService(t, nil, nil, nil)
	resp := s.Query("")
	assert.Equal(t, RouteOverview, resp.Intent)
	assert.NotEmpty(t, resp.Answer)
}

func TestLookup(t *testing.T) {
	s := newTestService(t, nil, nil, nil)

	agg, err := s.Lookup("by_category", "Shopping")
	require.NoError(t, err)
	assert.Equal(t, 1957.17, agg.Avg)

	_, err = s.Lookup("merchant", "Shopping")
	assert.ErrorIs(t, err, ErrUnknownDimension)

	_, err = s.Lookup("state", "Atlantis")
	assert.ErrorIs(t, err, ErrValueNotFound)
}

func TestRebuild_PublishesSnapshot(t *testing.T) {
	snapshots := &fakeSnapshots{}
	cache := newFakeCache()
	s := newTestService(t, snapshots, cache, nil)

	snap, err := s.Rebuild(context.Background(), recordSet("upload.csv", 40))
	require.NoError(t, err)

	status := s.Status()
	assert.Equal(t, snap.Version.String(), status.Version)
	assert.Equal(t, "upload.csv", status.Source)
	assert.Equal(t, 40, status.Rows)

	require.Len(t, snapshots.saved, 1)
	assert.Equal(t, snap.Version, snapshots.saved[0].Version)
	assert.Equal(t, 40, snapshots.saved[0].Rows)
	assert.Contains(t, cache.docs, snap.Version.String())
	assert.Equal(t, []string{snap.Version.String()}, cache.announced)
	assert.Equal(t, snap.Version.String(), cache.latest)
}

func TestRebuild_DataErrorKeepsActiveVersion(t *testing.T) {
	cache := newFakeCache()
	s := newTestService(t, nil, cache, nil)
	before := s.Status()

	set := recordSet("broken.csv", 10)
	set.Fields = []models.Field{models.FieldAmount, models.FieldFraud}
	_, err := s.Rebuild(context.Background(), set)

	var dataErr *knowledge.DataError
	require.True(t, errors.As(err, &dataErr))
	assert.Equal(t, models.FieldStatus, dataErr.Field)
	assert.Equal(t, before.Version, s.Status().Version)
	assert.Empty(t, cache.announced)
}

func TestRebuild_PersistenceFailureStillServes(t *testing.T) {
	snapshots := &fakeSnapshots{err: errors.New("db down")}
	s := newTestService(t, snapshots, nil, nil)

	snap, err := s.Rebuild(context.Background(), recordSet("upload.csv", 5))
	require.NoError(t, err)
	assert.Equal(t, snap.Version.String(), s.Status().Version)
}

func TestRebuildFromDatabase(t *testing.T) {
	s := newTestService(t, nil, nil, nil)
	_, err := s.RebuildFromDatabase(context.Background())
	assert.ErrorIs(t, err, ErrNoRecordSource)

	s = newTestService(t, nil, nil, fakeRecords{err: errors.New("timeout")})
	_, err = s.RebuildFromDatabase(context.Background())
	assert.ErrorContains(t, err, "failed to load records")

	s = newTestService(t, nil, nil, fakeRecords{set: recordSet("postgres:transactions", 24)})
	snap, err := s.RebuildFromDatabase(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 24, snap.KB.TotalTransactions)
}

func encodedSnapshot(t *testing.T, n int) []byte {
	t.Helper()
	kb, err := knowledge.Build(recordSet("history.csv", n))
	require.NoError(t, err)
	doc, err := knowledge.Encode(kb)
	require.NoError(t, err)
	return doc
}

func TestRestoreLatest_PrefersDatabase(t *testing.T) {
	version := uuid.New()
	snapshots := &fakeSnapshots{latest: &models.SnapshotRecord{
		Version:  version,
		Source:   "history.csv",
		Rows:     12,
		Document: encodedSnapshot(t, 12),
	}}
	cache := newFakeCache()
	require.NoError(t, cache.PutLatest(context.Background(), uuid.NewString(), encodedSnapshot(t, 30)))

	s := newTestService(t, snapshots, cache, nil)
	restored, err := s.RestoreLatest(context.Background())
	require.NoError(t, err)

	assert.True(t, restored)
	status := s.Status()
	assert.Equal(t, version.String(), status.Version)
	assert.Equal(t, "history.csv", status.Source)
	assert.Equal(t, 12, status.Rows)
}

func TestRestoreLatest_FallsBackToCache(t *testing.T) {
	cache := newFakeCache()
	version := uuid.NewString()
	require.NoError(t, cache.PutLatest(context.Background(), version, encodedSnapshot(t, 30)))

	s := newTestService(t, &fakeSnapshots{}, cache, nil)
	restored, err := s.RestoreLatest(context.Background())
	require.NoError(t, err)

	assert.True(t, restored)
	assert.Equal(t, version, s.Status().Version)
	assert.Equal(t, 30, s.Status().Rows)
}

func TestRestoreLatest_NothingStored(t *testing.T) {
	s := newTestService(t, &fakeSnapshots{}, newFakeCache(), nil)
	before := s.Status().Version

	restored, err := s.RestoreLatest(context.Background())
	require.NoError(t, err)
	assert.False(t, restored)
	assert.Equal(t, before, s.Status().Version)
}

func TestAdopt(t *testing.T) {
	cache := newFakeCache()
	s := newTestService(t, nil, cache, nil)

	err := s.Adopt(context.Background(), uuid.NewString())
	assert.ErrorContains(t, err, "is not cached")

	version := uuid.NewString()
	require.NoError(t, cache.Put(context.Background(), version, encodedSnapshot(t, 8)))
	require.NoError(t, s.Adopt(context.Background(), version))
	assert.Equal(t, version, s.Status().Version)
	assert.Equal(t, "replica", s.Status().Source)

	gets := cache.gets
	require.NoError(t, s.Adopt(context.Background(), version), "active version is a no-op")
	assert.Equal(t, gets, cache.gets)

	require.NoError(t, cache.Put(context.Background(), "not-a-uuid", encodedSnapshot(t, 8)))
	assert.Error(t, s.Adopt(context.Background(), "not-a-uuid"))
	assert.Equal(t, version, s.Status().Version)
}

func TestExportSnapshot_UsesCache(t *testing.T) {
	cache := newFakeCache()
	s := newTestService(t, nil, cache, nil)
	ctx := context.Background()

	doc, err := s.ExportSnapshot(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(doc), `"total_transactions"`)
	assert.Equal(t, doc, cache.docs[s.Status().Version])

	cache.docs[s.Status().Version] = []byte(`{"cached":true}`)
	doc, err = s.ExportSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"cached":true}`, string(doc))

	s = newTestService(t, nil, nil, nil)
	doc, err = s.ExportSnapshot(ctx)
	require.NoError(t, err)
	decoded, err := knowledge.Decode(doc)
	require.NoError(t, err)
	assert.Equal(t, 250000, decoded.TotalTransactions)
}

func TestExportSnapshot_StaleReplicaKeepsLatest(t *testing.T) {
	ctx := context.Background()
	cache := newFakeCache()

	rebuilt := newTestService(t, nil, cache, nil)
	snap, err := rebuilt.Rebuild(ctx, recordSet("upload.csv", 50))
	require.NoError(t, err)

	stale := newTestService(t, nil, cache, nil)
	_, err = stale.ExportSnapshot(ctx)
	require.NoError(t, err)
	assert.Contains(t, cache.docs, stale.Status().Version)
	assert.Equal(t, snap.Version.String(), cache.latest)

	restarted := newTestService(t, nil, cache, nil)
	restored, err := restarted.RestoreLatest(ctx)
	require.NoError(t, err)
	assert.True(t, restored)
	assert.Equal(t, snap.Version.String(), restarted.Status().Version)
	assert.Equal(t, 50, restarted.Status().Rows)
}
