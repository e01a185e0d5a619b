package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"insightx/internal/knowledge"
	"insightx/internal/models"
	"insightx/internal/nlp"
	"insightx/internal/repository"
	"insightx/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidQuestion  = errors.New("question must be between 1 and 500 characters")
	ErrUnknownDimension = errors.New("unknown dimension")
	ErrValueNotFound    = errors.New("dimension value not found")
	ErrNoRecordSource   = errors.New("no record source configured")
)

const maxQuestionLength = 500

// SnapshotRepository persists serialized snapshots.
type SnapshotRepository interface {
	Save(ctx context.Context, rec *models.SnapshotRecord) error
	Latest(ctx context.Context) (*models.SnapshotRecord, error)
}

// SnapshotCache shares serialized snapshots with other replicas. Put only
// stores a document; PutLatest also makes it the one restarted replicas restore.
type SnapshotCache interface {
	Put(ctx context.Context, version string, document []byte) error
	PutLatest(ctx context.Context, version string, document []byte) error
	Get(ctx context.Context, version string) ([]byte, bool, error)
	Latest(ctx context.Context) (string, []byte, bool, error)
	Announce(ctx context.Context, version string) error
}

// RecordSource supplies raw transactions for a rebuild.
type RecordSource interface {
	LoadRecordSet(ctx context.Context) (models.RecordSet, error)
}

// QueryResult is a response together with how it was derived.
type QueryResult struct {
	Response models.Response `json:"response"`
	Intents  []string        `json:"intents"`
	Entities nlp.Entities    `json:"entities"`
	Version  string          `json:"kb_version"`
}

// Status describes the active knowledge base.
type Status struct {
	Version string                    `json:"version"`
	Source  string                    `json:"source"`
	BuiltAt time.Time                 `json:"built_at"`
	Rows    int                       `json:"rows"`
	Skipped []models.SkippedDimension `json:"skipped_dimensions"`
}

type InsightService struct {
	store      *knowledge.Store
	classifier *nlp.IntentClassifier
	extractor  *nlp.EntityExtractor
	generator  *ResponseGenerator

	snapshots SnapshotRepository
	cache     SnapshotCache
	records   RecordSource

	// rebuildMu serializes rebuilds with their persistence and publication.
	rebuildMu sync.Mutex
	logger    *zap.Logger
}

// NewInsightService wires the query engine. snapshots, cache and records are
// optional and may be nil.
func NewInsightService(
	store *knowledge.Store,
	snapshots SnapshotRepository,
	cache SnapshotCache,
	records RecordSource,
	logger *zap.Logger,
) *InsightService {
	s := &InsightService{
		store:      store,
		classifier: nlp.NewIntentClassifier(),
		extractor:  nlp.NewEntityExtractor(),
		generator:  NewResponseGenerator(logger),
		snapshots:  snapshots,
		cache:      cache,
		records:    records,
		logger:     logger,
	}
	s.observe(store.Current())
	return s
}

// Query answers a question against the active knowledge base.
func (s *InsightService) Query(question string) models.Response {
	return s.answer(question).Response
}

// Ask validates the question and answers it with classification details.
func (s *InsightService) Ask(question string) (*QueryResult, error) {
	question = strings.TrimSpace(question)
	if question == "" || utf8.RuneCountInString(question) > maxQuestionLength {
		return nil, ErrInvalidQuestion
	}
	result := s.answer(question)
	return &result, nil
}

func (s *InsightService) answer(question string) QueryResult {
	start := time.Now()
	snap := s.store.Current()

	intents := s.classifier.Classify(question)
	entities := s.extractor.Extract(question)
	resp := s.generator.Generate(snap.KB, intents, entities, question)
	resp.ChartType = DetectChartType(question)

	metrics.QueriesTotal.WithLabelValues(resp.Intent).Inc()
	metrics.QueryDuration.WithLabelValues(resp.Intent).Observe(time.Since(start).Seconds())

	return QueryResult{
		Response: resp,
		Intents:  nlp.Names(intents),
		Entities: entities,
		Version:  snap.Version.String(),
	}
}

// Status reports the active snapshot.
func (s *InsightService) Status() Status {
	snap := s.store.Current()
	skipped := snap.KB.Skipped
	if skipped == nil {
		skipped = []models.SkippedDimension{}
	}
	return Status{
		Version: snap.Version.String(),
		Source:  snap.Source,
		BuiltAt: snap.BuiltAt,
		Rows:    snap.KB.TotalTransactions,
		Skipped: skipped,
	}
}

// Lookup reads one aggregate record from the active knowledge base.
func (s *InsightService) Lookup(dimension, value string) (models.Aggregate, error) {
	dim, ok := models.ParseDimension(dimension)
	if !ok {
		return models.Aggregate{}, fmt.Errorf("%w: %s", ErrUnknownDimension, dimension)
	}
	agg, ok := s.store.Current().KB.Lookup(dim, value)
	if !ok {
		return models.Aggregate{}, fmt.Errorf("%w: %s=%s", ErrValueNotFound, dim, value)
	}
	return agg, nil
}

// ExportSnapshot serializes the active knowledge base, reusing the cached
// document for the same version when available.
func (s *InsightService) ExportSnapshot(ctx context.Context) ([]byte, error) {
	snap := s.store.Current()
	version := snap.Version.String()

	if s.cache != nil {
		doc, found, err := s.cache.Get(ctx, version)
		if err != nil {
			s.logger.Warn("Snapshot cache read failed", zap.Error(err))
		} else if found {
			return doc, nil
		}
	}

	doc, err := knowledge.Encode(snap.KB)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, version, doc); err != nil {
			s.logger.Warn("Snapshot cache write failed", zap.Error(err))
		}
	}
	return doc, nil
}

// Rebuild builds a new knowledge base from records and swaps it in. A
// *knowledge.DataError leaves the active knowledge base in place.
func (s *InsightService) Rebuild(ctx context.Context, set models.RecordSet) (*knowledge.Snapshot, error) {
	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()

	start := time.Now()
	snap, err := s.store.Rebuild(set)
	metrics.RebuildDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RebuildsTotal.WithLabelValues(sourceLabel(set.Name), "rejected").Inc()
		return nil, err
	}
	metrics.RebuildsTotal.WithLabelValues(sourceLabel(set.Name), "installed").Inc()
	s.observe(snap)

	s.logger.Info("Knowledge base rebuilt",
		zap.String("version", snap.Version.String()),
		zap.String("source", set.Name),
		zap.Int("rows", len(set.Records)),
		zap.Int("rejected_rows", set.Rejected),
		zap.Duration("took", time.Since(start)),
	)

	s.publish(ctx, snap)
	return snap, nil
}

// RebuildFromDatabase rebuilds from the configured record source.
func (s *InsightService) RebuildFromDatabase(ctx context.Context) (*knowledge.Snapshot, error) {
	if s.records == nil {
		return nil, ErrNoRecordSource
	}
	set, err := s.records.LoadRecordSet(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	return s.Rebuild(ctx, set)
}

// RestoreLatest installs the most recently persisted snapshot, preferring the
// database history over the cache. It reports whether anything was installed.
func (s *InsightService) RestoreLatest(ctx context.Context) (bool, error) {
	if s.snapshots != nil {
		rec, err := s.snapshots.Latest(ctx)
		switch {
		case err == nil:
			return true, s.adopt(rec.Version.String(), rec.Document, rec.Source)
		case !errors.Is(err, repository.ErrSnapshotNotFound):
			return false, fmt.Errorf("failed to load latest snapshot: %w", err)
		}
	}

	if s.cache != nil {
		version, doc, found, err := s.cache.Latest(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to read cached snapshot: %w", err)
		}
		if found {
			return true, s.adopt(version, doc, "cache")
		}
	}
	return false, nil
}

// Adopt installs a snapshot another replica announced. The active version is
// left alone when it already matches.
func (s *InsightService) Adopt(ctx context.Context, version string) error {
	if s.cache == nil || version == s.store.Current().Version.String() {
		return nil
	}
	doc, found, err := s.cache.Get(ctx, version)
	if err != nil {
		return fmt.Errorf("failed to read announced snapshot: %w", err)
	}
	if !found {
		return fmt.Errorf("announced snapshot %s is not cached", version)
	}
	return s.adopt(version, doc, "replica")
}

func (s *InsightService) adopt(version string, doc []byte, source string) error {
	id, err := uuid.Parse(version)
	if err != nil {
		return fmt.Errorf("invalid snapshot version %q: %w", version, err)
	}
	kb, err := knowledge.Decode(doc)
	if err != nil {
		return err
	}

	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()
	s.observe(s.store.Adopt(id, kb, source))
	return nil
}

// publish persists and announces a snapshot. Failures are logged; the new
// knowledge base is already serving.
func (s *InsightService) publish(ctx context.Context, snap *knowledge.Snapshot) {
	if s.snapshots == nil && s.cache == nil {
		return
	}
	doc, err := knowledge.Encode(snap.KB)
	if err != nil {
		s.logger.Error("Snapshot encoding failed", zap.Error(err))
		return
	}
	version := snap.Version.String()

	if s.snapshots != nil {
		err := s.snapshots.Save(ctx, &models.SnapshotRecord{
			Version:  snap.Version,
			Source:   snap.Source,
			Rows:     snap.KB.TotalTransactions,
			Document: doc,
			BuiltAt:  snap.BuiltAt,
		})
		if err != nil {
			s.logger.Error("Snapshot persistence failed", zap.String("version", version), zap.Error(err))
		}
	}

	if s.cache != nil {
		if err := s.cache.PutLatest(ctx, version, doc); err != nil {
			s.logger.Error("Snapshot cache write failed", zap.String("version", version), zap.Error(err))
			return
		}
		if err := s.cache.Announce(ctx, version); err != nil {
			s.logger.Error("Snapshot announcement failed", zap.String("version", version), zap.Error(err))
		}
	}
}

func (s *InsightService) observe(snap *knowledge.Snapshot) {
	metrics.KnowledgeRows.Set(float64(snap.KB.TotalTransactions))
	metrics.SkippedDimensions.Set(float64(len(snap.KB.Skipped)))
}

// sourceLabel keeps metric cardinality bounded.
func sourceLabel(name string) string {
	if strings.HasPrefix(name, "postgres:") {
		return "postgres"
	}
	return "upload"
}
