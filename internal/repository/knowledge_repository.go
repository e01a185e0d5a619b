package repository

import (
	"context"
	"errors"
	"fmt"

	"insightx/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var ErrSnapshotNotFound = errors.New("knowledge snapshot not found")

// KnowledgeRepository keeps the history of built knowledge base snapshots.
type KnowledgeRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewKnowledgeRepository(db *pgxpool.Pool, logger *zap.Logger) *KnowledgeRepository {
	return &KnowledgeRepository{
		db:     db,
		logger: logger,
	}
}

func insertSnapshotQuery(rec *models.SnapshotRecord) squirrel.InsertBuilder {
	return squirrel.Insert("kb_snapshots").
		Columns("version", "source", "rows", "document", "built_at").
		Values(rec.Version, rec.Source, rec.Rows, string(rec.Document), rec.BuiltAt).
		PlaceholderFormat(squirrel.Dollar)
}

func latestSnapshotQuery() squirrel.SelectBuilder {
	return squirrel.Select("version", "source", "rows", "document", "built_at").
		From("kb_snapshots").
		OrderBy("built_at DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar)
}

func (r *KnowledgeRepository) Save(ctx context.Context, rec *models.SnapshotRecord) error {
	sql, args, err := insertSnapshotQuery(rec).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build snapshot insert: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	r.logger.Info("Knowledge snapshot saved",
		zap.String("version", rec.Version.String()),
		zap.Int("bytes", len(rec.Document)),
	)
	return nil
}

func (r *KnowledgeRepository) Latest(ctx context.Context) (*models.SnapshotRecord, error) {
	sql, args, err := latestSnapshotQuery().ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build snapshot query: %w", err)
	}

	var rec models.SnapshotRecord
	var document string
	err = r.db.QueryRow(ctx, sql, args...).Scan(&rec.Version, &rec.Source, &rec.Rows, &document, &rec.BuiltAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest snapshot: %w", err)
	}
	rec.Document = []byte(document)
	return &rec, nil
}
