package repository

import (
	"context"
	"fmt"
	"time"

	"insightx/pkg/redis"

	"go.uber.org/zap"
)

const (
	snapshotKeyPrefix = "insightx:kb:"
	latestSnapshotKey = "insightx:kb:latest"
	// RebuiltChannel carries the version of every newly installed snapshot.
	RebuiltChannel = "insightx:kb:rebuilt"
)

// SnapshotCache keeps serialized snapshot documents in Redis so replicas and
// dashboards can fetch them without re-encoding.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewSnapshotCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *SnapshotCache {
	return &SnapshotCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func snapshotKey(version string) string {
	return snapshotKeyPrefix + version
}

// Put stores a document under its version without touching the latest pointer.
func (c *SnapshotCache) Put(ctx context.Context, version string, document []byte) error {
	if err := c.client.Set(ctx, snapshotKey(version), document, c.ttl); err != nil {
		return fmt.Errorf("failed to cache snapshot: %w", err)
	}
	return nil
}

// PutLatest stores a document and marks it as the latest snapshot.
func (c *SnapshotCache) PutLatest(ctx context.Context, version string, document []byte) error {
	if err := c.Put(ctx, version, document); err != nil {
		return err
	}
	if err := c.client.Set(ctx, latestSnapshotKey, version, c.ttl); err != nil {
		return fmt.Errorf("failed to mark latest snapshot: %w", err)
	}
	return nil
}

// Get returns the cached document for a version.
func (c *SnapshotCache) Get(ctx context.Context, version string) ([]byte, bool, error) {
	doc, found, err := c.client.Get(ctx, snapshotKey(version))
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached snapshot: %w", err)
	}
	return doc, found, nil
}

// Latest returns the most recently cached version and its document.
func (c *SnapshotCache) Latest(ctx context.Context) (string, []byte, bool, error) {
	version, found, err := c.client.Get(ctx, latestSnapshotKey)
	if err != nil || !found {
		return "", nil, false, err
	}
	doc, found, err := c.Get(ctx, string(version))
	return string(version), doc, found, err
}

// Announce publishes a rebuilt version to subscribers.
func (c *SnapshotCache) Announce(ctx context.Context, version string) error {
	if err := c.client.Publish(ctx, RebuiltChannel, version); err != nil {
		return fmt.Errorf("failed to announce snapshot: %w", err)
	}
	c.logger.Debug("Snapshot announced", zap.String("version", version))
	return nil
}

// Watch calls fn for every announced version until ctx is done.
func (c *SnapshotCache) Watch(ctx context.Context, fn func(version string)) {
	messages := c.client.Subscribe(ctx, RebuiltChannel)
	c.logger.Info("Watching snapshot announcements", zap.String("channel", RebuiltChannel))
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			fn(msg.Payload)
		}
	}
}
