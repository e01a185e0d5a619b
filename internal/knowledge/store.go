package knowledge

import (
	"sync/atomic"
	"time"

	"insightx/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Snapshot is one installed generation of the knowledge base.
type Snapshot struct {
	Version uuid.UUID
	Source  string
	BuiltAt time.Time
	KB      *models.KnowledgeBase
}

// Store holds the active snapshot. Readers load it once per request and never
// see a half-installed generation.
type Store struct {
	current atomic.Pointer[Snapshot]
	logger  *zap.Logger
}

func NewStore(kb *models.KnowledgeBase, source string, logger *zap.Logger) *Store {
	s := &Store{logger: logger}
	s.Install(kb, source)
	return s
}

// Current returns the active snapshot.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Install publishes a fully built knowledge base as a new generation.
func (s *Store) Install(kb *models.KnowledgeBase, source string) *Snapshot {
	return s.Adopt(uuid.New(), kb, source)
}

// Adopt installs a knowledge base under a version minted elsewhere, such as a
// persisted snapshot or one announced by another replica.
func (s *Store) Adopt(version uuid.UUID, kb *models.KnowledgeBase, source string) *Snapshot {
	snap := &Snapshot{
		Version: version,
		Source:  source,
		BuiltAt: time.Now().UTC(),
		KB:      kb,
	}
	s.current.Store(snap)

	s.logger.Info("Knowledge base installed",
		zap.String("version", snap.Version.String()),
		zap.String("source", source),
		zap.Int("rows", kb.TotalTransactions),
		zap.Int("skipped_dimensions", len(kb.Skipped)),
	)
	return snap
}

// Rebuild builds a knowledge base from records and installs it. On error the
// previous generation stays active.
func (s *Store) Rebuild(set models.RecordSet) (*Snapshot, error) {
	kb, err := Build(set)
	if err != nil {
		s.logger.Warn("Knowledge base rebuild rejected", zap.String("source", set.Name), zap.Error(err))
		return nil, err
	}
	for _, skip := range kb.Skipped {
		s.logger.Warn("Dimension skipped",
			zap.String("dimension", string(skip.Dimension)),
			zap.String("reason", skip.Reason),
		)
	}
	return s.Install(kb, set.Name), nil
}
