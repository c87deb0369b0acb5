package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/seatwise/seatwise-api/internal/repository"
	appErrors "github.com/seatwise/seatwise-api/pkg/errors"
)

const proposalKeyPrefix = "chart:proposal:"

// CacheService shares chart proposals across replicas through Redis so a
// proposal generated on one instance can be fetched or exported from another.
// It is a best-effort layer: failures degrade to the in-memory store.
type CacheService struct {
	repo    *repository.CacheRepository
	logger  *zap.Logger
	metrics *MetricsService
	ttl     time.Duration
	enabled bool
}

// NewCacheService wires the cache layer. A nil repository disables it.
func NewCacheService(repo *repository.CacheRepository, logger *zap.Logger, metrics *MetricsService, ttl time.Duration, enabled bool) *CacheService {
	return &CacheService{
		repo:    repo,
		logger:  logger,
		metrics: metrics,
		ttl:     ttl,
		enabled: enabled && repo != nil,
	}
}

// Enabled reports whether the cache layer is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled
}

// GetProposal loads a cached proposal by id.
func (s *CacheService) GetProposal(ctx context.Context, id string, dest interface{}) error {
	if !s.Enabled() {
		return appErrors.ErrCacheMiss
	}

	start := time.Now()
	err := s.repo.Get(ctx, proposalKeyPrefix+id, dest)
	s.metrics.RecordCacheOperation(err == nil, time.Since(start))

	if err != nil && !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Warn("proposal cache read failed", zap.String("proposal_id", id), zap.Error(err))
		return appErrors.ErrCacheMiss
	}
	return err
}

// SetProposal stores a proposal under its id with the configured TTL.
func (s *CacheService) SetProposal(ctx context.Context, id string, value interface{}) {
	if !s.Enabled() {
		return
	}

	start := time.Now()
	if err := s.repo.Set(ctx, proposalKeyPrefix+id, value, s.ttl); err != nil {
		s.logger.Warn("proposal cache write failed", zap.String("proposal_id", id), zap.Error(err))
		return
	}
	s.metrics.ObserveCacheWrite(time.Since(start))
}

// DeleteProposal evicts a cached proposal.
func (s *CacheService) DeleteProposal(ctx context.Context, id string) {
	if !s.Enabled() {
		return
	}

	if err := s.repo.DeleteByPattern(ctx, proposalKeyPrefix+id); err != nil {
		s.logger.Warn("proposal cache delete failed", zap.String("proposal_id", id), zap.Error(err))
	}
}
