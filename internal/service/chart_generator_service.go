package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seatwise/seatwise-api/internal/cdl"
	"github.com/seatwise/seatwise-api/internal/dto"
	"github.com/seatwise/seatwise-api/internal/models"
	"github.com/seatwise/seatwise-api/pkg/config"
	appErrors "github.com/seatwise/seatwise-api/pkg/errors"
)

// chartProposal is a generated seating chart held until it expires or the
// client deletes it. The struct is JSON-serializable so replicas can share
// proposals through the cache.
type chartProposal struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	ExpiresAt time.Time      `json:"expiresAt"`
	SeatMap   models.SeatMap `json:"seatMap"`
	Cost      float64        `json:"cost"`
	Stats     dto.ChartStats `json:"stats"`
	Desks     []models.Desk  `json:"desks"`
}

func (p *chartProposal) expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

// proposalStore is the in-memory TTL store for chart proposals.
type proposalStore struct {
	mu        sync.RWMutex
	proposals map[string]*chartProposal
}

func newProposalStore() *proposalStore {
	return &proposalStore{proposals: make(map[string]*chartProposal)}
}

func (s *proposalStore) put(p *chartProposal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, existing := range s.proposals {
		if existing.expired(now) {
			delete(s.proposals, id)
		}
	}
	s.proposals[p.ID] = p
}

func (s *proposalStore) get(id string) (*chartProposal, bool) {
	s.mu.RLock()
	p, ok := s.proposals[id]
	s.mu.RUnlock()
	if !ok || p.expired(time.Now()) {
		return nil, false
	}
	return p, true
}

func (s *proposalStore) delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.proposals[id]; !ok {
		return false
	}
	delete(s.proposals, id)
	return true
}

// ChartGeneratorService runs the seat-assignment pipeline: normalize the
// layout, order the roster, apply forced placements, fill the remaining
// seats in reading order, then refine by hill climbing.
type ChartGeneratorService struct {
	cfg      *config.Config
	logger   *zap.Logger
	validate *validator.Validate
	metrics  *MetricsService
	cache    *CacheService
	store    *proposalStore
}

// NewChartGeneratorService constructs the chart generator.
func NewChartGeneratorService(cfg *config.Config, logger *zap.Logger, metrics *MetricsService, cache *CacheService) *ChartGeneratorService {
	return &ChartGeneratorService{
		cfg:      cfg,
		logger:   logger,
		validate: validator.New(),
		metrics:  metrics,
		cache:    cache,
		store:    newProposalStore(),
	}
}

// Generate runs one optimization and stores the resulting proposal.
func (s *ChartGeneratorService) Generate(ctx context.Context, req dto.GenerateChartRequest) (*dto.GenerateChartResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	roster, err := s.resolveRoster(req)
	if err != nil {
		return nil, err
	}
	if max := s.cfg.Optimizer.MaxRosterSize; max > 0 && len(roster) > max {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("roster exceeds maximum of %d students", max))
	}

	doc := &cdl.Document{}
	if len(req.CDL) > 0 {
		doc, err = cdl.Parse(req.CDL)
		if err != nil {
			var schemaErr *cdl.SchemaError
			if errors.As(err, &schemaErr) {
				return nil, appErrors.Wrap(schemaErr, appErrors.ErrInvalidCDL.Code, appErrors.ErrInvalidCDL.Status, schemaErr.Error())
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInvalidCDL.Code, appErrors.ErrInvalidCDL.Status, appErrors.ErrInvalidCDL.Message)
		}
	}

	bucket := s.cfg.Optimizer.RowBucketSize
	if req.Options.RowBucketSize != nil {
		bucket = *req.Options.RowBucketSize
	}
	ix := buildLayoutIndex(req.Layout, bucket)
	if max := s.cfg.Optimizer.MaxSeats; max > 0 && len(ix.seatIDs) > max {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("layout exceeds maximum of %d seats", max))
	}
	if dups := ix.duplicateIDs(); len(dups) > 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("layout contains duplicate ids: %s", strings.Join(dups, ", ")))
	}

	iterations := s.cfg.Optimizer.Iterations
	if iterations == 0 {
		iterations = defaultIterations
	}
	if req.Options.Iterations != nil {
		iterations = *req.Options.Iterations
	}

	seed := time.Now().UnixNano()
	if req.Options.RandomSeed != nil {
		seed = *req.Options.RandomSeed
	}
	rng := rand.New(rand.NewSource(seed))

	weights := defaultCostWeights().merge(req.Options.Weights)
	tags := models.BuildTagIndex(roster)

	start := time.Now()
	seatMap := ix.blankSeatMap()
	queue := buildQueue(roster, doc.Ordering, rng)
	queue = applyForcedPlacements(seatMap, queue, doc, ix)
	unseated := fillRemaining(seatMap, queue, ix)
	climb := hillClimb(seatMap, ix, doc, tags, iterations, rng, weights)
	elapsed := time.Since(start)

	s.metrics.RecordOptimization(elapsed, climb.final)

	proposal := &chartProposal{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(s.cfg.Optimizer.ProposalTTL),
		SeatMap:   seatMap,
		Cost:      climb.final,
		Stats: dto.ChartStats{
			InitialCost:    climb.initial,
			FinalCost:      climb.final,
			ImprovingMoves: climb.improved,
			Iterations:     iterations,
			Unseated:       unseated,
		},
		Desks: ix.desks,
	}
	s.store.put(proposal)
	s.cache.SetProposal(ctx, proposal.ID, proposal)

	s.logger.Info("chart generated",
		zap.String("proposal_id", proposal.ID),
		zap.Int("students", len(roster)),
		zap.Int("seats", len(ix.seatIDs)),
		zap.Int("unseated", len(unseated)),
		zap.Float64("initial_cost", climb.initial),
		zap.Float64("final_cost", climb.final),
		zap.Duration("elapsed", elapsed))

	return proposalResponse(proposal), nil
}

// Get returns a stored proposal by id.
func (s *ChartGeneratorService) Get(ctx context.Context, id string) (*dto.GenerateChartResponse, error) {
	p, err := s.proposal(ctx, id)
	if err != nil {
		return nil, err
	}
	return proposalResponse(p), nil
}

// Delete discards a stored proposal.
func (s *ChartGeneratorService) Delete(ctx context.Context, id string) error {
	found := s.store.delete(id)
	if s.cache.Enabled() {
		if !found {
			var p chartProposal
			found = s.cache.GetProposal(ctx, id, &p) == nil
		}
		s.cache.DeleteProposal(ctx, id)
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "proposal not found")
	}
	return nil
}

func (s *ChartGeneratorService) proposal(ctx context.Context, id string) (*chartProposal, error) {
	if p, ok := s.store.get(id); ok {
		return p, nil
	}
	if s.cache.Enabled() {
		var p chartProposal
		if err := s.cache.GetProposal(ctx, id, &p); err == nil && !p.expired(time.Now()) {
			s.store.put(&p)
			return &p, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "proposal not found")
}

func proposalResponse(p *chartProposal) *dto.GenerateChartResponse {
	return &dto.GenerateChartResponse{
		ProposalID: p.ID,
		SeatMap:    p.SeatMap,
		Cost:       p.Cost,
		Stats:      p.Stats,
	}
}

// resolveRoster picks the student list from whichever roster shape the
// request carries and rejects duplicates; downstream code indexes by id.
func (s *ChartGeneratorService) resolveRoster(req dto.GenerateChartRequest) ([]models.Student, error) {
	if len(req.Roster) > 0 && req.RosterImport != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "provide either roster or rosterImport, not both")
	}

	var roster []models.Student
	switch {
	case len(req.Roster) > 0:
		roster = req.Roster
	case req.RosterImport != nil:
		roster = rosterFromImport(req.RosterImport)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "roster or rosterImport is required")
	}

	seen := make(map[string]bool, len(roster))
	for _, st := range roster {
		if seen[st.ID] {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("duplicate student id %q", st.ID))
		}
		seen[st.ID] = true
	}
	return roster, nil
}

// rosterFromImport converts the roster-editor exchange format. Names are
// split on the first space into first and last name; the full name is the id.
func rosterFromImport(imp *dto.RosterImport) []models.Student {
	roster := make([]models.Student, 0, len(imp.Students))
	for _, name := range imp.Students {
		first, last := splitName(name)
		roster = append(roster, models.Student{
			ID:        name,
			FirstName: first,
			LastName:  last,
			Tags:      imp.Tags[name],
		})
	}
	return roster
}

func splitName(name string) (first, last string) {
	fields := strings.Fields(name)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], fields[0]
	default:
		return fields[0], strings.Join(fields[1:], " ")
	}
}
