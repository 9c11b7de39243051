package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"anamnesis/internal/cache"
	"anamnesis/internal/model"
	"anamnesis/internal/repository"
)

var (
	ErrIntakeNotFound = errors.New("intake not found")
	ErrInvalidStatus  = errors.New("invalid intake status")
	ErrEmptyNote      = errors.New("note text must not be empty")
)

// ReviewStats is the dashboard payload: intake counts per triage
// status plus the most recent submissions.
type ReviewStats struct {
	StatusCounts map[string]int64 `json:"statusCounts"`
	Recent       []*model.Intake  `json:"recent"`
}

// ReviewService backs the optician review dashboard
type ReviewService struct {
	intakeRepo  repository.IntakeRepo
	statsCache  cache.StatsCache
	broadcaster Broadcaster
}

// NewReviewService creates a new review service
func NewReviewService(intakeRepo repository.IntakeRepo, statsCache cache.StatsCache) *ReviewService {
	return &ReviewService{
		intakeRepo: intakeRepo,
		statsCache: statsCache,
	}
}

// SetBroadcaster wires the WebSocket broadcaster after construction
func (s *ReviewService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// List returns intakes matching the filter, newest first
func (s *ReviewService) List(ctx context.Context, filter repository.IntakeFilter) ([]*model.Intake, error) {
	return s.intakeRepo.List(ctx, filter)
}

// Get returns a single intake
func (s *ReviewService) Get(ctx context.Context, id string) (*model.Intake, error) {
	intake, err := s.intakeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if intake == nil {
		return nil, ErrIntakeNotFound
	}
	return intake, nil
}

// UpdateStatus moves an intake through the triage workflow and keeps
// the Redis counters in step.
func (s *ReviewService) UpdateStatus(ctx context.Context, id string, status model.IntakeStatus) (*model.Intake, error) {
	if !model.ValidIntakeStatus(status) {
		return nil, ErrInvalidStatus
	}

	intake, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if intake.Status == status {
		return intake, nil
	}

	if err := s.intakeRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	if err := s.statsCache.MoveStatus(ctx, string(intake.Status), string(status)); err != nil {
		log.Warn().Err(err).Str("intakeId", id).Msg("failed to move status counter")
	}

	intake.Status = status
	intake.UpdatedAt = time.Now()

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToStaff("intake_status_changed", map[string]interface{}{
			"intakeId": id,
			"status":   status,
		})
	}
	return intake, nil
}

// AddNote appends a review note to an intake
func (s *ReviewService) AddNote(ctx context.Context, id, authorID, text string) (*model.Intake, error) {
	if text == "" {
		return nil, ErrEmptyNote
	}

	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	note := model.ReviewNote{
		AuthorID:  authorID,
		Text:      text,
		CreatedAt: time.Now(),
	}
	if err := s.intakeRepo.AddNote(ctx, id, note); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Stats assembles the dashboard counters and hydrates the recent
// submission IDs from Mongo. A recent ID whose document has been
// deleted is silently dropped.
func (s *ReviewService) Stats(ctx context.Context, recentLimit int64) (*ReviewStats, error) {
	counts, err := s.statsCache.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}

	ids, err := s.statsCache.RecentSubmissions(ctx, recentLimit)
	if err != nil {
		return nil, err
	}

	recent := make([]*model.Intake, 0, len(ids))
	for _, id := range ids {
		intake, err := s.intakeRepo.GetByID(ctx, id)
		if err != nil || intake == nil {
			continue
		}
		recent = append(recent, intake)
	}

	return &ReviewStats{
		StatusCounts: counts,
		Recent:       recent,
	}, nil
}
