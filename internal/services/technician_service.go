package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/ctecg/score-api/internal/cache"
	"github.com/ctecg/score-api/internal/models"
	"github.com/ctecg/score-api/internal/repository"
	"github.com/ctecg/score-api/pkg/logger"
	"github.com/ctecg/score-api/pkg/metrics"
)

// TechnicianService manages technician accounts and their point balances
type TechnicianService struct {
	techRepo         repository.TechnicianRepositoryInterface
	pointsRepo       repository.PointsRepositoryInterface
	leaderboardCache cache.LeaderboardCacheInterface
}

// NewTechnicianService creates a new technician service
func NewTechnicianService(techRepo repository.TechnicianRepositoryInterface, pointsRepo repository.PointsRepositoryInterface,
	leaderboardCache cache.LeaderboardCacheInterface) *TechnicianService {
	return &TechnicianService{
		techRepo:         techRepo,
		pointsRepo:       pointsRepo,
		leaderboardCache: leaderboardCache,
	}
}

// List returns technicians, optionally including deactivated ones
func (s *TechnicianService) List(ctx context.Context, includeInactive bool) ([]*models.Technician, error) {
	return s.techRepo.GetAll(ctx, includeInactive)
}

// Get returns one technician
func (s *TechnicianService) Get(ctx context.Context, id int64) (*models.Technician, error) {
	return s.techRepo.GetByID(ctx, id)
}

// Create adds a technician account
func (s *TechnicianService) Create(ctx context.Context, req *models.CreateTechnicianRequest) (*models.Technician, error) {
	t, err := s.techRepo.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	logger.Info("Technician created", zap.Int64("technician_id", t.ID))
	return t, nil
}

// Update edits a technician
func (s *TechnicianService) Update(ctx context.Context, id int64, req *models.UpdateTechnicianRequest) (*models.Technician, error) {
	t, err := s.techRepo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if req.Active != nil && !*req.Active {
		s.leaderboardCache.Invalidate()
	}
	return t, nil
}

// Deactivate soft-deletes a technician. The record and its rating history
// stay, but the technician drops off the standings and can no longer be
// assigned to links.
func (s *TechnicianService) Deactivate(ctx context.Context, id int64) error {
	if err := s.techRepo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.leaderboardCache.Invalidate()
	logger.Info("Technician deactivated", zap.Int64("technician_id", id))
	return nil
}

// AdjustPoints applies a manual admin point adjustment and returns the
// technician with the new balance
func (s *TechnicianService) AdjustPoints(ctx context.Context, technicianID, adminID int64, req *models.AdjustPointsRequest) (*models.Technician, error) {
	if _, err := s.techRepo.GetByID(ctx, technicianID); err != nil {
		return nil, err
	}

	after, err := s.pointsRepo.Adjust(ctx, technicianID, adminID, req.PointsChange, req.Reason)
	if err != nil {
		return nil, err
	}

	s.leaderboardCache.Invalidate()
	metrics.PointAdjustments.WithLabelValues(models.AdjustmentManual).Inc()
	logger.Info("Points adjusted",
		zap.Int64("technician_id", technicianID),
		zap.Int64("admin_id", adminID),
		zap.Int64("change", req.PointsChange),
		zap.Int64("balance", after))

	return s.techRepo.GetByID(ctx, technicianID)
}

// PointHistory returns the paginated ledger for one technician
func (s *TechnicianService) PointHistory(ctx context.Context, technicianID int64, limit, offset int) (*models.PointHistoryResponse, error) {
	tech, err := s.techRepo.GetByID(ctx, technicianID)
	if err != nil {
		return nil, err
	}

	if limit < 1 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	history, total, err := s.pointsRepo.History(ctx, technicianID, limit, offset)
	if err != nil {
		return nil, err
	}

	summary, err := s.pointsRepo.Summary(ctx, technicianID)
	if err != nil {
		return nil, err
	}

	return &models.PointHistoryResponse{
		TechnicianID:       tech.ID,
		TechnicianName:     tech.Name,
		CurrentTotalPoints: tech.TotalPoints,
		History:            history,
		TotalRecords:       total,
		Summary:            summary,
	}, nil
}
