package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/ctecg/score-api/internal/models"
	"github.com/ctecg/score-api/internal/repository"
	"github.com/ctecg/score-api/pkg/logger"
)

// QuestionService manages the survey question set
type QuestionService struct {
	questionRepo repository.QuestionRepositoryInterface
}

// NewQuestionService creates a new question service
func NewQuestionService(questionRepo repository.QuestionRepositoryInterface) *QuestionService {
	return &QuestionService{questionRepo: questionRepo}
}

// ListActive returns the active questions in form order
func (s *QuestionService) ListActive(ctx context.Context) ([]*models.Question, error) {
	return s.questionRepo.GetActive(ctx)
}

// ListInactive returns deactivated questions
func (s *QuestionService) ListInactive(ctx context.Context) ([]*models.Question, error) {
	return s.questionRepo.GetInactive(ctx)
}

// Create adds a survey question
func (s *QuestionService) Create(ctx context.Context, req *models.CreateQuestionRequest) (*models.Question, error) {
	q, err := s.questionRepo.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	logger.Info("Question created", zap.Int64("question_id", q.ID))
	return q, nil
}

// Update edits a question
func (s *QuestionService) Update(ctx context.Context, id int64, req *models.UpdateQuestionRequest) (*models.Question, error) {
	return s.questionRepo.Update(ctx, id, req)
}

// Delete removes a question outright when nothing references it. A question
// with recorded answers is only deactivated, so historical ratings keep
// their per-question breakdown.
func (s *QuestionService) Delete(ctx context.Context, id int64) (*models.DeleteQuestionResponse, error) {
	if _, err := s.questionRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	count, err := s.questionRepo.CountAnswers(ctx, id)
	if err != nil {
		return nil, err
	}

	if count > 0 {
		if err := s.questionRepo.Deactivate(ctx, id); err != nil {
			return nil, err
		}
		logger.Info("Question deactivated",
			zap.Int64("question_id", id),
			zap.Int64("ratings_count", count))
		return &models.DeleteQuestionResponse{ActionTaken: models.QuestionDeactivated, RatingsCount: count}, nil
	}

	if err := s.questionRepo.Delete(ctx, id); err != nil {
		return nil, err
	}
	logger.Info("Question deleted", zap.Int64("question_id", id))
	return &models.DeleteQuestionResponse{ActionTaken: models.QuestionDeleted}, nil
}
