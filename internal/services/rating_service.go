package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ctecg/score-api/config"
	"github.com/ctecg/score-api/internal/cache"
	"github.com/ctecg/score-api/internal/models"
	"github.com/ctecg/score-api/internal/repository"
	apperrors "github.com/ctecg/score-api/pkg/errors"
	"github.com/ctecg/score-api/pkg/httpclient"
	"github.com/ctecg/score-api/pkg/logger"
	"github.com/ctecg/score-api/pkg/metrics"
	"github.com/ctecg/score-api/pkg/recaptcha"
	"github.com/ctecg/score-api/pkg/trigger"
)

var ErrCaptchaFailed = errors.New("captcha verification failed")

// RatingService handles the public rating flow and admin rating management
type RatingService struct {
	ratingRepo        repository.RatingRepositoryInterface
	linkRepo          repository.RatingLinkRepositoryInterface
	questionRepo      repository.QuestionRepositoryInterface
	settingsRepo      repository.SettingsRepositoryInterface
	leaderboardCache  cache.LeaderboardCacheInterface
	recaptchaVerifier *recaptcha.Verifier
	httpClient        httpclient.Client
	config            *config.Config
}

// NewRatingService creates a new rating service
func NewRatingService(ratingRepo repository.RatingRepositoryInterface, linkRepo repository.RatingLinkRepositoryInterface,
	questionRepo repository.QuestionRepositoryInterface, settingsRepo repository.SettingsRepositoryInterface,
	leaderboardCache cache.LeaderboardCacheInterface, httpClient httpclient.Client, cfg *config.Config) *RatingService {
	return &RatingService{
		ratingRepo:        ratingRepo,
		linkRepo:          linkRepo,
		questionRepo:      questionRepo,
		settingsRepo:      settingsRepo,
		leaderboardCache:  leaderboardCache,
		recaptchaVerifier: recaptcha.NewVerifier(cfg.ReCAPTCHA.SecretKey, httpClient),
		httpClient:        httpClient,
		config:            cfg,
	}
}

// usableLink resolves a token to a link that can still accept a submission.
// Unknown tokens map to ErrNotFound, used or expired ones to ErrGone.
func (s *RatingService) usableLink(ctx context.Context, token string) (*models.RatingLink, error) {
	link, err := s.linkRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if link.Used {
		return nil, apperrors.GoneError("rating link already used")
	}
	if time.Now().After(link.ExpiresAt) {
		return nil, apperrors.GoneError("rating link expired")
	}
	return link, nil
}

// GetForm returns everything the public rating form needs for one token
func (s *RatingService) GetForm(ctx context.Context, token string) (*models.RatingFormData, error) {
	link, err := s.usableLink(ctx, token)
	if err != nil {
		metrics.RatingFormLoads.WithLabelValues("rejected").Inc()
		return nil, err
	}

	technicians, err := s.linkRepo.GetTechnicians(ctx, link.ID)
	if err != nil {
		return nil, err
	}

	questions, err := s.questionRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	scoring, err := s.settingsRepo.Scoring(ctx)
	if err != nil {
		return nil, err
	}

	form := &models.RatingFormData{
		ClientInfo: models.ClientInfo{
			Name:  link.ClientName,
			Code:  link.ClientCode,
			Email: link.ClientEmail,
		},
		Technicians:  technicians,
		Questions:    make([]models.PublicQuestion, 0, len(questions)),
		ExpiresAt:    link.ExpiresAt,
		Instructions: scoring.Instructions,
	}
	if link.ClientContact != nil {
		form.ClientInfo.Contact = *link.ClientContact
	}
	for _, q := range questions {
		form.Questions = append(form.Questions, models.PublicQuestion{ID: q.ID, Text: q.Text})
	}

	metrics.RatingFormLoads.WithLabelValues("served").Inc()
	return form, nil
}

// Status answers the lightweight public probe for a token
func (s *RatingService) Status(ctx context.Context, token string) (*models.LinkStatusResponse, error) {
	link, err := s.linkRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return &models.LinkStatusResponse{
		Used:      link.Used,
		Expired:   time.Now().After(link.ExpiresAt),
		ExpiresAt: link.ExpiresAt,
	}, nil
}

// validateAnswers checks the submission against the active question set.
// Every active question must be answered exactly, unknown question ids are
// rejected, and each score must be 1..5.
func validateAnswers(questions []*models.Question, answers map[string]int) ([]models.QuestionAnswer, error) {
	known := make(map[int64]bool, len(questions))
	for _, q := range questions {
		known[q.ID] = true
	}

	parsed := make([]models.QuestionAnswer, 0, len(answers))
	for key, score := range answers {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil || !known[id] {
			return nil, apperrors.InvalidInputError("answers", fmt.Sprintf("unknown question id %q", key))
		}
		if score < 1 || score > 5 {
			return nil, apperrors.InvalidInputError("answers", fmt.Sprintf("score for question %d must be between 1 and 5", id))
		}
		parsed = append(parsed, models.QuestionAnswer{QuestionID: id, Score: score})
	}

	if len(parsed) != len(questions) {
		return nil, apperrors.InvalidInputError("answers", "every question must be answered")
	}

	return parsed, nil
}

// Submit scores and persists a public submission, consuming the link.
// Scoring: total is the sum of answers, max is 5 per question, percentage
// is total/max rounded to two decimals. At or above the pass threshold the
// technicians gain points_good each, below it they lose points_bad.
func (s *RatingService) Submit(ctx context.Context, token string, req *models.SubmitRatingRequest) (*models.SubmitRatingResponse, error) {
	if s.recaptchaVerifier.Enabled() {
		if err := s.recaptchaVerifier.Verify(req.RecaptchaToken); err != nil {
			metrics.RatingSubmissions.WithLabelValues("captcha_failed").Inc()
			logger.Warn("Captcha verification failed for rating submission", zap.Error(err))
			return nil, ErrCaptchaFailed
		}
	}

	link, err := s.usableLink(ctx, token)
	if err != nil {
		metrics.RatingSubmissions.WithLabelValues("rejected").Inc()
		return nil, err
	}

	questions, err := s.questionRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, apperrors.InternalError("no active questions configured")
	}

	answers, err := validateAnswers(questions, req.Answers)
	if err != nil {
		metrics.RatingSubmissions.WithLabelValues("invalid").Inc()
		return nil, err
	}

	totalScore := 0
	for _, a := range answers {
		totalScore += a.Score
	}
	maxScore := 5 * len(questions)
	percentage := math.Round(float64(totalScore)/float64(maxScore)*100*100) / 100

	scoring, err := s.settingsRepo.Scoring(ctx)
	if err != nil {
		return nil, err
	}

	points := scoring.PointsGood
	if percentage < scoring.PassPercentage {
		points = -scoring.PointsBad
	}

	technicians, err := s.linkRepo.GetTechnicians(ctx, link.ID)
	if err != nil {
		return nil, err
	}

	ratingID, err := s.ratingRepo.Submit(ctx, &repository.RatingSubmission{
		LinkID:        link.ID,
		TotalScore:    totalScore,
		MaxScore:      maxScore,
		Percentage:    percentage,
		PointsAuto:    points,
		Comments:      req.Comments,
		Answers:       answers,
		TechnicianIDs: technicianIDs(technicians),
		AwardReason:   fmt.Sprintf("Rating from %s (%.2f%%)", link.ClientName, percentage),
	})
	if err != nil {
		if apperrors.Is(err, apperrors.ErrConflict) {
			metrics.RatingSubmissions.WithLabelValues("duplicate").Inc()
		} else {
			metrics.RatingSubmissions.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	s.leaderboardCache.Invalidate()
	trigger.CallAsync(s.config.Webhooks.RatingSubmittedURL, strconv.FormatInt(ratingID, 10), s.httpClient)

	metrics.RatingSubmissions.WithLabelValues("success").Inc()
	logger.Info("Rating submitted",
		zap.Int64("rating_id", ratingID),
		zap.Int64("link_id", link.ID),
		zap.Float64("percentage", percentage),
		zap.Int("points", points))

	names := make([]string, 0, len(technicians))
	for _, t := range technicians {
		names = append(names, t.Name)
	}

	return &models.SubmitRatingResponse{
		RatingID:        strconv.FormatInt(ratingID, 10),
		TotalScore:      totalScore,
		MaxScore:        maxScore,
		Percentage:      percentage,
		PointsAwarded:   points,
		Technicians:     names,
		ThankYouMessage: scoring.ThankYouMessage,
	}, nil
}

func technicianIDs(technicians []models.TechnicianSimple) []int64 {
	ids := make([]int64, 0, len(technicians))
	for _, t := range technicians {
		ids = append(ids, t.ID)
	}
	return ids
}

// ListRatings returns the filtered admin listing
func (s *RatingService) ListRatings(ctx context.Context, filter models.RatingFilter) (*models.RatingsPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.ratingRepo.List(ctx, filter)
}

// GetRating returns one rating with its per-question answers
func (s *RatingService) GetRating(ctx context.Context, id int64) (*models.Rating, []models.QuestionAnswer, error) {
	rating, err := s.ratingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	answers, err := s.ratingRepo.GetAnswers(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return rating, answers, nil
}

// OverrideRating applies an admin point override and returns the updated
// rating
func (s *RatingService) OverrideRating(ctx context.Context, ratingID, adminID int64, req *models.OverrideRatingRequest) (*models.Rating, error) {
	if err := s.ratingRepo.Override(ctx, ratingID, adminID, *req.PointsAwardedFinal, req.AdminOverrideReason); err != nil {
		return nil, err
	}

	s.leaderboardCache.Invalidate()
	metrics.PointAdjustments.WithLabelValues(models.AdjustmentRatingOverride).Inc()
	logger.Info("Rating override applied",
		zap.Int64("rating_id", ratingID),
		zap.Int64("admin_id", adminID),
		zap.Int("points_final", *req.PointsAwardedFinal))

	return s.ratingRepo.GetByID(ctx, ratingID)
}
