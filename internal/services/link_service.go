package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ctecg/score-api/config"
	"github.com/ctecg/score-api/internal/models"
	"github.com/ctecg/score-api/internal/repository"
	apperrors "github.com/ctecg/score-api/pkg/errors"
	"github.com/ctecg/score-api/pkg/httpclient"
	"github.com/ctecg/score-api/pkg/logger"
	"github.com/ctecg/score-api/pkg/mailer"
	"github.com/ctecg/score-api/pkg/metrics"
	"github.com/ctecg/score-api/pkg/trigger"
)

// LinkService issues and lists single-use rating links
type LinkService struct {
	linkRepo   repository.RatingLinkRepositoryInterface
	techRepo   repository.TechnicianRepositoryInterface
	mail       mailer.MailerInterface
	httpClient httpclient.Client
	config     *config.Config
}

// NewLinkService creates a new link service
func NewLinkService(linkRepo repository.RatingLinkRepositoryInterface, techRepo repository.TechnicianRepositoryInterface,
	mail mailer.MailerInterface, httpClient httpclient.Client, cfg *config.Config) *LinkService {
	return &LinkService{
		linkRepo:   linkRepo,
		techRepo:   techRepo,
		mail:       mail,
		httpClient: httpClient,
		config:     cfg,
	}
}

// Issue creates a rating link and emails it to the client. When the client
// already has a pending link it is refreshed in place instead, so a client
// never holds two live tokens at once.
func (s *LinkService) Issue(ctx context.Context, adminID int64, req *models.CreateRatingLinkRequest) (*models.RatingLinkIssueResponse, error) {
	technicians, err := s.techRepo.GetActiveByIDs(ctx, req.TechnicianIDs)
	if err != nil {
		return nil, err
	}
	if len(technicians) != len(req.TechnicianIDs) {
		return nil, apperrors.InvalidInputError("technician_ids", "one or more technicians not found or inactive")
	}

	expiresAt := time.Now().Add(time.Duration(s.config.RatingLinks.ExpiryDays) * 24 * time.Hour)

	var linkID int64
	var token, action string

	pending, err := s.linkRepo.FindPendingByClientEmail(ctx, req.ClientEmail)
	switch {
	case err == nil:
		if err := s.linkRepo.Refresh(ctx, pending.ID, expiresAt, req.TechnicianIDs); err != nil {
			return nil, err
		}
		linkID, token, action = pending.ID, pending.Token, models.LinkActionUpdated
	case apperrors.Is(err, apperrors.ErrNotFound):
		token, err = generateToken()
		if err != nil {
			return nil, err
		}
		link := &models.RatingLink{
			Token:            token,
			ClientName:       req.ClientName,
			ClientEmail:      req.ClientEmail,
			ExpiresAt:        expiresAt,
			CreatedByAdminID: adminID,
		}
		if req.ClientCode != "" {
			link.ClientCode = &req.ClientCode
		}
		if req.ClientContact != "" {
			link.ClientContact = &req.ClientContact
		}
		linkID, err = s.linkRepo.Create(ctx, link, req.TechnicianIDs)
		if err != nil {
			return nil, err
		}
		action = models.LinkActionCreated
	default:
		return nil, err
	}

	ratingURL := fmt.Sprintf("%s/rate/%s", s.config.Server.FrontendURL, token)
	s.mail.SendRatingLink(req.ClientEmail, req.ClientName, ratingURL, expiresAt.Format("2 January 2006"))
	trigger.CallAsync(s.config.Webhooks.LinkIssuedURL, strconv.FormatInt(linkID, 10), s.httpClient)

	metrics.RatingLinksIssued.WithLabelValues(action).Inc()
	logger.Info("Rating link issued",
		zap.Int64("link_id", linkID),
		zap.String("action", action),
		zap.Int64("admin_id", adminID),
		zap.Int("technicians", len(req.TechnicianIDs)))

	return &models.RatingLinkIssueResponse{
		LinkID:      linkID,
		Token:       token,
		RatingURL:   ratingURL,
		ExpiresAt:   expiresAt,
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		Action:      action,
	}, nil
}

// List returns the filtered admin listing of links
func (s *LinkService) List(ctx context.Context, filter models.RatingLinkFilter) (*models.RatingLinksPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.linkRepo.List(ctx, filter)
}
