package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/ctecg/score-api/config"
	"github.com/ctecg/score-api/internal/models"
	"github.com/ctecg/score-api/internal/services"
	apperrors "github.com/ctecg/score-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newLinkService(t *testing.T) (*services.LinkService, *MockRatingLinkRepository, *MockTechnicianRepository, *MockMailer) {
	t.Helper()
	linkRepo := new(MockRatingLinkRepository)
	techRepo := new(MockTechnicianRepository)
	mail := new(MockMailer)

	cfg := &config.Config{}
	cfg.Server.FrontendURL = "https://score.example.com"
	cfg.RatingLinks.ExpiryDays = 7

	return services.NewLinkService(linkRepo, techRepo, mail, new(MockHTTPClient), cfg), linkRepo, techRepo, mail
}

func issueRequest() *models.CreateRatingLinkRequest {
	return &models.CreateRatingLinkRequest{
		TechnicianIDs: []int64{7},
		ClientName:    "Jane Client",
		ClientEmail:   "jane@example.com",
	}
}

func TestLinkService_Issue_CreatesNewLink(t *testing.T) {
	svc, linkRepo, techRepo, mail := newLinkService(t)
	ctx := context.Background()

	techRepo.On("GetActiveByIDs", ctx, []int64{7}).Return([]*models.Technician{{ID: 7, Name: "Sipho"}}, nil).Once()
	linkRepo.On("FindPendingByClientEmail", ctx, "jane@example.com").Return(nil, apperrors.NotFoundError("rating link")).Once()
	linkRepo.On("Create", ctx, mock.MatchedBy(func(link *models.RatingLink) bool {
		return link.ClientEmail == "jane@example.com" &&
			link.Token != "" &&
			link.CreatedByAdminID == 1 &&
			link.ExpiresAt.After(time.Now().Add(6*24*time.Hour))
	}), []int64{7}).Return(int64(42), nil).Once()
	mail.On("SendRatingLink", "jane@example.com", "Jane Client", mock.AnythingOfType("string"), mock.AnythingOfType("string")).Return().Once()

	resp, err := svc.Issue(ctx, 1, issueRequest())
	assert.NoError(t, err)
	assert.Equal(t, int64(42), resp.LinkID)
	assert.Equal(t, models.LinkActionCreated, resp.Action)
	assert.Contains(t, resp.RatingURL, "https://score.example.com/rate/")
	assert.Contains(t, resp.RatingURL, resp.Token)
	linkRepo.AssertExpectations(t)
	mail.AssertExpectations(t)
}

func TestLinkService_Issue_RefreshesPendingLink(t *testing.T) {
	svc, linkRepo, techRepo, mail := newLinkService(t)
	ctx := context.Background()

	pending := &models.RatingLink{ID: 42, Token: "existing-token", ClientEmail: "jane@example.com"}
	techRepo.On("GetActiveByIDs", ctx, []int64{7}).Return([]*models.Technician{{ID: 7, Name: "Sipho"}}, nil).Once()
	linkRepo.On("FindPendingByClientEmail", ctx, "jane@example.com").Return(pending, nil).Once()
	linkRepo.On("Refresh", ctx, int64(42), mock.AnythingOfType("time.Time"), []int64{7}).Return(nil).Once()
	mail.On("SendRatingLink", "jane@example.com", "Jane Client", mock.AnythingOfType("string"), mock.AnythingOfType("string")).Return().Once()

	resp, err := svc.Issue(ctx, 1, issueRequest())
	assert.NoError(t, err)
	assert.Equal(t, int64(42), resp.LinkID)
	assert.Equal(t, "existing-token", resp.Token)
	assert.Equal(t, models.LinkActionUpdated, resp.Action)
	linkRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	linkRepo.AssertExpectations(t)
}

func TestLinkService_Issue_UnknownTechnician(t *testing.T) {
	svc, linkRepo, techRepo, _ := newLinkService(t)
	ctx := context.Background()

	req := issueRequest()
	req.TechnicianIDs = []int64{7, 99}
	techRepo.On("GetActiveByIDs", ctx, []int64{7, 99}).Return([]*models.Technician{{ID: 7, Name: "Sipho"}}, nil).Once()

	resp, err := svc.Issue(ctx, 1, req)
	assert.Nil(t, resp)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	linkRepo.AssertNotCalled(t, "FindPendingByClientEmail", mock.Anything, mock.Anything)
}

func TestLinkService_List_NormalizesPaging(t *testing.T) {
	svc, linkRepo, _, _ := newLinkService(t)
	ctx := context.Background()

	page := &models.RatingLinksPage{}
	linkRepo.On("List", ctx, mock.MatchedBy(func(f models.RatingLinkFilter) bool {
		return f.Page == 1 && f.Limit == 20
	})).Return(page, nil).Once()

	got, err := svc.List(ctx, models.RatingLinkFilter{})
	assert.NoError(t, err)
	assert.Equal(t, page, got)
	linkRepo.AssertExpectations(t)
}
