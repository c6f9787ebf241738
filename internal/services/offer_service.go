package services

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"

	"smartfreelance_backend/internal/logger"
	"smartfreelance_backend/internal/models"
	"smartfreelance_backend/internal/repositories"
	"smartfreelance_backend/internal/services/dto"
	"smartfreelance_backend/pkg/apperrors"
)

type OfferService interface {
	CreateOffer(ctx context.Context, freelancerID string, req *dto.CreateOfferRequest) (*dto.OfferResponse, error)
	GetOffer(ctx context.Context, offerID, requesterID string) (*dto.OfferResponse, error)
	UpdateOffer(ctx context.Context, offerID, requesterID string, req *dto.UpdateOfferRequest) (*dto.OfferResponse, error)
	DeleteOffer(ctx context.Context, offerID, requesterID string) error
	PublishOffer(ctx context.Context, offerID, requesterID string) (*dto.OfferResponse, error)
	CloseOffer(ctx context.Context, offerID, requesterID string) (*dto.OfferResponse, error)
	GetFreelancerOffers(ctx context.Context, freelancerID, requesterID string) (*dto.OfferListResponse, error)
	GetAvailableOffers(ctx context.Context, limit int) (*dto.OfferListResponse, error)
}

type offerService struct {
	offerRepo       repositories.OfferRepository
	applicationRepo repositories.ApplicationRepository
}

func NewOfferService(
	offerRepo repositories.OfferRepository,
	applicationRepo repositories.ApplicationRepository,
) OfferService {
	return &offerService{
		offerRepo:       offerRepo,
		applicationRepo: applicationRepo,
	}
}

func (s *offerService) CreateOffer(ctx context.Context, freelancerID string, req *dto.CreateOfferRequest) (*dto.OfferResponse, error) {
	offer := &models.Offer{
		FreelancerID: freelancerID,
		Title:        req.Title,
		Domain:       req.Domain,
		Description:  req.Description,
		Price:        req.Price,
		DurationType: req.DurationType,
		Category:     req.Category,
		Deadline:     req.Deadline,
		Status:       models.OfferStatusDraft,
		IsActive:     true,
	}

	if len(req.Tags) > 0 {
		tagsJSON, err := json.Marshal(req.Tags)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		offer.Tags = datatypes.JSON(tagsJSON)
	}

	if err := s.offerRepo.Create(ctx, offer); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "offer created", "offer_id", offer.ID, "freelancer_id", freelancerID)
	return s.buildOfferResponse(ctx, offer), nil
}

func (s *offerService) GetOffer(ctx context.Context, offerID, requesterID string) (*dto.OfferResponse, error) {
	offer, err := s.findOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}

	// Views count is advisory; updated off the request path.
	if requesterID != offer.FreelancerID {
		go s.offerRepo.IncrementViews(context.Background(), offerID)
	}

	return s.buildOfferResponse(ctx, offer), nil
}

func (s *offerService) UpdateOffer(ctx context.Context, offerID, requesterID string, req *dto.UpdateOfferRequest) (*dto.OfferResponse, error) {
	offer, err := s.findOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}

	if offer.FreelancerID != requesterID {
		return nil, apperrors.ErrInsufficientPermissions
	}

	if offer.Status != models.OfferStatusDraft {
		return nil, apperrors.ErrInvalidOfferStatus
	}

	if req.Title != nil {
		offer.Title = *req.Title
	}
	if req.Domain != nil {
		offer.Domain = *req.Domain
	}
	if req.Description != nil {
		offer.Description = *req.Description
	}
	if req.Price != nil {
		offer.Price = *req.Price
	}
	if req.DurationType != nil {
		offer.DurationType = *req.DurationType
	}
	if req.Category != nil {
		offer.Category = req.Category
	}
	if req.Deadline != nil {
		offer.Deadline = req.Deadline
	}
	if req.Tags != nil {
		tagsJSON, err := json.Marshal(req.Tags)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		offer.Tags = datatypes.JSON(tagsJSON)
	}

	if err := s.offerRepo.Update(ctx, offer); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.buildOfferResponse(ctx, offer), nil
}

// DeleteOffer removes a draft. An offer with any application on record
// is never deleted, whatever its status.
func (s *offerService) DeleteOffer(ctx context.Context, offerID, requesterID string) error {
	offer, err := s.findOffer(ctx, offerID)
	if err != nil {
		return err
	}

	if offer.FreelancerID != requesterID {
		return apperrors.ErrInsufficientPermissions
	}

	if offer.Status != models.OfferStatusDraft {
		return apperrors.ErrInvalidOfferStatus
	}

	count, err := s.applicationRepo.CountByOffer(ctx, offerID)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if count > 0 {
		return apperrors.ErrOfferHasApplications
	}

	if err := s.offerRepo.Delete(ctx, offerID); err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "offer deleted", "offer_id", offerID)
	return nil
}

func (s *offerService) PublishOffer(ctx context.Context, offerID, requesterID string) (*dto.OfferResponse, error) {
	offer, err := s.findOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}

	if offer.FreelancerID != requesterID {
		return nil, apperrors.ErrInsufficientPermissions
	}

	if offer.Status != models.OfferStatusDraft {
		return nil, apperrors.ErrInvalidOfferStatus
	}

	offer.Publish()
	if err := s.offerRepo.Update(ctx, offer); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "offer published", "offer_id", offerID)
	return s.buildOfferResponse(ctx, offer), nil
}

func (s *offerService) CloseOffer(ctx context.Context, offerID, requesterID string) (*dto.OfferResponse, error) {
	offer, err := s.findOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}

	if offer.FreelancerID != requesterID {
		return nil, apperrors.ErrInsufficientPermissions
	}

	if offer.Status != models.OfferStatusAvailable {
		return nil, apperrors.ErrInvalidOfferStatus
	}

	offer.Deactivate()
	if err := s.offerRepo.Update(ctx, offer); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "offer closed", "offer_id", offerID)
	return s.buildOfferResponse(ctx, offer), nil
}

func (s *offerService) GetFreelancerOffers(ctx context.Context, freelancerID, requesterID string) (*dto.OfferListResponse, error) {
	if freelancerID != requesterID {
		return nil, apperrors.ErrInsufficientPermissions
	}

	offers, err := s.offerRepo.ListByFreelancer(ctx, freelancerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.buildOfferListResponse(ctx, offers), nil
}

func (s *offerService) GetAvailableOffers(ctx context.Context, limit int) (*dto.OfferListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	offers, err := s.offerRepo.ListAvailable(ctx, limit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.buildOfferListResponse(ctx, offers), nil
}

// --- helpers ---

func (s *offerService) findOffer(ctx context.Context, offerID string) (*models.Offer, error) {
	offer, err := s.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrOfferNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return offer, nil
}

func (s *offerService) buildOfferResponse(ctx context.Context, offer *models.Offer) *dto.OfferResponse {
	var tags []string
	if len(offer.Tags) > 0 {
		json.Unmarshal(offer.Tags, &tags)
	}

	// Denormalized, not stored: derived from the applications table.
	count, err := s.applicationRepo.CountByOffer(ctx, offer.ID)
	if err != nil {
		count = 0
	}

	return &dto.OfferResponse{
		ID:                offer.ID,
		FreelancerID:      offer.FreelancerID,
		Title:             offer.Title,
		Domain:            offer.Domain,
		Description:       offer.Description,
		Price:             offer.Price,
		DurationType:      offer.DurationType,
		Status:            string(offer.Status),
		Category:          offer.Category,
		Tags:              tags,
		Deadline:          offer.Deadline,
		Rating:            offer.Rating,
		ViewsCount:        offer.ViewsCount,
		IsActive:          offer.IsActive,
		ApplicationsCount: count,
		PublishedAt:       offer.PublishedAt,
		CreatedAt:         offer.CreatedAt,
		UpdatedAt:         offer.UpdatedAt,
	}
}

func (s *offerService) buildOfferListResponse(ctx context.Context, offers []models.Offer) *dto.OfferListResponse {
	responses := make([]dto.OfferResponse, 0, len(offers))
	for i := range offers {
		responses = append(responses, *s.buildOfferResponse(ctx, &offers[i]))
	}
	return &dto.OfferListResponse{
		Offers: responses,
		Total:  len(responses),
	}
}
