package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"smartfreelance_backend/internal/clients"
	"smartfreelance_backend/internal/logger"
	"smartfreelance_backend/internal/models"
	"smartfreelance_backend/internal/repositories"
	"smartfreelance_backend/internal/services/dto"
	"smartfreelance_backend/pkg/apperrors"
)

// ContractDegradedWarning is attached to an otherwise-successful accept
// response when provisioning in the Contract service did not succeed.
const ContractDegradedWarning = "application accepted, but contract creation is delayed; the contract will be provisioned shortly"

type ApplicationService interface {
	ApplyToOffer(ctx context.Context, clientID, offerID string, req *dto.CreateApplicationRequest) (*dto.ApplicationResponse, error)
	GetApplication(ctx context.Context, applicationID, requesterID string) (*dto.ApplicationResponse, error)
	GetOfferApplications(ctx context.Context, offerID, requesterID string) (*dto.ApplicationListResponse, error)
	GetClientApplications(ctx context.Context, clientID, requesterID string) (*dto.ApplicationListResponse, error)
	GetUnreadApplications(ctx context.Context, freelancerID string) (*dto.ApplicationListResponse, error)

	// AcceptApplication runs the acceptance workflow: authorize, guard,
	// commit the application/offer transition in one transaction, then
	// provision a contract and notify outside of it.
	AcceptApplication(ctx context.Context, applicationID, freelancerID string) (*dto.AcceptApplicationResponse, error)

	RejectApplication(ctx context.Context, applicationID, freelancerID string, req *dto.RejectApplicationRequest) (*dto.ApplicationResponse, error)
	ShortlistApplication(ctx context.Context, applicationID, freelancerID string) (*dto.ApplicationResponse, error)
	WithdrawApplication(ctx context.Context, applicationID, clientID string) (*dto.ApplicationResponse, error)
	MarkApplicationAsRead(ctx context.Context, applicationID, freelancerID string) (*dto.ApplicationResponse, error)
	UpdateApplication(ctx context.Context, applicationID, clientID string, req *dto.UpdateApplicationRequest) (*dto.ApplicationResponse, error)
	DeleteApplication(ctx context.Context, applicationID, clientID string) error
}

type applicationService struct {
	applicationRepo repositories.ApplicationRepository
	offerRepo       repositories.OfferRepository
	txRunner        repositories.TxRunner
	contractClient  clients.ContractClient
	notifications   NotificationService
}

func NewApplicationService(
	applicationRepo repositories.ApplicationRepository,
	offerRepo repositories.OfferRepository,
	txRunner repositories.TxRunner,
	contractClient clients.ContractClient,
	notifications NotificationService,
) ApplicationService {
	return &applicationService{
		applicationRepo: applicationRepo,
		offerRepo:       offerRepo,
		txRunner:        txRunner,
		contractClient:  contractClient,
		notifications:   notifications,
	}
}

// ApplyToOffer creates a pending application. The existence check is
// the user-facing fast path; the unique (offer_id, client_id) index is
// what actually prevents duplicates under concurrency.
func (s *applicationService) ApplyToOffer(ctx context.Context, clientID, offerID string, req *dto.CreateApplicationRequest) (*dto.ApplicationResponse, error) {
	offer, err := s.findOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}

	if !offer.CanReceiveApplications() {
		return nil, apperrors.ErrOfferNotAvailable
	}

	if offer.FreelancerID == clientID {
		return nil, apperrors.ErrOwnOfferApplication
	}

	exists, err := s.applicationRepo.ExistsByOfferAndClient(ctx, offerID, clientID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if exists {
		return nil, apperrors.ErrApplicationAlreadyExists
	}

	app := &models.Application{
		OfferID:           offerID,
		ClientID:          clientID,
		Message:           req.Message,
		ProposedBudget:    req.ProposedBudget,
		PortfolioURL:      req.PortfolioURL,
		AttachmentURL:     req.AttachmentURL,
		EstimatedDuration: req.EstimatedDuration,
		Status:            models.ApplicationStatusPending,
		AppliedAt:         time.Now(),
	}

	if err := s.applicationRepo.Create(ctx, app); err != nil {
		if apperrors.Is(err, repositories.ErrApplicationAlreadyExists) {
			return nil, apperrors.ErrApplicationAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "application created", "application_id", app.ID, "offer_id", offerID, "client_id", clientID)

	s.notifications.NotifyNewApplication(offer.FreelancerID, offer, app)

	return buildApplicationResponse(app, offer), nil
}

func (s *applicationService) GetApplication(ctx context.Context, applicationID, requesterID string) (*dto.ApplicationResponse, error) {
	app, offer, err := s.findApplicationWithOffer(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	if requesterID != app.ClientID && requesterID != offer.FreelancerID {
		return nil, apperrors.ErrInsufficientPermissions
	}

	return buildApplicationResponse(app, offer), nil
}

func (s *applicationService) GetOfferApplications(ctx context.Context, offerID, requesterID string) (*dto.ApplicationListResponse, error) {
	offer, err := s.findOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}

	if offer.FreelancerID != requesterID {
		return nil, apperrors.ErrInsufficientPermissions
	}

	apps, err := s.applicationRepo.ListByOffer(ctx, offerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return buildApplicationListResponse(apps, offer), nil
}

func (s *applicationService) GetClientApplications(ctx context.Context, clientID, requesterID string) (*dto.ApplicationListResponse, error) {
	if clientID != requesterID {
		return nil, apperrors.ErrInsufficientPermissions
	}

	apps, err := s.applicationRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return buildApplicationListResponse(apps, nil), nil
}

func (s *applicationService) GetUnreadApplications(ctx context.Context, freelancerID string) (*dto.ApplicationListResponse, error) {
	apps, err := s.applicationRepo.ListUnreadByFreelancer(ctx, freelancerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return buildApplicationListResponse(apps, nil), nil
}

// AcceptApplication is the cross-service acceptance workflow.
//
// Steps 1-3 validate and mutate nothing. Steps 4-5 commit the
// application's accepted status together with the offer's guarded
// available -> in_progress transition in one transaction: that pair is
// the marketplace's source of truth for "this application was
// accepted" and must not be partially applied. Contract provisioning
// and the client notification run after the commit; neither can undo
// it. Provisioning failure degrades the response instead of failing it.
func (s *applicationService) AcceptApplication(ctx context.Context, applicationID, freelancerID string) (*dto.AcceptApplicationResponse, error) {
	app, offer, err := s.findApplicationWithOffer(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	if offer.FreelancerID != freelancerID {
		return nil, apperrors.ErrInsufficientPermissions
	}

	if app.Status != models.ApplicationStatusPending {
		return nil, apperrors.ErrApplicationNotPending
	}

	app.Accept()

	err = s.txRunner.RunInTx(ctx, func(tx *gorm.DB) error {
		if err := s.applicationRepo.WithTx(tx).UpdateStatusFromPending(ctx, app); err != nil {
			return err
		}

		// Only the first accepted application on this offer wins the
		// transition; losing is the documented idempotent no-op.
		if _, err := s.offerRepo.WithTx(tx).BeginExecution(ctx, offer.ID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if apperrors.Is(err, repositories.ErrStaleApplication) {
			return nil, apperrors.ErrApplicationNotPending
		}
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "application accepted", "application_id", app.ID, "offer_id", offer.ID)

	result := &dto.AcceptApplicationResponse{
		Application: *buildApplicationResponse(app, offer),
	}

	// Step 7 runs outside the transaction and outside the caller's
	// cancellation: once the local state is durable there is no
	// mid-flight abort, only the client's own bounded timeout.
	contractID, provisionErr := s.provisionContract(app, offer)
	if provisionErr != nil {
		logger.CtxWarn(ctx, "contract provisioning degraded",
			"application_id", app.ID,
			"error", provisionErr.Error(),
		)
		result.Warning = ContractDegradedWarning
	} else {
		result.ContractID = &contractID
	}

	// Step 8: isolated side effect, same outcome whether or not
	// provisioning succeeded.
	s.notifications.NotifyApplicationAccepted(app.ClientID, offer, app)

	return result, nil
}

func (s *applicationService) RejectApplication(ctx context.Context, applicationID, freelancerID string, req *dto.RejectApplicationRequest) (*dto.ApplicationResponse, error) {
	app, offer, err := s.findApplicationWithOffer(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	if offer.FreelancerID != freelancerID {
		return nil, apperrors.ErrInsufficientPermissions
	}

	if app.Status != models.ApplicationStatusPending {
		return nil, apperrors.ErrApplicationNotPending
	}

	app.Reject(req.Reason)
	if err := s.applicationRepo.UpdateStatusFromPending(ctx, app); err != nil {
		if apperrors.Is(err, repositories.ErrStaleApplication) {
			return nil, apperrors.ErrApplicationNotPending
		}
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "application rejected", "application_id", app.ID)

	s.notifications.NotifyApplicationRejected(app.ClientID, offer, app)

	return buildApplicationResponse(app, offer), nil
}

func (s *applicationService) ShortlistApplication(ctx context.Context, applicationID, freelancerID string) (*dto.ApplicationResponse, error) {
	app, offer, err := s.findApplicationWithOffer(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	if offer.FreelancerID != freelancerID {
		return nil, apperrors.ErrInsufficientPermissions
	}

	if app.Status != models.ApplicationStatusPending {
		return nil, apperrors.ErrApplicationNotPending
	}

	app.Status = models.ApplicationStatusShortlisted
	if err := s.applicationRepo.UpdateStatusFromPending(ctx, app); err != nil {
		if apperrors.Is(err, repositories.ErrStaleApplication) {
			return nil, apperrors.ErrApplicationNotPending
		}
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "application shortlisted", "application_id", app.ID)

	s.notifications.NotifyApplicationShortlisted(app.ClientID, offer, app)

	return buildApplicationResponse(app, offer), nil
}

func (s *applicationService) WithdrawApplication(ctx context.Context, applicationID, clientID string) (*dto.ApplicationResponse, error) {
	app, offer, err := s.findApplicationWithOffer(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	if app.ClientID != clientID {
		return nil, apperrors.ErrInsufficientPermissions
	}

	if !app.CanBeWithdrawn() {
		return nil, apperrors.ErrApplicationNotWithdrawable
	}

	app.Status = models.ApplicationStatusWithdrawn
	if err := s.applicationRepo.UpdateStatusFromWithdrawable(ctx, app); err != nil {
		if apperrors.Is(err, repositories.ErrStaleApplication) {
			return nil, apperrors.ErrApplicationNotWithdrawable
		}
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "application withdrawn", "application_id", app.ID)

	return buildApplicationResponse(app, offer), nil
}

func (s *applicationService) MarkApplicationAsRead(ctx context.Context, applicationID, freelancerID string) (*dto.ApplicationResponse, error) {
	app, offer, err := s.findApplicationWithOffer(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	if offer.FreelancerID != freelancerID {
		return nil, apperrors.ErrInsufficientPermissions
	}

	app.MarkAsRead()
	if err := s.applicationRepo.Update(ctx, app); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return buildApplicationResponse(app, offer), nil
}

func (s *applicationService) UpdateApplication(ctx context.Context, applicationID, clientID string, req *dto.UpdateApplicationRequest) (*dto.ApplicationResponse, error) {
	app, offer, err := s.findApplicationWithOffer(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	if app.ClientID != clientID {
		return nil, apperrors.ErrInsufficientPermissions
	}

	if !app.CanBeModified() {
		return nil, apperrors.ErrApplicationNotPending
	}

	if req.Message != nil {
		app.Message = *req.Message
	}
	if req.ProposedBudget != nil {
		app.ProposedBudget = req.ProposedBudget
	}
	if req.PortfolioURL != nil {
		app.PortfolioURL = req.PortfolioURL
	}
	if req.AttachmentURL != nil {
		app.AttachmentURL = req.AttachmentURL
	}
	if req.EstimatedDuration != nil {
		app.EstimatedDuration = req.EstimatedDuration
	}

	if err := s.applicationRepo.Update(ctx, app); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return buildApplicationResponse(app, offer), nil
}

func (s *applicationService) DeleteApplication(ctx context.Context, applicationID, clientID string) error {
	app, _, err := s.findApplicationWithOffer(ctx, applicationID)
	if err != nil {
		return err
	}

	if app.ClientID != clientID {
		return apperrors.ErrInsufficientPermissions
	}

	if app.Status == models.ApplicationStatusAccepted {
		return apperrors.ErrApplicationAccepted
	}

	if err := s.applicationRepo.Delete(ctx, applicationID); err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "application deleted", "application_id", applicationID)
	return nil
}

// --- helpers ---

// provisionContract builds the cross-service request and makes a
// single, bounded attempt against the Contract service.
func (s *applicationService) provisionContract(app *models.Application, offer *models.Offer) (string, error) {
	amount := offer.Price
	if app.ProposedBudget != nil {
		amount = *app.ProposedBudget
	}

	var endDate *string
	if offer.Deadline != nil {
		d := offer.Deadline.Format("2006-01-02")
		endDate = &d
	}

	req := &clients.ContractCreateRequest{
		ClientID:      app.ClientID,
		FreelancerID:  offer.FreelancerID,
		ApplicationID: app.ID,
		Title:         offer.Title,
		Description:   offer.Description,
		Terms:         fmt.Sprintf("Contract from offer: %s", offer.Title),
		Amount:        amount,
		StartDate:     time.Now().Format("2006-01-02"),
		EndDate:       endDate,
		Status:        "DRAFT",
	}

	return s.contractClient.CreateContractFromAcceptedApplication(context.Background(), req)
}

func (s *applicationService) findOffer(ctx context.Context, offerID string) (*models.Offer, error) {
	offer, err := s.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrOfferNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return offer, nil
}

func (s *applicationService) findApplicationWithOffer(ctx context.Context, applicationID string) (*models.Application, *models.Offer, error) {
	app, err := s.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, nil, apperrors.ErrNotFound(err)
		}
		return nil, nil, apperrors.InternalError(err)
	}

	offer, err := s.findOffer(ctx, app.OfferID)
	if err != nil {
		return nil, nil, err
	}

	return app, offer, nil
}

func buildApplicationResponse(app *models.Application, offer *models.Offer) *dto.ApplicationResponse {
	resp := &dto.ApplicationResponse{
		ID:                app.ID,
		OfferID:           app.OfferID,
		ClientID:          app.ClientID,
		Message:           app.Message,
		ProposedBudget:    app.ProposedBudget,
		PortfolioURL:      app.PortfolioURL,
		AttachmentURL:     app.AttachmentURL,
		EstimatedDuration: app.EstimatedDuration,
		Status:            string(app.Status),
		RejectionReason:   app.RejectionReason,
		IsRead:            app.IsRead,
		CanBeModified:     app.CanBeModified(),
		AppliedAt:         app.AppliedAt,
		RespondedAt:       app.RespondedAt,
		AcceptedAt:        app.AcceptedAt,
	}
	if offer != nil {
		resp.OfferTitle = offer.Title
	}
	return resp
}

func buildApplicationListResponse(apps []models.Application, offer *models.Offer) *dto.ApplicationListResponse {
	responses := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		responses = append(responses, *buildApplicationResponse(&apps[i], offer))
	}
	return &dto.ApplicationListResponse{
		Applications: responses,
		Total:        len(responses),
	}
}
