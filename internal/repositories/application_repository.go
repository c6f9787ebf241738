package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"smartfreelance_backend/internal/models"
)

var (
	ErrApplicationNotFound      = errors.New("application not found")
	ErrApplicationAlreadyExists = errors.New("application already exists for this offer and client")

	// ErrStaleApplication: a guarded transition found the row no longer
	// in the state the caller observed.
	ErrStaleApplication = errors.New("application status changed concurrently")
)

const uniqueViolation = "23505"

type ApplicationRepository interface {
	WithTx(tx *gorm.DB) ApplicationRepository

	Create(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, id string) (*models.Application, error)
	Update(ctx context.Context, app *models.Application) error
	Delete(ctx context.Context, id string) error
	ExistsByOfferAndClient(ctx context.Context, offerID, clientID string) (bool, error)
	ListByOffer(ctx context.Context, offerID string) ([]models.Application, error)
	ListByClient(ctx context.Context, clientID string) ([]models.Application, error)
	ListUnreadByFreelancer(ctx context.Context, freelancerID string) ([]models.Application, error)
	CountByOffer(ctx context.Context, offerID string) (int64, error)
	CountPendingByOffer(ctx context.Context, offerID string) (int64, error)

	// UpdateStatusFromPending persists a transition out of pending as a
	// compare-and-swap so two concurrent decisions on the same
	// application cannot both commit. ErrStaleApplication when the row
	// already left pending.
	UpdateStatusFromPending(ctx context.Context, app *models.Application) error

	// UpdateStatusFromWithdrawable persists the withdrawn transition
	// guarded on (pending | shortlisted).
	UpdateStatusFromWithdrawable(ctx context.Context, app *models.Application) error
}

type ApplicationRepositoryImpl struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepositoryImpl {
	return &ApplicationRepositoryImpl{db: db}
}

func (r *ApplicationRepositoryImpl) WithTx(tx *gorm.DB) ApplicationRepository {
	if tx == nil {
		return r
	}
	return &ApplicationRepositoryImpl{db: tx}
}

func (r *ApplicationRepositoryImpl) Create(ctx context.Context, app *models.Application) error {
	if app.AppliedAt.IsZero() {
		app.AppliedAt = time.Now()
	}
	err := r.db.WithContext(ctx).Create(app).Error
	if err != nil {
		if isUniqueViolation(err) {
			return ErrApplicationAlreadyExists
		}
		return err
	}
	return nil
}

func (r *ApplicationRepositoryImpl) GetByID(ctx context.Context, id string) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).First(&app, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepositoryImpl) Update(ctx context.Context, app *models.Application) error {
	return r.db.WithContext(ctx).Save(app).Error
}

func (r *ApplicationRepositoryImpl) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Application{}, "id = ?", id).Error
}

func (r *ApplicationRepositoryImpl) ExistsByOfferAndClient(ctx context.Context, offerID, clientID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("offer_id = ? AND client_id = ?", offerID, clientID).
		Count(&count).Error
	return count > 0, err
}

func (r *ApplicationRepositoryImpl) ListByOffer(ctx context.Context, offerID string) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.WithContext(ctx).
		Where("offer_id = ?", offerID).
		Order("applied_at DESC").
		Find(&apps).Error
	return apps, err
}

func (r *ApplicationRepositoryImpl) ListByClient(ctx context.Context, clientID string) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("applied_at DESC").
		Find(&apps).Error
	return apps, err
}

func (r *ApplicationRepositoryImpl) ListUnreadByFreelancer(ctx context.Context, freelancerID string) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.WithContext(ctx).
		Joins("JOIN offers ON offers.id = applications.offer_id").
		Where("offers.freelancer_id = ? AND applications.is_read = false", freelancerID).
		Order("applications.applied_at DESC").
		Find(&apps).Error
	return apps, err
}

func (r *ApplicationRepositoryImpl) CountByOffer(ctx context.Context, offerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("offer_id = ?", offerID).
		Count(&count).Error
	return count, err
}

func (r *ApplicationRepositoryImpl) CountPendingByOffer(ctx context.Context, offerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("offer_id = ? AND status = ?", offerID, models.ApplicationStatusPending).
		Count(&count).Error
	return count, err
}

func (r *ApplicationRepositoryImpl) UpdateStatusFromPending(ctx context.Context, app *models.Application) error {
	return r.updateStatusGuarded(ctx, app, []models.ApplicationStatus{models.ApplicationStatusPending})
}

func (r *ApplicationRepositoryImpl) UpdateStatusFromWithdrawable(ctx context.Context, app *models.Application) error {
	return r.updateStatusGuarded(ctx, app, []models.ApplicationStatus{
		models.ApplicationStatusPending,
		models.ApplicationStatusShortlisted,
	})
}

func (r *ApplicationRepositoryImpl) updateStatusGuarded(ctx context.Context, app *models.Application, from []models.ApplicationStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ? AND status IN ?", app.ID, from).
		Updates(map[string]interface{}{
			"status":           app.Status,
			"responded_at":     app.RespondedAt,
			"accepted_at":      app.AcceptedAt,
			"rejection_reason": app.RejectionReason,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleApplication
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	return false
}
