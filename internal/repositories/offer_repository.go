package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"smartfreelance_backend/internal/models"
)

var ErrOfferNotFound = errors.New("offer not found")

type OfferRepository interface {
	// WithTx returns a repository bound to the given transaction.
	// A nil tx returns the receiver unchanged.
	WithTx(tx *gorm.DB) OfferRepository

	Create(ctx context.Context, offer *models.Offer) error
	GetByID(ctx context.Context, id string) (*models.Offer, error)
	Update(ctx context.Context, offer *models.Offer) error
	Delete(ctx context.Context, id string) error
	ListByFreelancer(ctx context.Context, freelancerID string) ([]models.Offer, error)
	ListAvailable(ctx context.Context, limit int) ([]models.Offer, error)
	IncrementViews(ctx context.Context, id string) error

	// BeginExecution performs the guarded available -> in_progress
	// transition as a compare-and-swap on the status column. Returns
	// whether this call won the transition; false with a nil error is
	// the idempotent no-op.
	BeginExecution(ctx context.Context, id string) (bool, error)

	// ExpirePastDeadline closes out available offers whose deadline has
	// passed. Returns the number of offers expired.
	ExpirePastDeadline(ctx context.Context, now time.Time) (int64, error)
}

type OfferRepositoryImpl struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) *OfferRepositoryImpl {
	return &OfferRepositoryImpl{db: db}
}

func (r *OfferRepositoryImpl) WithTx(tx *gorm.DB) OfferRepository {
	if tx == nil {
		return r
	}
	return &OfferRepositoryImpl{db: tx}
}

func (r *OfferRepositoryImpl) Create(ctx context.Context, offer *models.Offer) error {
	return r.db.WithContext(ctx).Create(offer).Error
}

func (r *OfferRepositoryImpl) GetByID(ctx context.Context, id string) (*models.Offer, error) {
	var offer models.Offer
	err := r.db.WithContext(ctx).First(&offer, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, err
	}
	return &offer, nil
}

func (r *OfferRepositoryImpl) Update(ctx context.Context, offer *models.Offer) error {
	return r.db.WithContext(ctx).Save(offer).Error
}

func (r *OfferRepositoryImpl) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Offer{}, "id = ?", id).Error
}

func (r *OfferRepositoryImpl) ListByFreelancer(ctx context.Context, freelancerID string) ([]models.Offer, error) {
	var offers []models.Offer
	err := r.db.WithContext(ctx).
		Where("freelancer_id = ?", freelancerID).
		Order("created_at DESC").
		Find(&offers).Error
	return offers, err
}

func (r *OfferRepositoryImpl) ListAvailable(ctx context.Context, limit int) ([]models.Offer, error) {
	var offers []models.Offer
	err := r.db.WithContext(ctx).
		Where("status = ? AND is_active = true", models.OfferStatusAvailable).
		Order("created_at DESC").
		Limit(limit).
		Find(&offers).Error
	return offers, err
}

func (r *OfferRepositoryImpl) IncrementViews(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&models.Offer{}).
		Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + 1")).Error
}

func (r *OfferRepositoryImpl) BeginExecution(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Offer{}).
		Where("id = ? AND status = ?", id, models.OfferStatusAvailable).
		Updates(map[string]interface{}{
			"status":  models.OfferStatusInProgress,
			"version": gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *OfferRepositoryImpl) ExpirePastDeadline(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Offer{}).
		Where("status = ? AND deadline IS NOT NULL AND deadline < ?", models.OfferStatusAvailable, now).
		Updates(map[string]interface{}{
			"status":     models.OfferStatusExpired,
			"is_active":  false,
			"expired_at": now,
			"version":    gorm.Expr("version + 1"),
		})
	return res.RowsAffected, res.Error
}
