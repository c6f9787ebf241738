package repositories

import (
	"context"

	"gorm.io/gorm"
)

// TxRunner runs a function inside one database transaction. The saga's
// authoritative state transition (application accepted + offer claimed)
// commits through this so partial application is impossible.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type GormTxRunner struct {
	db *gorm.DB
}

func NewGormTxRunner(db *gorm.DB) *GormTxRunner {
	return &GormTxRunner{db: db}
}

func (r *GormTxRunner) RunInTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}
