package repo

import (
	"context"

	"gorm.io/gorm"
)

type GormRepo struct {
	DB *gorm.DB
}

// InTx runs fn against a transaction-scoped repo. The rotation guard uses it
// to make its check-then-act sequence atomic: two concurrent refreshes of the
// same token must not both succeed.
func (r *GormRepo) InTx(ctx context.Context, fn func(tx *GormRepo) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepo{DB: tx})
	})
}
