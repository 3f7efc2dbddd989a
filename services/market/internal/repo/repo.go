package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"
)

type GormRepo struct {
	DB *gorm.DB
}

var (
	ErrCartEmpty       = errors.New("cart is empty")
	ErrReceiptExists   = errors.New("receipt already exists")
	ErrFavoriteExists  = errors.New("product already in favorites")
	ErrStoreNotFound   = errors.New("store not found")
	ErrProductNotFound = errors.New("product not found")
	ErrQuantityLimit   = errors.New("quantity limit exceeded")
)

var forUpdate = clause.Locking{Strength: "UPDATE"}

// primary pins reads to the write database. Reads that must see the
// caller's own earlier writes go through it, replicas may lag.
func (r *GormRepo) primary(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).Clauses(dbresolver.Write)
}

// isUniqueViolation reports duplicate-key errors. TranslateError covers
// postgres and sqlite, the message check is for drivers that do not translate.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "sqlstate 23505")
}
