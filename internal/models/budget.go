package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Budget is a per-category spending or income limit. At most one budget
// exists per (user, category) pair, enforced by the unique index.
type Budget struct {
	DefaultModel
	Amount     decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)" example:"450"`
	Period     string          `json:"period" example:"monthly"`
	UserID     uint64          `json:"userId" gorm:"uniqueIndex:budget_user_category" example:"4"`
	User       User            `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CategoryID uint64          `json:"categoryId" gorm:"uniqueIndex:budget_user_category" example:"2"`
	Category   Category        `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// BeforeSave defaults the period to monthly.
func (b *Budget) BeforeSave(_ *gorm.DB) (err error) {
	if b.Period == "" {
		b.Period = "monthly"
	}
	return nil
}

// BudgetByID returns the budget with the given ID if it is owned by the
// given user. Scoped like AccountByID.
func BudgetByID(db *gorm.DB, id, userID uint64) (Budget, error) {
	var budget Budget
	err := db.Where(&Budget{UserID: userID}).First(&budget, id).Error
	return budget, err
}

// BudgetsForUser returns the budgets owned by the given user.
func BudgetsForUser(db *gorm.DB, userID uint64, skip, limit int) ([]Budget, error) {
	var budgets []Budget
	err := db.Where(&Budget{UserID: userID}).Offset(skip).Limit(limit).Find(&budgets).Error
	return budgets, err
}

// CreateBudget creates the budget. A second budget for the same user and
// category is reported as ErrBudgetExists via the createUpdateCallback.
func CreateBudget(db *gorm.DB, budget *Budget) error {
	return db.Create(budget).Error
}

// DeleteBudget removes the budget.
func DeleteBudget(db *gorm.DB, budget *Budget) error {
	return db.Delete(budget).Error
}
