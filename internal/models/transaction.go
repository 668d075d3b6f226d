package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionType is the direction of a transaction's effect on the
// account balance.
//
// swagger:enum TransactionType
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Valid reports whether the type is one of the allowed values.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Reverse returns the opposite type. Applying the same amount with the
// reversed type undoes a previously applied delta.
func (t TransactionType) Reverse() TransactionType {
	if t == TypeIncome {
		return TypeExpense
	}
	return TypeIncome
}

// Transaction is a single ledger event. While it exists it contributes
// exactly one signed delta to exactly one account's balance.
type Transaction struct {
	DefaultModel
	Amount      decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)" example:"14.03"`
	Type        TransactionType `json:"type" example:"expense"`
	Description string          `json:"description" example:"Lunch"`
	Date        time.Time       `json:"date" example:"2024-11-02T00:00:00Z"`
	UserID      uint64          `json:"userId" example:"4"`
	User        User            `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	AccountID   uint64          `json:"accountId" example:"7"`
	Account     Account         `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CategoryID  *uint64         `json:"categoryId" example:"2"`
	Category    Category        `json:"-" gorm:"constraint:OnDelete:SET NULL"`
}

// BeforeSave validates the fields the ledger depends on and sets the
// timezone for the date to UTC.
func (t *Transaction) BeforeSave(_ *gorm.DB) (err error) {
	t.Description = strings.TrimSpace(t.Description)

	if !t.Type.Valid() {
		return ErrTransactionTypeInvalid
	}

	if !t.Amount.IsPositive() {
		return ErrAmountNotPositive
	}

	if t.Date.IsZero() {
		t.Date = time.Now().In(time.UTC)
	} else {
		t.Date = t.Date.In(time.UTC)
	}

	return nil
}

// AfterFind enforces UTC on the date, see DefaultModel.AfterFind.
func (t *Transaction) AfterFind(tx *gorm.DB) (err error) {
	err = t.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	t.Date = t.Date.In(time.UTC)
	return nil
}

// TransactionByID returns the transaction with the given ID if it is
// owned by the given user. Scoped like AccountByID.
func TransactionByID(db *gorm.DB, id, userID uint64) (Transaction, error) {
	var transaction Transaction
	err := db.Where(&Transaction{UserID: userID}).First(&transaction, id).Error
	return transaction, err
}

// CreateTransaction inserts the transaction row and applies its delta to
// the referenced account as one atomic unit. On any failure neither the
// row nor the balance change persists.
func CreateTransaction(db *gorm.DB, transaction *Transaction) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return err
		}

		return adjustBalance(tx, transaction.AccountID, transaction.Amount, transaction.Type)
	})
}

// TransactionUpdate is a partial field set for an update. Nil fields are
// left unchanged.
type TransactionUpdate struct {
	Amount      *decimal.Decimal
	Type        *TransactionType
	Description *string
	Date        *time.Time
	AccountID   *uint64
	CategoryID  *uint64
	CategorySet bool // CategoryID is only applied when this is true, so it can be cleared with nil
}

// UpdateTransaction applies the partial update to the transaction row
// and reconciles account balances in the same atomic unit:
//
//   - account moved: reverse the old delta on the old account, apply the
//     new delta on the new account
//   - amount or type changed on the same account: reverse the old delta,
//     apply the new one
//   - no balance-relevant change: no adjustment
//
// Setting the account to the value it already has counts as unchanged.
func UpdateTransaction(db *gorm.DB, transaction *Transaction, update TransactionUpdate) error {
	oldAmount := transaction.Amount
	oldType := transaction.Type
	oldAccountID := transaction.AccountID

	if update.Amount != nil {
		transaction.Amount = *update.Amount
	}
	if update.Type != nil {
		transaction.Type = *update.Type
	}
	if update.Description != nil {
		transaction.Description = *update.Description
	}
	if update.Date != nil {
		transaction.Date = *update.Date
	}
	if update.AccountID != nil {
		transaction.AccountID = *update.AccountID
	}
	if update.CategorySet {
		transaction.CategoryID = update.CategoryID
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(transaction).Error; err != nil {
			return err
		}

		switch {
		case transaction.AccountID != oldAccountID:
			if err := adjustBalance(tx, oldAccountID, oldAmount, oldType.Reverse()); err != nil {
				return err
			}
			return adjustBalance(tx, transaction.AccountID, transaction.Amount, transaction.Type)

		case !transaction.Amount.Equal(oldAmount) || transaction.Type != oldType:
			if err := adjustBalance(tx, transaction.AccountID, oldAmount, oldType.Reverse()); err != nil {
				return err
			}
			return adjustBalance(tx, transaction.AccountID, transaction.Amount, transaction.Type)
		}

		return nil
	})
}

// DeleteTransaction reverses the transaction's current effect on its
// account and removes the row, atomically.
func DeleteTransaction(db *gorm.DB, transaction *Transaction) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := adjustBalance(tx,
			transaction.AccountID, transaction.Amount, transaction.Type.Reverse()); err != nil {
			return err
		}

		return tx.Delete(transaction).Error
	})
}
