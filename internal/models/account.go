package models

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Account is a money container owned by exactly one user.
//
// Balance is stored redundantly for read performance and is kept
// consistent with the account's transactions by the balance adjustment
// in this file. It must never be written anywhere else.
type Account struct {
	DefaultModel
	Name    string          `json:"name" example:"Checking"`
	Balance decimal.Decimal `json:"balance" gorm:"type:DECIMAL(20,8)" example:"2735.17"`
	UserID  uint64          `json:"userId" example:"4"`
	User    User            `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// AccountByID returns the account with the given ID if it is owned by
// the given user.
//
// The lookup is scoped by the owner in the same query so that an account
// owned by another user is indistinguishable from a missing one.
func AccountByID(db *gorm.DB, id, userID uint64) (Account, error) {
	var account Account
	err := db.Where(&Account{UserID: userID}).First(&account, id).Error
	return account, err
}

// AccountsForUser returns the accounts owned by the given user.
func AccountsForUser(db *gorm.DB, userID uint64, skip, limit int) ([]Account, error) {
	var accounts []Account
	err := db.Where(&Account{UserID: userID}).Offset(skip).Limit(limit).Find(&accounts).Error
	return accounts, err
}

// CreateAccount creates the account.
func CreateAccount(db *gorm.DB, account *Account) error {
	return db.Create(account).Error
}

// DeleteAccount removes the account. Its transactions are removed by the
// database's cascading delete, the balance disappears with the account
// so no reversal happens.
func DeleteAccount(db *gorm.DB, account *Account) error {
	return db.Delete(account).Error
}

// adjustBalance applies the delta of a transaction effect to the
// account's stored balance: income adds the amount, expense subtracts
// it.
//
// It must only be called inside the same storage transaction that writes
// the causing transaction row, so that the read-modify-write of the
// balance and the row write commit or roll back together.
func adjustBalance(tx *gorm.DB, accountID uint64, amount decimal.Decimal, transactionType TransactionType) error {
	var account Account
	err := tx.First(&account, accountID).Error
	if err != nil {
		if IsNotFound(err) {
			return ErrAccountNotFound
		}
		return err
	}

	switch transactionType {
	case TypeIncome:
		account.Balance = account.Balance.Add(amount)
	case TypeExpense:
		account.Balance = account.Balance.Sub(amount)
	default:
		// Unreachable with validated input, see Transaction.BeforeSave.
		return fmt.Errorf("%w, got %q", ErrTransactionTypeInvalid, transactionType)
	}

	return tx.Model(&account).Update("balance", account.Balance).Error
}

// BalanceFromTransactions recomputes the balance from the account's
// transactions. Used to verify the stored balance in tests.
func (a Account) BalanceFromTransactions(db *gorm.DB) (decimal.Decimal, error) {
	var transactions []Transaction
	err := db.Where(&Transaction{AccountID: a.ID}).Find(&transactions).Error
	if err != nil {
		return decimal.Zero, err
	}

	balance := decimal.Zero
	for _, t := range transactions {
		if t.Type == TypeIncome {
			balance = balance.Add(t.Amount)
		} else {
			balance = balance.Sub(t.Amount)
		}
	}

	return balance, nil
}
