package models_test

import (
	"errors"

	"github.com/pocketledger/backend/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func (suite *TestSuiteStandard) TestCreateTransactionIncome() {
	user := suite.createTestUser("alice")
	account := suite.createTestAccount(user.ID, "Checking", 100)

	transaction := models.Transaction{
		Amount:    decimal.NewFromFloat(30),
		Type:      models.TypeIncome,
		UserID:    user.ID,
		AccountID: account.ID,
	}
	err := models.CreateTransaction(suite.db, &transaction)
	suite.Require().NoError(err)

	suite.Assert().True(suite.balance(account.ID, user.ID).Equal(decimal.NewFromFloat(130)))
}

func (suite *TestSuiteStandard) TestCreateTransactionExpense() {
	user := suite.createTestUser("alice")
	account := suite.createTestAccount(user.ID, "Checking", 100)

	transaction := models.Transaction{
		Amount:    decimal.NewFromFloat(14.03),
		Type:      models.TypeExpense,
		UserID:    user.ID,
		AccountID: account.ID,
	}
	err := models.CreateTransaction(suite.db, &transaction)
	suite.Require().NoError(err)

	suite.Assert().True(suite.balance(account.ID, user.ID).Equal(decimal.NewFromFloat(85.97)))
}

func (suite *TestSuiteStandard) TestCreateTransactionInvalidType() {
	user := suite.createTestUser("alice")
	account := suite.createTestAccount(user.ID, "Checking", 100)

	transaction := models.Transaction{
		Amount:    decimal.NewFromFloat(10),
		Type:      "transfer",
		UserID:    user.ID,
		AccountID: account.ID,
	}
	err := models.CreateTransaction(suite.db, &transaction)
	suite.Assert().ErrorIs(err, models.ErrTransactionTypeInvalid)

	suite.Assert().True(suite.balance(account.ID, user.ID).Equal(decimal.NewFromFloat(100)))
}

func (suite *TestSuiteStandard) TestCreateTransactionNonPositiveAmount() {
	user := suite.createTestUser("alice")
	account := suite.createTestAccount(user.ID, "Checking", 100)

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromFloat(-5)} {
		transaction := models.Transaction{
			Amount:    amount,
			Type:      models.TypeExpense,
			UserID:    user.ID,
			AccountID: account.ID,
		}
		err := models.CreateTransaction(suite.db, &transaction)
		suite.Assert().ErrorIs(err, models.ErrAmountNotPositive)
	}
}

func (suite *TestSuiteStandard) TestCreateTransactionMissingAccount() {
	user := suite.createTestUser("alice")

	transaction := models.Transaction{
		Amount:    decimal.NewFromFloat(10),
		Type:      models.TypeExpense,
		UserID:    user.ID,
		AccountID: 4096,
	}
	err := models.CreateTransaction(suite.db, &transaction)
	suite.Require().Error(err)

	var count int64
	suite.db.Model(&models.Transaction{}).Count(&count)
	suite.Assert().Equal(int64(0), count, "no transaction row may survive a failed creation")
}

// TestCreateTransactionRollback forces the balance write to fail after
// the transaction row has been inserted and verifies that neither
// persists.
func (suite *TestSuiteStandard) TestCreateTransactionRollback() {
	user := suite.createTestUser("alice")
	account := suite.createTestAccount(user.ID, "Checking", 100)

	err := suite.db.Callback().Update().After("gorm:update").Register("fail_balance_write", func(db *gorm.DB) {
		if db.Statement.Table == "accounts" {
			_ = db.AddError(errors.New("simulated write failure"))
		}
	})
	suite.Require().NoError(err)
	defer func() {
		_ = suite.db.Callback().Update().Remove("fail_balance_write")
	}()

	transaction := models.Transaction{
		Amount:    decimal.NewFromFloat(30),
		Type:      models.TypeIncome,
		UserID:    user.ID,
		AccountID: account.ID,
	}
	err = models.CreateTransaction(suite.db, &transaction)
	suite.Require().Error(err)

	var count int64
	suite.db.Model(&models.Transaction{}).Count(&count)
	suite.Assert().Equal(int64(0), count, "transaction row must be rolled back")
	suite.Assert().True(suite.balance(account.ID, user.ID).Equal(decimal.NewFromFloat(100)))
}

func (suite *TestSuiteStandard) TestUpdateTransactionAmount() {
	user := suite.createTestUser("alice")
	account := suite.createTestAccount(user.ID, "Checking", 100)

	transaction := models.Transaction{
		Amount:    decimal.NewFromFloat(20),
		Type:      models.TypeExpense,
		UserID:    user.ID,
		AccountID: account.ID,
	}
	suite.Require().NoError(models.CreateTransaction(suite.db, &transaction))
	suite.Require().True(suite.balance(account.ID, user.ID).Equal(decimal.NewFromFloat(80)))

	amount := decimal.NewFromFloat(50)
	err := models.UpdateTransaction(suite.db, &transaction, models.TransactionUpdate{Amount: &amount})
	suite.Require().NoError(err)

	suite.Assert().True(suite.balance(account.ID, user.ID).Equal(decimal.NewFromFloat(50)))
}

func (suite *TestSuiteStandard) TestUpdateTransactionType() {
	user := suite.createTestUser("alice")
	account := suite.createTestAccount(user.ID, "Checking", 100)

	transaction := models.Transaction{
		Amount:    decimal.NewFromFloat(20),
		Type:      models.TypeExpense,
		UserID:    user.ID,
		AccountID: account.ID,
	}
	suite.Require().NoError(models.CreateTransaction(suite.db, &transaction))

	// Flipping 20 expense to 20 income moves the balance by 40
	income := models.TypeIncome
	err := models.UpdateTransaction(suite.db, &transaction, models.TransactionUpdate{Type: &income})
	suite.Require().NoError(err)

	suite.Assert().True(suite.balance(account.ID, user.ID).Equal(decimal.NewFromFloat(120)))
}

func (suite *TestSuiteStandard) TestUpdateTransactionMoveAccount() {
	user := suite.createTestUser("alice")
	source := suite.createTestAccount(user.ID, "Checking", 100)
	target := suite.createTestAccount(user.ID, "Savings", 50)

	transaction := models.Transaction{
		Amount:    decimal.NewFromFloat(30),
		Type:      models.TypeIncome,
		UserID:    user.ID,
		AccountID: source.ID,
	}
	suite.Require().NoError(models.CreateTransaction(suite.db, &transaction))
	suite.Require().True(suite.balance(source.ID, user.ID).Equal(decimal.NewFromFloat(130)))

	err := models.UpdateTransaction(suite.db, &transaction, models.TransactionUpdate{AccountID: &target.ID})
	suite.Require().NoError(err)

	suite.Assert().True(suite.balance(source.ID, user.ID).Equal(decimal.NewFromFloat(100)))
	suite.Assert().True(suite.balance(target.ID, user.ID).Equal(decimal.NewFromFloat(80)))
}

func (suite *TestSuiteStandard) TestUpdateTransactionSameAccountValue() {
	user := suite.createTestUser("alice")
	account := suite.createTestAccount(user.ID, "Checking", 100)

	transaction := models.Transaction{
		Amount:    decimal.NewFromFloat(30),
		Type:      models.TypeIncome,
		UserID:    user.ID,
		AccountID: account.ID,
	}
	suite.Require().NoError(models.CreateTransaction(suite.db, &transaction))

	// Setting the account to its current value counts as unchanged
	err := models.UpdateTransaction(suite.db, &transaction, models.TransactionUpdate{AccountID: &account.ID})
	suite.Require().NoError(err)

	suite.Assert().True(suite.balance(account.ID, user.ID).Equal(decimal.NewFromFloat(130)))
}

func (suite *TestSuiteStandard) TestUpdateTransactionDescriptionOnly() {
	user := suite.createTestUser("alice")
	account := suite.createTestAccount(user.ID, "Checking", 100)

	transaction := models.Transaction{
		Amount:    decimal.NewFromFloat(30),
		Type:      models.TypeExpense,
		UserID:    user.ID,
		AccountID: account.ID,
	}
	suite.Require().NoError(models.CreateTransaction(suite.db, &transaction))

	description := "Groceries at the market"
	err := models.UpdateTransaction(suite.db, &transaction, models.TransactionUpdate{Description: &description})
	suite.Require().NoError(err)

	suite.Assert().Equal(description, transaction.Description)
	suite.Assert().True(suite.balance(account.ID, user.ID).Equal(decimal.NewFromFloat(70)))
}

func (suite *TestSuiteStandard) TestDeleteTransactionReversesEffect() {
	user := suite.createTestUser("alice")
	account := suite.createTestAccount(user.ID, "Checking", 100)

	transaction := models.Transaction{
		Amount:    decimal.NewFromFloat(30),
		Type:      models.TypeExpense,
		UserID:    user.ID,
		AccountID: account.ID,
	}
	suite.Require().NoError(models.CreateTransaction(suite.db, &transaction))
	suite.Require().True(suite.balance(account.ID, user.ID).Equal(decimal.NewFromFloat(70)))

	suite.Require().NoError(models.DeleteTransaction(suite.db, &transaction))
	suite.Assert().True(suite.balance(account.ID, user.ID).Equal(decimal.NewFromFloat(100)))

	var count int64
	suite.db.Model(&models.Transaction{}).Count(&count)
	suite.Assert().Equal(int64(0), count)
}

// TestBalanceMatchesHistory verifies that after a series of creates,
// updates and deletes the stored balance equals the recomputed sum of
// the remaining transactions.
func (suite *TestSuiteStandard) TestBalanceMatchesHistory() {
	user := suite.createTestUser("alice")
	initial := decimal.NewFromFloat(250)
	account := suite.createTestAccount(user.ID, "Checking", 250)

	transactions := make([]models.Transaction, 0, 5)
	for i, spec := range []struct {
		amount float64
		kind   models.TransactionType
	}{
		{100, models.TypeIncome},
		{40, models.TypeExpense},
		{12.5, models.TypeExpense},
		{300, models.TypeIncome},
		{7.25, models.TypeExpense},
	} {
		transaction := models.Transaction{
			Amount:    decimal.NewFromFloat(spec.amount),
			Type:      spec.kind,
			UserID:    user.ID,
			AccountID: account.ID,
		}
		suite.Require().NoError(models.CreateTransaction(suite.db, &transaction), "transaction %d", i)
		transactions = append(transactions, transaction)
	}

	suite.Require().NoError(models.DeleteTransaction(suite.db, &transactions[1]))

	amount := decimal.NewFromFloat(99)
	suite.Require().NoError(models.UpdateTransaction(suite.db, &transactions[3], models.TransactionUpdate{Amount: &amount}))

	delta, err := account.BalanceFromTransactions(suite.db)
	suite.Require().NoError(err)

	suite.Assert().True(suite.balance(account.ID, user.ID).Equal(initial.Add(delta)),
		"stored balance must equal the starting balance plus the transaction history")
}

func (suite *TestSuiteStandard) TestTransactionClearCategory() {
	user := suite.createTestUser("alice")
	account := suite.createTestAccount(user.ID, "Checking", 100)

	category := models.Category{Name: "Groceries", Type: models.CategoryExpense}
	suite.Require().NoError(models.CreateCategory(suite.db, &category))

	transaction := models.Transaction{
		Amount:     decimal.NewFromFloat(30),
		Type:       models.TypeExpense,
		UserID:     user.ID,
		AccountID:  account.ID,
		CategoryID: &category.ID,
	}
	suite.Require().NoError(models.CreateTransaction(suite.db, &transaction))

	err := models.UpdateTransaction(suite.db, &transaction, models.TransactionUpdate{CategorySet: true})
	suite.Require().NoError(err)

	reloaded, err := models.TransactionByID(suite.db, transaction.ID, user.ID)
	suite.Require().NoError(err)
	suite.Assert().Nil(reloaded.CategoryID)
}
