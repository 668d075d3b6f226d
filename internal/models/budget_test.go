package models_test

import (
	"github.com/pocketledger/backend/internal/models"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) createTestCategory(name string, categoryType models.CategoryType) models.Category {
	category := models.Category{Name: name, Type: categoryType}
	err := models.CreateCategory(suite.db, &category)
	if err != nil {
		suite.Assert().FailNow("category could not be saved", "Error: %s", err)
	}

	return category
}

func (suite *TestSuiteStandard) TestCreateBudgetDuplicate() {
	user := suite.createTestUser("alice")
	category := suite.createTestCategory("Groceries", models.CategoryExpense)

	budget := models.Budget{
		Amount:     decimal.NewFromFloat(450),
		UserID:     user.ID,
		CategoryID: category.ID,
	}
	suite.Require().NoError(models.CreateBudget(suite.db, &budget))

	duplicate := models.Budget{
		Amount:     decimal.NewFromFloat(200),
		UserID:     user.ID,
		CategoryID: category.ID,
	}
	err := models.CreateBudget(suite.db, &duplicate)
	suite.Assert().ErrorIs(err, models.ErrBudgetExists)

	var count int64
	suite.db.Model(&models.Budget{}).Count(&count)
	suite.Assert().Equal(int64(1), count, "exactly one budget per user and category")
}

func (suite *TestSuiteStandard) TestBudgetDefaultPeriod() {
	user := suite.createTestUser("alice")
	category := suite.createTestCategory("Groceries", models.CategoryExpense)

	budget := models.Budget{
		Amount:     decimal.NewFromFloat(450),
		UserID:     user.ID,
		CategoryID: category.ID,
	}
	suite.Require().NoError(models.CreateBudget(suite.db, &budget))
	suite.Assert().Equal("monthly", budget.Period)
}

func (suite *TestSuiteStandard) TestBudgetSameCategoryDifferentUsers() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")
	category := suite.createTestCategory("Groceries", models.CategoryExpense)

	for _, user := range []models.User{alice, bob} {
		budget := models.Budget{
			Amount:     decimal.NewFromFloat(450),
			UserID:     user.ID,
			CategoryID: category.ID,
		}
		suite.Assert().NoError(models.CreateBudget(suite.db, &budget))
	}
}

func (suite *TestSuiteStandard) TestBudgetByIDScopedToOwner() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")
	category := suite.createTestCategory("Groceries", models.CategoryExpense)

	budget := models.Budget{
		Amount:     decimal.NewFromFloat(450),
		UserID:     alice.ID,
		CategoryID: category.ID,
	}
	suite.Require().NoError(models.CreateBudget(suite.db, &budget))

	_, err := models.BudgetByID(suite.db, budget.ID, alice.ID)
	suite.Assert().NoError(err)

	_, err = models.BudgetByID(suite.db, budget.ID, bob.ID)
	suite.Assert().True(models.IsNotFound(err))
}
