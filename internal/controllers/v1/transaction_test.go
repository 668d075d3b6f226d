package v1_test

import (
	"fmt"
	"net/http"

	v1 "github.com/pocketledger/backend/internal/controllers/v1"
	"github.com/pocketledger/backend/internal/models"
	"github.com/pocketledger/backend/test"
	"github.com/shopspring/decimal"
)

// createTestTransaction creates a transaction via the API.
func (suite *TestSuiteStandard) createTestTransaction(user models.User, headers map[string]string, body map[string]any) models.Transaction {
	recorder := test.Request(suite.controller, suite.T(), http.MethodPost,
		fmt.Sprintf("/v1/users/%d/transactions", user.ID), body, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.TransactionResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	return *response.Data
}

// accountBalance reads the account via the API and returns its balance.
func (suite *TestSuiteStandard) accountBalance(user models.User, headers map[string]string, accountID uint64) decimal.Decimal {
	recorder := test.Request(suite.controller, suite.T(), http.MethodGet,
		fmt.Sprintf("/v1/users/%d/accounts/%d", user.ID, accountID), nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.AccountResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	return response.Data.Balance
}

func (suite *TestSuiteStandard) TestCreateTransactionUpdatesBalance() {
	user, headers := suite.registerAndLogin("alice")
	account := suite.createTestAccount(user, headers, "Checking", 100)

	suite.createTestTransaction(user, headers, map[string]any{
		"amount":    30,
		"type":      "income",
		"accountId": account.ID,
	})

	balance := suite.accountBalance(user, headers, account.ID)
	suite.Assert().True(balance.Equal(decimal.NewFromFloat(130)))
}

func (suite *TestSuiteStandard) TestCreateTransactionUnknownAccount() {
	user, headers := suite.registerAndLogin("alice")

	recorder := test.Request(suite.controller, suite.T(), http.MethodPost,
		fmt.Sprintf("/v1/users/%d/transactions", user.ID),
		map[string]any{"amount": 30, "type": "income", "accountId": 4096}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestCreateTransactionForeignAccount() {
	alice, aliceHeaders := suite.registerAndLogin("alice")
	account := suite.createTestAccount(alice, aliceHeaders, "Checking", 100)

	bob, bobHeaders := suite.registerAndLogin("bob")

	// Booking into another user's account reads as not found
	recorder := test.Request(suite.controller, suite.T(), http.MethodPost,
		fmt.Sprintf("/v1/users/%d/transactions", bob.ID),
		map[string]any{"amount": 30, "type": "income", "accountId": account.ID}, bobHeaders)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)

	// Alice's balance is untouched
	balance := suite.accountBalance(alice, aliceHeaders, account.ID)
	suite.Assert().True(balance.Equal(decimal.NewFromFloat(100)))
}

func (suite *TestSuiteStandard) TestCreateTransactionInvalidType() {
	user, headers := suite.registerAndLogin("alice")
	account := suite.createTestAccount(user, headers, "Checking", 100)

	recorder := test.Request(suite.controller, suite.T(), http.MethodPost,
		fmt.Sprintf("/v1/users/%d/transactions", user.ID),
		map[string]any{"amount": 30, "type": "transfer", "accountId": account.ID}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestUpdateTransactionMoveAccount() {
	user, headers := suite.registerAndLogin("alice")
	source := suite.createTestAccount(user, headers, "Checking", 100)
	target := suite.createTestAccount(user, headers, "Savings", 50)

	transaction := suite.createTestTransaction(user, headers, map[string]any{
		"amount":    30,
		"type":      "income",
		"accountId": source.ID,
	})
	suite.Require().True(suite.accountBalance(user, headers, source.ID).Equal(decimal.NewFromFloat(130)))

	recorder := test.Request(suite.controller, suite.T(), http.MethodPatch,
		fmt.Sprintf("/v1/users/%d/transactions/%d", user.ID, transaction.ID),
		map[string]any{"accountId": target.ID}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	suite.Assert().True(suite.accountBalance(user, headers, source.ID).Equal(decimal.NewFromFloat(100)))
	suite.Assert().True(suite.accountBalance(user, headers, target.ID).Equal(decimal.NewFromFloat(80)))
}

func (suite *TestSuiteStandard) TestUpdateTransactionForeignAccount() {
	alice, aliceHeaders := suite.registerAndLogin("alice")
	foreign := suite.createTestAccount(alice, aliceHeaders, "Checking", 100)

	bob, bobHeaders := suite.registerAndLogin("bob")
	account := suite.createTestAccount(bob, bobHeaders, "Checking", 100)
	transaction := suite.createTestTransaction(bob, bobHeaders, map[string]any{
		"amount":    30,
		"type":      "expense",
		"accountId": account.ID,
	})

	recorder := test.Request(suite.controller, suite.T(), http.MethodPatch,
		fmt.Sprintf("/v1/users/%d/transactions/%d", bob.ID, transaction.ID),
		map[string]any{"accountId": foreign.ID}, bobHeaders)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestDeleteTransactionRestoresBalance() {
	user, headers := suite.registerAndLogin("alice")
	account := suite.createTestAccount(user, headers, "Checking", 100)

	transaction := suite.createTestTransaction(user, headers, map[string]any{
		"amount":    30,
		"type":      "expense",
		"accountId": account.ID,
	})
	suite.Require().True(suite.accountBalance(user, headers, account.ID).Equal(decimal.NewFromFloat(70)))

	recorder := test.Request(suite.controller, suite.T(), http.MethodDelete,
		fmt.Sprintf("/v1/users/%d/transactions/%d", user.ID, transaction.ID), nil, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	suite.Assert().True(suite.accountBalance(user, headers, account.ID).Equal(decimal.NewFromFloat(100)))
}

func (suite *TestSuiteStandard) TestGetTransactionsFilters() {
	user, headers := suite.registerAndLogin("alice")
	account := suite.createTestAccount(user, headers, "Checking", 1000)
	groceries := suite.createTestCategory(headers, "Groceries", "expense")

	suite.createTestTransaction(user, headers, map[string]any{
		"amount": 50, "type": "expense", "accountId": account.ID,
		"categoryId": groceries.ID, "date": "2024-11-02T00:00:00Z",
	})
	suite.createTestTransaction(user, headers, map[string]any{
		"amount": 200, "type": "income", "accountId": account.ID,
		"date": "2024-11-10T00:00:00Z",
	})
	suite.createTestTransaction(user, headers, map[string]any{
		"amount": 10, "type": "expense", "accountId": account.ID,
		"date": "2024-12-01T00:00:00Z",
	})

	tests := []struct {
		query    string
		expected int
	}{
		{"", 3},
		{"?type=expense", 2},
		{"?type=income", 1},
		{fmt.Sprintf("?category=%d", groceries.ID), 1},
		{"?startDate=2024-11-05", 2},
		{"?endDate=2024-11-10", 2},
		{"?startDate=2024-11-05&endDate=2024-11-30", 1},
		{"?limit=2", 2},
		{"?skip=2", 1},
	}

	for _, tt := range tests {
		recorder := test.Request(suite.controller, suite.T(), http.MethodGet,
			fmt.Sprintf("/v1/users/%d/transactions%s", user.ID, tt.query), nil, headers)
		test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

		var response v1.TransactionListResponse
		test.DecodeResponse(suite.T(), &recorder, &response)
		suite.Assert().Len(response.Data, tt.expected, "query %q", tt.query)
	}
}

func (suite *TestSuiteStandard) TestGetTransactionsSorting() {
	user, headers := suite.registerAndLogin("alice")
	account := suite.createTestAccount(user, headers, "Checking", 1000)

	for _, t := range []map[string]any{
		{"amount": 50, "type": "expense", "accountId": account.ID, "date": "2024-11-02T00:00:00Z"},
		{"amount": 200, "type": "income", "accountId": account.ID, "date": "2024-11-10T00:00:00Z"},
		{"amount": 10, "type": "expense", "accountId": account.ID, "date": "2024-12-01T00:00:00Z"},
	} {
		suite.createTestTransaction(user, headers, t)
	}

	// Default is newest first
	recorder := test.Request(suite.controller, suite.T(), http.MethodGet,
		fmt.Sprintf("/v1/users/%d/transactions", user.ID), nil, headers)
	var response v1.TransactionListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().Len(response.Data, 3)
	suite.Assert().True(response.Data[0].Date.After(response.Data[2].Date))

	// Sorting by amount ascending
	recorder = test.Request(suite.controller, suite.T(), http.MethodGet,
		fmt.Sprintf("/v1/users/%d/transactions?sortBy=amount&order=asc", user.ID), nil, headers)
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Require().Len(response.Data, 3)
	suite.Assert().True(response.Data[0].Amount.LessThan(response.Data[2].Amount))
}

func (suite *TestSuiteStandard) TestGetTransactionsInvalidSort() {
	user, headers := suite.registerAndLogin("alice")

	for _, query := range []string{"?sortBy=balance", "?order=sideways"} {
		recorder := test.Request(suite.controller, suite.T(), http.MethodGet,
			fmt.Sprintf("/v1/users/%d/transactions%s", user.ID, query), nil, headers)
		test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
	}
}

func (suite *TestSuiteStandard) TestGetTransactionsIsolatedByUser() {
	alice, aliceHeaders := suite.registerAndLogin("alice")
	account := suite.createTestAccount(alice, aliceHeaders, "Checking", 100)
	suite.createTestTransaction(alice, aliceHeaders, map[string]any{
		"amount": 30, "type": "income", "accountId": account.ID,
	})

	bob, bobHeaders := suite.registerAndLogin("bob")

	recorder := test.Request(suite.controller, suite.T(), http.MethodGet,
		fmt.Sprintf("/v1/users/%d/transactions", bob.ID), nil, bobHeaders)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.TransactionListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Len(response.Data, 0)
}
