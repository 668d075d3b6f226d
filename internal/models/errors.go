package models

import (
	"errors"
	"fmt"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")

	// ErrAccountNotFound is returned by the balance adjustment when the
	// referenced account does not exist. Callers validate existence
	// before adjusting, so hitting this means the reference went stale
	// inside the storage transaction.
	ErrAccountNotFound = fmt.Errorf("%w account matching your query", ErrResourceNotFound)

	ErrUsernameTaken  = errors.New("this username is already registered")
	ErrCategoryExists = errors.New("a category with this name and type already exists")
	ErrBudgetExists   = errors.New("a budget for this category already exists")

	ErrTransactionTypeInvalid = errors.New("transaction type must be income or expense")
	ErrCategoryTypeInvalid    = errors.New("category type must be income, expense or both")
	ErrAmountNotPositive      = errors.New("the amount must be positive")
	ErrReferenceInvalid       = errors.New("a resource referenced in the request does not exist")
)
