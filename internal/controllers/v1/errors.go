package v1

import (
	"errors"
	"net/http"

	"github.com/pocketledger/backend/internal/auth"
	"github.com/pocketledger/backend/internal/models"
)

var (
	// errNotAuthorized is returned when the path user ID does not match
	// the authenticated caller. This is distinct from the not-found
	// result of an ownership scoped lookup, see models.AccountByID.
	errNotAuthorized = errors.New("you are not authorized to act for this user")

	errBalanceNotEditable = errors.New("the account balance can not be set directly, create a transaction instead")
	errSortByInvalid      = errors.New("sortBy must be one of date, amount or id")
	errOrderInvalid       = errors.New("order must be asc or desc")
)

// status returns the appropriate HTTP status for an error.
func status(err error) int {
	switch {
	case errors.Is(err, models.ErrGeneral):
		return http.StatusInternalServerError

	case models.IsNotFound(err):
		return http.StatusNotFound

	case errors.Is(err, errNotAuthorized):
		return http.StatusForbidden

	case errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	}

	// Everything else is a client error: validation failures,
	// uniqueness conflicts and malformed requests.
	return http.StatusBadRequest
}
