package v1

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pocketledger/backend/internal/auth"
	"github.com/pocketledger/backend/internal/models"
)

// contextUser is the gin context key the authenticated user is stored
// under.
const contextUser = "finance:user"

// Authenticate validates the bearer token of the request, loads the
// user it belongs to and stores it in the context. Requests without a
// valid token for an existing user are rejected with 401.
func (co Controller) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(status(auth.ErrMissingToken), httpError{Error: auth.ErrMissingToken.Error()})
			return
		}

		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(status(auth.ErrInvalidToken), httpError{Error: auth.ErrInvalidToken.Error()})
			return
		}

		claims, err := co.JWT.Validate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(status(err), httpError{Error: err.Error()})
			return
		}

		// The user must still exist, tokens may outlive accounts
		user, err := models.UserByID(co.DB, claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(status(auth.ErrInvalidToken), httpError{Error: auth.ErrInvalidToken.Error()})
			return
		}

		c.Set(contextUser, user)
		c.Next()
	}
}

// currentUser returns the authenticated user set by Authenticate.
func currentUser(c *gin.Context) models.User {
	return c.MustGet(contextUser).(models.User)
}

// checkPathUser binds the userId path parameter and verifies it matches
// the authenticated caller. On failure it has already written the
// response and returns false.
func checkPathUser(c *gin.Context) (models.User, bool) {
	var uri URIUser
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return models.User{}, false
	}

	user := currentUser(c)
	if uri.UserID != user.ID {
		c.JSON(status(errNotAuthorized), httpError{Error: errNotAuthorized.Error()})
		return models.User{}, false
	}

	return user, true
}
