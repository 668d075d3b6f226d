package v1

import (
	"github.com/pocketledger/backend/internal/auth"
	"gorm.io/gorm"
)

// Controller holds the dependencies for all v1 handlers. It is
// constructed once in main and passed to AttachRoutes, there is no
// package level state.
type Controller struct {
	DB  *gorm.DB
	JWT *auth.JWTManager
}

// NewController creates a Controller with the given dependencies.
func NewController(db *gorm.DB, jwt *auth.JWTManager) Controller {
	return Controller{
		DB:  db,
		JWT: jwt,
	}
}

// URIID is the URI binding for routes addressing a single resource.
type URIID struct {
	ID uint64 `uri:"id" binding:"required"` // ID of the resource
}

// URIUser is the URI binding for routes nested under a user.
type URIUser struct {
	UserID uint64 `uri:"userId" binding:"required"` // ID of the user the resources belong to
}

// URIUserID addresses a single resource nested under a user.
type URIUserID struct {
	URIUser
	ID uint64 `uri:"id" binding:"required"` // ID of the resource
}

// Pagination contains information about the pagination for list
// endpoint responses.
type Pagination struct {
	Count  int   `json:"count" example:"25"`  // The amount of records returned in this response
	Offset int   `json:"offset" example:"50"` // The offset for the first record returned
	Limit  int   `json:"limit" example:"25"`  // The maximum amount of resources to return for this request
	Total  int64 `json:"total" example:"827"` // The total number of resources matching the query
}

type httpError struct {
	Error string `json:"error" example:"there is no account matching your query"`
}
