package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pocketledger/backend/internal/auth"
	"github.com/pocketledger/backend/internal/httputil"
	"github.com/pocketledger/backend/internal/models"
)

// RegisterUserRoutes registers the routes for users with the
// RouterGroup that is passed.
func (co Controller) RegisterUserRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsPost)
	r.POST("", co.CreateUser)

	r.OPTIONS("/me", httputil.OptionsGet)
	r.GET("/me", co.Authenticate(), co.GetMe)
}

// RegisterTokenRoutes registers the routes for token issuance with the
// RouterGroup that is passed.
func (co Controller) RegisterTokenRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsPost)
	r.POST("", co.CreateToken)
}

type UserEditable struct {
	Username string `json:"username" example:"maria"`                 // Name the user logs in with
	Password string `json:"password" example:"correct-horse-battery"` // Plain text password, only ever transmitted, never stored
}

type UserResponse struct {
	Error *string      `json:"error"` // The error, if any occurred
	Data  *models.User `json:"data"`  // The user data, if the request was successful
}

type TokenEditable struct {
	Username string `json:"username" example:"maria"`
	Password string `json:"password" example:"correct-horse-battery"`
}

type Token struct {
	AccessToken string `json:"access_token"`                // The signed bearer token
	TokenType   string `json:"token_type" example:"bearer"` // Always "bearer"
}

type TokenResponse struct {
	Error *string `json:"error"` // The error, if any occurred
	Data  *Token  `json:"data"`  // The token, if authentication succeeded
}

// @Summary		Register user
// @Description	Registers a new user with a unique username
// @Tags			Users
// @Accept			json
// @Produce		json
// @Success		201		{object}	UserResponse
// @Failure		400		{object}	UserResponse
// @Failure		500		{object}	UserResponse
// @Param			user	body		UserEditable	true	"User"
// @Router			/v1/users [post]
func (co Controller) CreateUser(c *gin.Context) {
	var editable UserEditable
	if err := httputil.BindData(c, &editable); err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	if err := auth.ValidatePassword(editable.Password); err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	hash, err := auth.HashPassword(editable.Password)
	if err != nil {
		e := models.ErrGeneral.Error()
		c.JSON(http.StatusInternalServerError, UserResponse{Error: &e})
		return
	}

	user := models.User{
		Username:     editable.Username,
		PasswordHash: hash,
	}

	err = models.CreateUser(co.DB, &user)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), UserResponse{Error: &e})
		return
	}

	c.JSON(http.StatusCreated, UserResponse{Data: &user})
}

// @Summary		Get current user
// @Description	Returns the record of the authenticated user
// @Tags			Users
// @Produce		json
// @Success		200	{object}	UserResponse
// @Failure		401	{object}	httpError
// @Router			/v1/users/me [get]
// @Security		BearerAuth
func (co Controller) GetMe(c *gin.Context) {
	user := currentUser(c)
	c.JSON(http.StatusOK, UserResponse{Data: &user})
}

// @Summary		Issue token
// @Description	Verifies the credentials and returns a bearer token for the user
// @Tags			Users
// @Accept			json
// @Produce		json
// @Success		200			{object}	TokenResponse
// @Failure		400			{object}	TokenResponse
// @Failure		401			{object}	TokenResponse
// @Failure		500			{object}	TokenResponse
// @Param			credentials	body		TokenEditable	true	"Credentials"
// @Router			/v1/token [post]
func (co Controller) CreateToken(c *gin.Context) {
	var editable TokenEditable
	if err := httputil.BindData(c, &editable); err != nil {
		e := err.Error()
		c.JSON(status(err), TokenResponse{Error: &e})
		return
	}

	user, err := models.UserByUsername(co.DB, editable.Username)
	if errors.Is(err, models.ErrGeneral) {
		e := err.Error()
		c.JSON(status(err), TokenResponse{Error: &e})
		return
	}

	if err != nil {
		// Same response as a wrong password so that usernames can not
		// be probed
		e := auth.ErrInvalidCredentials.Error()
		c.JSON(status(auth.ErrInvalidCredentials), TokenResponse{Error: &e})
		return
	}

	if err := auth.CheckPassword(user.PasswordHash, editable.Password); err != nil {
		e := err.Error()
		c.JSON(status(err), TokenResponse{Error: &e})
		return
	}

	token, err := co.JWT.Generate(user.ID, user.Username)
	if err != nil {
		e := models.ErrGeneral.Error()
		c.JSON(http.StatusInternalServerError, TokenResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		Data: &Token{
			AccessToken: token,
			TokenType:   "bearer",
		},
	})
}
