package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pocketledger/backend/internal/httputil"
	"github.com/pocketledger/backend/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// RegisterAccountRoutes registers the routes for accounts with the
// RouterGroup that is passed.
func (co Controller) RegisterAccountRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", co.GetAccounts)
		r.POST("", co.CreateAccount)
	}

	// Account with ID
	{
		r.OPTIONS("/:id", co.OptionsAccountDetail)
		r.GET("/:id", co.GetAccount)
		r.PATCH("/:id", co.UpdateAccount)
		r.DELETE("/:id", co.DeleteAccount)
	}
}

type AccountEditable struct {
	Name    string          `json:"name" example:"Checking" default:""`   // Name of the account
	Balance decimal.Decimal `json:"balance" example:"173.12" default:"0"` // Initial balance. Only honored on creation, afterwards the ledger owns it
}

type AccountResponse struct {
	Error *string         `json:"error"` // The error, if any occurred
	Data  *models.Account `json:"data"`  // The account data, if the request was successful
}

type AccountListResponse struct {
	Error      *string          `json:"error"`      // The error, if any occurred
	Data       []models.Account `json:"data"`       // List of accounts
	Pagination *Pagination      `json:"pagination"` // Pagination information
}

type AccountQueryFilter struct {
	Skip  int `form:"skip" filterField:"false"`  // The offset of the first account returned. Defaults to 0.
	Limit int `form:"limit" filterField:"false"` // Maximum number of accounts to return. Defaults to 100.
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Accounts
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			userId	path	uint64	true	"ID of the user"
// @Param			id		path	uint64	true	"ID of the account"
// @Router			/v1/users/{userId}/accounts/{id} [options]
// @Security		BearerAuth
func (co Controller) OptionsAccountDetail(c *gin.Context) {
	user, ok := checkPathUser(c)
	if !ok {
		return
	}

	var uri URIUserID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	_, err := models.AccountByID(co.DB, uri.ID, user.ID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create account
// @Description	Creates a new account for the user
// @Tags			Accounts
// @Accept			json
// @Produce		json
// @Success		201		{object}	AccountResponse
// @Failure		400		{object}	AccountResponse
// @Failure		403		{object}	httpError
// @Failure		500		{object}	AccountResponse
// @Param			userId	path		uint64			true	"ID of the user"
// @Param			account	body		AccountEditable	true	"Account"
// @Router			/v1/users/{userId}/accounts [post]
// @Security		BearerAuth
func (co Controller) CreateAccount(c *gin.Context) {
	user, ok := checkPathUser(c)
	if !ok {
		return
	}

	var editable AccountEditable
	if err := httputil.BindData(c, &editable); err != nil {
		e := err.Error()
		c.JSON(status(err), AccountResponse{Error: &e})
		return
	}

	account := models.Account{
		Name:    editable.Name,
		Balance: editable.Balance,
		UserID:  user.ID,
	}

	if err := models.CreateAccount(co.DB, &account); err != nil {
		e := err.Error()
		c.JSON(status(err), AccountResponse{Error: &e})
		return
	}

	c.JSON(http.StatusCreated, AccountResponse{Data: &account})
}

// @Summary		List accounts
// @Description	Returns the accounts of the user
// @Tags			Accounts
// @Produce		json
// @Success		200		{object}	AccountListResponse
// @Failure		400		{object}	AccountListResponse
// @Failure		403		{object}	httpError
// @Failure		500		{object}	AccountListResponse
// @Param			userId	path		uint64	true	"ID of the user"
// @Param			skip	query		int		false	"The offset of the first account returned. Defaults to 0."
// @Param			limit	query		int		false	"Maximum number of accounts to return. Defaults to 100."
// @Router			/v1/users/{userId}/accounts [get]
// @Security		BearerAuth
func (co Controller) GetAccounts(c *gin.Context) {
	user, ok := checkPathUser(c)
	if !ok {
		return
	}

	var filter AccountQueryFilter
	if err := c.Bind(&filter); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, AccountListResponse{Error: &e})
		return
	}

	_, setFields := httputil.GetURLFields(c.Request.URL, filter)

	limit := 100
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}

	accounts, err := models.AccountsForUser(co.DB, user.ID, filter.Skip, limit)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountListResponse{Error: &e})
		return
	}

	var count int64
	err = co.DB.Model(&models.Account{}).Where(&models.Account{UserID: user.ID}).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountListResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, AccountListResponse{
		Data: accounts,
		Pagination: &Pagination{
			Count:  len(accounts),
			Offset: filter.Skip,
			Limit:  limit,
			Total:  count,
		},
	})
}

// @Summary		Get account
// @Description	Returns a specific account of the user
// @Tags			Accounts
// @Produce		json
// @Success		200		{object}	AccountResponse
// @Failure		400		{object}	AccountResponse
// @Failure		403		{object}	httpError
// @Failure		404		{object}	AccountResponse
// @Param			userId	path		uint64	true	"ID of the user"
// @Param			id		path		uint64	true	"ID of the account"
// @Router			/v1/users/{userId}/accounts/{id} [get]
// @Security		BearerAuth
func (co Controller) GetAccount(c *gin.Context) {
	user, ok := checkPathUser(c)
	if !ok {
		return
	}

	var uri URIUserID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(status(err), AccountResponse{Error: &e})
		return
	}

	account, err := models.AccountByID(co.DB, uri.ID, user.ID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, AccountResponse{Data: &account})
}

// @Summary		Update account
// @Description	Updates an existing account. Only values to be updated need to be specified. The balance can not be set directly.
// @Tags			Accounts
// @Accept			json
// @Produce		json
// @Success		200		{object}	AccountResponse
// @Failure		400		{object}	AccountResponse
// @Failure		403		{object}	httpError
// @Failure		404		{object}	AccountResponse
// @Failure		500		{object}	AccountResponse
// @Param			userId	path		uint64			true	"ID of the user"
// @Param			id		path		uint64			true	"ID of the account"
// @Param			account	body		AccountEditable	true	"Account"
// @Router			/v1/users/{userId}/accounts/{id} [patch]
// @Security		BearerAuth
func (co Controller) UpdateAccount(c *gin.Context) {
	user, ok := checkPathUser(c)
	if !ok {
		return
	}

	var uri URIUserID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(status(err), AccountResponse{Error: &e})
		return
	}

	account, err := models.AccountByID(co.DB, uri.ID, user.ID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountResponse{Error: &e})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, AccountEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountResponse{Error: &e})
		return
	}

	// The balance is owned by the ledger, direct writes would bypass
	// the balance adjustment
	if slices.Contains(updateFields, "Balance") {
		e := errBalanceNotEditable.Error()
		c.JSON(status(errBalanceNotEditable), AccountResponse{Error: &e})
		return
	}

	var editable AccountEditable
	if err := httputil.BindData(c, &editable); err != nil {
		e := err.Error()
		c.JSON(status(err), AccountResponse{Error: &e})
		return
	}

	err = co.DB.Model(&account).Select("", updateFields...).Updates(models.Account{
		Name: editable.Name,
	}).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, AccountResponse{Data: &account})
}

// @Summary		Delete account
// @Description	Deletes the account and all its transactions
// @Tags			Accounts
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			userId	path	uint64	true	"ID of the user"
// @Param			id		path	uint64	true	"ID of the account"
// @Router			/v1/users/{userId}/accounts/{id} [delete]
// @Security		BearerAuth
func (co Controller) DeleteAccount(c *gin.Context) {
	user, ok := checkPathUser(c)
	if !ok {
		return
	}

	var uri URIUserID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	account, err := models.AccountByID(co.DB, uri.ID, user.ID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	if err := models.DeleteAccount(co.DB, &account); err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
