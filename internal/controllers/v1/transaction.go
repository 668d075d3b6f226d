package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pocketledger/backend/internal/httputil"
	"github.com/pocketledger/backend/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// RegisterTransactionRoutes registers the routes for transactions with
// the RouterGroup that is passed.
func (co Controller) RegisterTransactionRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", co.GetTransactions)
		r.POST("", co.CreateTransaction)
	}

	// Transaction with ID
	{
		r.OPTIONS("/:id", co.OptionsTransactionDetail)
		r.GET("/:id", co.GetTransaction)
		r.PATCH("/:id", co.UpdateTransaction)
		r.DELETE("/:id", co.DeleteTransaction)
	}
}

type TransactionEditable struct {
	Amount      decimal.Decimal        `json:"amount" example:"14.03"`              // Amount of the transaction, always positive
	Type        models.TransactionType `json:"type" example:"expense"`              // Direction, "income" or "expense"
	Description string                 `json:"description" example:"Lunch"`         // Free-form note
	Date        time.Time              `json:"date" example:"2024-11-02T00:00:00Z"` // Date of the transaction. Defaults to the current time
	AccountID   uint64                 `json:"accountId" example:"7"`               // ID of the account the transaction belongs to
	CategoryID  *uint64                `json:"categoryId" example:"2"`              // ID of the category. Can be null
}

type TransactionResponse struct {
	Error *string             `json:"error"` // The error, if any occurred
	Data  *models.Transaction `json:"data"`  // The transaction data, if the request was successful
}

type TransactionListResponse struct {
	Error      *string              `json:"error"`      // The error, if any occurred
	Data       []models.Transaction `json:"data"`       // List of transactions
	Pagination *Pagination          `json:"pagination"` // Pagination information
}

type TransactionQueryFilter struct {
	AccountID uint64 `form:"accountId"`                     // Only transactions of this account
	Type      string `form:"type"`                          // Only transactions of this type
	Category  uint64 `form:"category" filterField:"false"`  // Only transactions of this category
	StartDate string `form:"startDate" filterField:"false"` // Only transactions on or after this date (YYYY-MM-DD)
	EndDate   string `form:"endDate" filterField:"false"`   // Only transactions on or before this date (YYYY-MM-DD)
	SortBy    string `form:"sortBy" filterField:"false"`    // Sort key, one of "date", "amount", "id". Defaults to "date"
	Order     string `form:"order" filterField:"false"`     // Sort order, "asc" or "desc". Defaults to "desc"
	Skip      int    `form:"skip" filterField:"false"`      // The offset of the first transaction returned. Defaults to 0
	Limit     int    `form:"limit" filterField:"false"`     // Maximum number of transactions to return. Defaults to 100
}

var sortableFields = []string{"date", "amount", "id"}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			userId	path	uint64	true	"ID of the user"
// @Param			id		path	uint64	true	"ID of the transaction"
// @Router			/v1/users/{userId}/transactions/{id} [options]
// @Security		BearerAuth
func (co Controller) OptionsTransactionDetail(c *gin.Context) {
	user, ok := checkPathUser(c)
	if !ok {
		return
	}

	var uri URIUserID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	_, err := models.TransactionByID(co.DB, uri.ID, user.ID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// checkReferences verifies that the referenced account belongs to the
// user and that the referenced category exists. Referencing another
// user's account reads as not found, not as forbidden.
func (co Controller) checkReferences(accountID uint64, categoryID *uint64, userID uint64) error {
	if _, err := models.AccountByID(co.DB, accountID, userID); err != nil {
		return err
	}

	if categoryID != nil {
		if _, err := models.CategoryByID(co.DB, *categoryID); err != nil {
			return err
		}
	}

	return nil
}

// @Summary		Create transaction
// @Description	Creates a new transaction and applies its amount to the account balance
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		201			{object}	TransactionResponse
// @Failure		400			{object}	TransactionResponse
// @Failure		403			{object}	httpError
// @Failure		404			{object}	TransactionResponse
// @Failure		500			{object}	TransactionResponse
// @Param			userId		path		uint64				true	"ID of the user"
// @Param			transaction	body		TransactionEditable	true	"Transaction"
// @Router			/v1/users/{userId}/transactions [post]
// @Security		BearerAuth
func (co Controller) CreateTransaction(c *gin.Context) {
	user, ok := checkPathUser(c)
	if !ok {
		return
	}

	var editable TransactionEditable
	if err := httputil.BindData(c, &editable); err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &e})
		return
	}

	if err := co.checkReferences(editable.AccountID, editable.CategoryID, user.ID); err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &e})
		return
	}

	transaction := models.Transaction{
		Amount:      editable.Amount,
		Type:        editable.Type,
		Description: editable.Description,
		Date:        editable.Date,
		UserID:      user.ID,
		AccountID:   editable.AccountID,
		CategoryID:  editable.CategoryID,
	}

	if err := models.CreateTransaction(co.DB, &transaction); err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &e})
		return
	}

	c.JSON(http.StatusCreated, TransactionResponse{Data: &transaction})
}

// @Summary		List transactions
// @Description	Returns the transactions of the user, newest first by default
// @Tags			Transactions
// @Produce		json
// @Success		200			{object}	TransactionListResponse
// @Failure		400			{object}	TransactionListResponse
// @Failure		403			{object}	httpError
// @Failure		500			{object}	TransactionListResponse
// @Param			userId		path		uint64	true	"ID of the user"
// @Param			accountId	query		uint64	false	"Only transactions of this account"
// @Param			type		query		string	false	"Only transactions of this type"
// @Param			category	query		uint64	false	"Only transactions of this category"
// @Param			startDate	query		string	false	"Only transactions on or after this date (YYYY-MM-DD)"
// @Param			endDate		query		string	false	"Only transactions on or before this date (YYYY-MM-DD)"
// @Param			sortBy		query		string	false	"Sort key, one of date, amount, id. Defaults to date"
// @Param			order		query		string	false	"Sort order, asc or desc. Defaults to desc"
// @Param			skip		query		int		false	"The offset of the first transaction returned. Defaults to 0"
// @Param			limit		query		int		false	"Maximum number of transactions to return. Defaults to 100"
// @Router			/v1/users/{userId}/transactions [get]
// @Security		BearerAuth
func (co Controller) GetTransactions(c *gin.Context) {
	user, ok := checkPathUser(c)
	if !ok {
		return
	}

	var filter TransactionQueryFilter
	if err := c.Bind(&filter); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, TransactionListResponse{Error: &e})
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	sortBy := "date"
	if slices.Contains(setFields, "SortBy") {
		if !slices.Contains(sortableFields, filter.SortBy) {
			e := errSortByInvalid.Error()
			c.JSON(status(errSortByInvalid), TransactionListResponse{Error: &e})
			return
		}
		sortBy = filter.SortBy
	}

	order := "desc"
	if slices.Contains(setFields, "Order") {
		if filter.Order != "asc" && filter.Order != "desc" {
			e := errOrderInvalid.Error()
			c.JSON(status(errOrderInvalid), TransactionListResponse{Error: &e})
			return
		}
		order = filter.Order
	}

	query := co.DB.
		Model(&models.Transaction{}).
		Where("transactions.user_id = ?", user.ID).
		Where(&models.Transaction{
			AccountID: filter.AccountID,
			Type:      models.TransactionType(filter.Type),
		}, queryFields...)

	if slices.Contains(setFields, "Category") {
		query = query.Where("transactions.category_id = ?", filter.Category)
	}

	if slices.Contains(setFields, "StartDate") {
		startDate, err := time.Parse("2006-01-02", filter.StartDate)
		if err != nil {
			e := err.Error()
			c.JSON(http.StatusBadRequest, TransactionListResponse{Error: &e})
			return
		}
		query = query.Where("transactions.date >= ?", startDate)
	}

	if slices.Contains(setFields, "EndDate") {
		endDate, err := time.Parse("2006-01-02", filter.EndDate)
		if err != nil {
			e := err.Error()
			c.JSON(http.StatusBadRequest, TransactionListResponse{Error: &e})
			return
		}
		// The end date is inclusive, so everything before the next day
		// counts
		query = query.Where("transactions.date < ?", endDate.AddDate(0, 0, 1))
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionListResponse{Error: &e})
		return
	}

	limit := 100
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}

	var transactions []models.Transaction
	err := query.
		Order("transactions." + sortBy + " " + order).
		Offset(filter.Skip).
		Limit(limit).
		Find(&transactions).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionListResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, TransactionListResponse{
		Data: transactions,
		Pagination: &Pagination{
			Count:  len(transactions),
			Offset: filter.Skip,
			Limit:  limit,
			Total:  count,
		},
	})
}

// @Summary		Get transaction
// @Description	Returns a specific transaction of the user
// @Tags			Transactions
// @Produce		json
// @Success		200		{object}	TransactionResponse
// @Failure		400		{object}	TransactionResponse
// @Failure		403		{object}	httpError
// @Failure		404		{object}	TransactionResponse
// @Param			userId	path		uint64	true	"ID of the user"
// @Param			id		path		uint64	true	"ID of the transaction"
// @Router			/v1/users/{userId}/transactions/{id} [get]
// @Security		BearerAuth
func (co Controller) GetTransaction(c *gin.Context) {
	user, ok := checkPathUser(c)
	if !ok {
		return
	}

	var uri URIUserID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &e})
		return
	}

	transaction, err := models.TransactionByID(co.DB, uri.ID, user.ID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, TransactionResponse{Data: &transaction})
}

// @Summary		Update transaction
// @Description	Updates an existing transaction and reconciles the affected account balances. Only values to be updated need to be specified.
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		200			{object}	TransactionResponse
// @Failure		400			{object}	TransactionResponse
// @Failure		403			{object}	httpError
// @Failure		404			{object}	TransactionResponse
// @Failure		500			{object}	TransactionResponse
// @Param			userId		path		uint64				true	"ID of the user"
// @Param			id			path		uint64				true	"ID of the transaction"
// @Param			transaction	body		TransactionEditable	true	"Transaction"
// @Router			/v1/users/{userId}/transactions/{id} [patch]
// @Security		BearerAuth
func (co Controller) UpdateTransaction(c *gin.Context) {
	user, ok := checkPathUser(c)
	if !ok {
		return
	}

	var uri URIUserID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &e})
		return
	}

	transaction, err := models.TransactionByID(co.DB, uri.ID, user.ID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &e})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, TransactionEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &e})
		return
	}

	var editable TransactionEditable
	if err := httputil.BindData(c, &editable); err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &e})
		return
	}

	var update models.TransactionUpdate
	for _, field := range updateFields {
		switch field {
		case "Amount":
			update.Amount = &editable.Amount
		case "Type":
			update.Type = &editable.Type
		case "Description":
			update.Description = &editable.Description
		case "Date":
			update.Date = &editable.Date
		case "AccountID":
			if _, err := models.AccountByID(co.DB, editable.AccountID, user.ID); err != nil {
				e := err.Error()
				c.JSON(status(err), TransactionResponse{Error: &e})
				return
			}
			update.AccountID = &editable.AccountID
		case "CategoryID":
			if editable.CategoryID != nil {
				if _, err := models.CategoryByID(co.DB, *editable.CategoryID); err != nil {
					e := err.Error()
					c.JSON(status(err), TransactionResponse{Error: &e})
					return
				}
			}
			update.CategoryID = editable.CategoryID
			update.CategorySet = true
		}
	}

	if err := models.UpdateTransaction(co.DB, &transaction, update); err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, TransactionResponse{Data: &transaction})
}

// @Summary		Delete transaction
// @Description	Deletes the transaction and reverses its effect on the account balance
// @Tags			Transactions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			userId	path	uint64	true	"ID of the user"
// @Param			id		path	uint64	true	"ID of the transaction"
// @Router			/v1/users/{userId}/transactions/{id} [delete]
// @Security		BearerAuth
func (co Controller) DeleteTransaction(c *gin.Context) {
	user, ok := checkPathUser(c)
	if !ok {
		return
	}

	var uri URIUserID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	transaction, err := models.TransactionByID(co.DB, uri.ID, user.ID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	if err := models.DeleteTransaction(co.DB, &transaction); err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
