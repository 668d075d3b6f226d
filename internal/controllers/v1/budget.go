package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pocketledger/backend/internal/httputil"
	"github.com/pocketledger/backend/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// RegisterBudgetRoutes registers the routes for budgets with the
// RouterGroup that is passed.
func (co Controller) RegisterBudgetRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", co.GetBudgets)
		r.POST("", co.CreateBudget)
	}

	// Budget with ID
	{
		r.OPTIONS("/:id", co.OptionsBudgetDetail)
		r.GET("/:id", co.GetBudget)
		r.PATCH("/:id", co.UpdateBudget)
		r.DELETE("/:id", co.DeleteBudget)
	}
}

type BudgetEditable struct {
	Amount     decimal.Decimal `json:"amount" example:"450"`                       // Budgeted amount per period
	Period     string          `json:"period" example:"monthly" default:"monthly"` // Budget period. Defaults to "monthly"
	CategoryID uint64          `json:"categoryId" example:"2"`                     // ID of the category the budget applies to
}

type BudgetResponse struct {
	Error *string        `json:"error"` // The error, if any occurred
	Data  *models.Budget `json:"data"`  // The budget data, if the request was successful
}

type BudgetListResponse struct {
	Error      *string         `json:"error"`      // The error, if any occurred
	Data       []models.Budget `json:"data"`       // List of budgets
	Pagination *Pagination     `json:"pagination"` // Pagination information
}

type BudgetQueryFilter struct {
	Skip  int `form:"skip" filterField:"false"`  // The offset of the first budget returned. Defaults to 0
	Limit int `form:"limit" filterField:"false"` // Maximum number of budgets to return. Defaults to 100
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budgets
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			userId	path	uint64	true	"ID of the user"
// @Param			id		path	uint64	true	"ID of the budget"
// @Router			/v1/users/{userId}/budgets/{id} [options]
// @Security		BearerAuth
func (co Controller) OptionsBudgetDetail(c *gin.Context) {
	user, ok := checkPathUser(c)
	if !ok {
		return
	}

	var uri URIUserID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	_, err := models.BudgetByID(co.DB, uri.ID, user.ID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create budget
// @Description	Creates a new budget for a category. A user can have at most one budget per category.
// @Tags			Budgets
// @Accept			json
// @Produce		json
// @Success		201		{object}	BudgetResponse
// @Failure		400		{object}	BudgetResponse
// @Failure		403		{object}	httpError
// @Failure		404		{object}	BudgetResponse
// @Failure		500		{object}	BudgetResponse
// @Param			userId	path		uint64			true	"ID of the user"
// @Param			budget	body		BudgetEditable	true	"Budget"
// @Router			/v1/users/{userId}/budgets [post]
// @Security		BearerAuth
func (co Controller) CreateBudget(c *gin.Context) {
	user, ok := checkPathUser(c)
	if !ok {
		return
	}

	var editable BudgetEditable
	if err := httputil.BindData(c, &editable); err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	if _, err := models.CategoryByID(co.DB, editable.CategoryID); err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	budget := models.Budget{
		Amount:     editable.Amount,
		Period:     editable.Period,
		UserID:     user.ID,
		CategoryID: editable.CategoryID,
	}

	if err := models.CreateBudget(co.DB, &budget); err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	c.JSON(http.StatusCreated, BudgetResponse{Data: &budget})
}

// @Summary		List budgets
// @Description	Returns the budgets of the user
// @Tags			Budgets
// @Produce		json
// @Success		200		{object}	BudgetListResponse
// @Failure		400		{object}	BudgetListResponse
// @Failure		403		{object}	httpError
// @Failure		500		{object}	BudgetListResponse
// @Param			userId	path		uint64	true	"ID of the user"
// @Param			skip	query		int		false	"The offset of the first budget returned. Defaults to 0"
// @Param			limit	query		int		false	"Maximum number of budgets to return. Defaults to 100"
// @Router			/v1/users/{userId}/budgets [get]
// @Security		BearerAuth
func (co Controller) GetBudgets(c *gin.Context) {
	user, ok := checkPathUser(c)
	if !ok {
		return
	}

	var filter BudgetQueryFilter
	if err := c.Bind(&filter); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, BudgetListResponse{Error: &e})
		return
	}

	_, setFields := httputil.GetURLFields(c.Request.URL, filter)

	limit := 100
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}

	budgets, err := models.BudgetsForUser(co.DB, user.ID, filter.Skip, limit)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetListResponse{Error: &e})
		return
	}

	var count int64
	err = co.DB.Model(&models.Budget{}).Where(&models.Budget{UserID: user.ID}).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetListResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, BudgetListResponse{
		Data: budgets,
		Pagination: &Pagination{
			Count:  len(budgets),
			Offset: filter.Skip,
			Limit:  limit,
			Total:  count,
		},
	})
}

// @Summary		Get budget
// @Description	Returns a specific budget of the user
// @Tags			Budgets
// @Produce		json
// @Success		200		{object}	BudgetResponse
// @Failure		400		{object}	BudgetResponse
// @Failure		403		{object}	httpError
// @Failure		404		{object}	BudgetResponse
// @Param			userId	path		uint64	true	"ID of the user"
// @Param			id		path		uint64	true	"ID of the budget"
// @Router			/v1/users/{userId}/budgets/{id} [get]
// @Security		BearerAuth
func (co Controller) GetBudget(c *gin.Context) {
	user, ok := checkPathUser(c)
	if !ok {
		return
	}

	var uri URIUserID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	budget, err := models.BudgetByID(co.DB, uri.ID, user.ID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, BudgetResponse{Data: &budget})
}

// @Summary		Update budget
// @Description	Updates an existing budget. Only values to be updated need to be specified.
// @Tags			Budgets
// @Accept			json
// @Produce		json
// @Success		200		{object}	BudgetResponse
// @Failure		400		{object}	BudgetResponse
// @Failure		403		{object}	httpError
// @Failure		404		{object}	BudgetResponse
// @Failure		500		{object}	BudgetResponse
// @Param			userId	path		uint64			true	"ID of the user"
// @Param			id		path		uint64			true	"ID of the budget"
// @Param			budget	body		BudgetEditable	true	"Budget"
// @Router			/v1/users/{userId}/budgets/{id} [patch]
// @Security		BearerAuth
func (co Controller) UpdateBudget(c *gin.Context) {
	user, ok := checkPathUser(c)
	if !ok {
		return
	}

	var uri URIUserID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	budget, err := models.BudgetByID(co.DB, uri.ID, user.ID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, BudgetEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	var editable BudgetEditable
	if err := httputil.BindData(c, &editable); err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	if slices.Contains(updateFields, "CategoryID") {
		if _, err := models.CategoryByID(co.DB, editable.CategoryID); err != nil {
			e := err.Error()
			c.JSON(status(err), BudgetResponse{Error: &e})
			return
		}
	}

	err = co.DB.Model(&budget).Select("", updateFields...).Updates(models.Budget{
		Amount:     editable.Amount,
		Period:     editable.Period,
		CategoryID: editable.CategoryID,
	}).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, BudgetResponse{Data: &budget})
}

// @Summary		Delete budget
// @Description	Deletes the budget
// @Tags			Budgets
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		403	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			userId	path	uint64	true	"ID of the user"
// @Param			id		path	uint64	true	"ID of the budget"
// @Router			/v1/users/{userId}/budgets/{id} [delete]
// @Security		BearerAuth
func (co Controller) DeleteBudget(c *gin.Context) {
	user, ok := checkPathUser(c)
	if !ok {
		return
	}

	var uri URIUserID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	budget, err := models.BudgetByID(co.DB, uri.ID, user.ID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	if err := models.DeleteBudget(co.DB, &budget); err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
