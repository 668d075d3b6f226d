package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pocketledger/backend/internal/httputil"
	"github.com/pocketledger/backend/internal/models"
	"golang.org/x/exp/slices"
)

// RegisterCategoryRoutes registers the routes for categories with the
// RouterGroup that is passed. Categories are shared between all users.
func (co Controller) RegisterCategoryRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", co.GetCategories)
		r.POST("", co.CreateCategory)
	}

	// Category with ID
	{
		r.OPTIONS("/:id", co.OptionsCategoryDetail)
		r.GET("/:id", co.GetCategory)
		r.PATCH("/:id", co.UpdateCategory)
		r.DELETE("/:id", co.DeleteCategory)
	}
}

type CategoryEditable struct {
	Name string              `json:"name" example:"Groceries"` // Name of the category
	Type models.CategoryType `json:"type" example:"expense"`   // Type of the category, "income", "expense" or "both"
}

type CategoryResponse struct {
	Error *string          `json:"error"` // The error, if any occurred
	Data  *models.Category `json:"data"`  // The category data, if the request was successful
}

type CategoryListResponse struct {
	Error      *string           `json:"error"`      // The error, if any occurred
	Data       []models.Category `json:"data"`       // List of categories
	Pagination *Pagination       `json:"pagination"` // Pagination information
}

type CategoryQueryFilter struct {
	Type  string `form:"type" filterField:"false"`  // Only categories usable for this transaction type
	Skip  int    `form:"skip" filterField:"false"`  // The offset of the first category returned. Defaults to 0
	Limit int    `form:"limit" filterField:"false"` // Maximum number of categories to return. Defaults to 100
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Categories
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path	uint64	true	"ID of the category"
// @Router			/v1/categories/{id} [options]
// @Security		BearerAuth
func (co Controller) OptionsCategoryDetail(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	_, err := models.CategoryByID(co.DB, uri.ID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create category
// @Description	Creates a new category. Categories are shared between all users.
// @Tags			Categories
// @Accept			json
// @Produce		json
// @Success		201			{object}	CategoryResponse
// @Failure		400			{object}	CategoryResponse
// @Failure		500			{object}	CategoryResponse
// @Param			category	body		CategoryEditable	true	"Category"
// @Router			/v1/categories [post]
// @Security		BearerAuth
func (co Controller) CreateCategory(c *gin.Context) {
	var editable CategoryEditable
	if err := httputil.BindData(c, &editable); err != nil {
		e := err.Error()
		c.JSON(status(err), CategoryResponse{Error: &e})
		return
	}

	category := models.Category{
		Name: editable.Name,
		Type: editable.Type,
	}

	if err := models.CreateCategory(co.DB, &category); err != nil {
		e := err.Error()
		c.JSON(status(err), CategoryResponse{Error: &e})
		return
	}

	c.JSON(http.StatusCreated, CategoryResponse{Data: &category})
}

// @Summary		List categories
// @Description	Returns all categories. With the type filter, categories of that type and of type "both" are returned.
// @Tags			Categories
// @Produce		json
// @Success		200		{object}	CategoryListResponse
// @Failure		400		{object}	CategoryListResponse
// @Failure		500		{object}	CategoryListResponse
// @Param			type	query		string	false	"Only categories usable for this transaction type"
// @Param			skip	query		int		false	"The offset of the first category returned. Defaults to 0"
// @Param			limit	query		int		false	"Maximum number of categories to return. Defaults to 100"
// @Router			/v1/categories [get]
// @Security		BearerAuth
func (co Controller) GetCategories(c *gin.Context) {
	var filter CategoryQueryFilter
	if err := c.Bind(&filter); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, CategoryListResponse{Error: &e})
		return
	}

	_, setFields := httputil.GetURLFields(c.Request.URL, filter)

	var typeFilter models.CategoryType
	if slices.Contains(setFields, "Type") {
		typeFilter = models.CategoryType(filter.Type)
		if !typeFilter.Valid() {
			e := models.ErrCategoryTypeInvalid.Error()
			c.JSON(http.StatusBadRequest, CategoryListResponse{Error: &e})
			return
		}
	}

	limit := 100
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}

	categories, err := models.Categories(co.DB, typeFilter, filter.Skip, limit)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CategoryListResponse{Error: &e})
		return
	}

	var count int64
	err = co.DB.Model(&models.Category{}).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CategoryListResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, CategoryListResponse{
		Data: categories,
		Pagination: &Pagination{
			Count:  len(categories),
			Offset: filter.Skip,
			Limit:  limit,
			Total:  count,
		},
	})
}

// @Summary		Get category
// @Description	Returns a specific category
// @Tags			Categories
// @Produce		json
// @Success		200	{object}	CategoryResponse
// @Failure		400	{object}	CategoryResponse
// @Failure		404	{object}	CategoryResponse
// @Param			id	path		uint64	true	"ID of the category"
// @Router			/v1/categories/{id} [get]
// @Security		BearerAuth
func (co Controller) GetCategory(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(status(err), CategoryResponse{Error: &e})
		return
	}

	category, err := models.CategoryByID(co.DB, uri.ID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CategoryResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, CategoryResponse{Data: &category})
}

// @Summary		Update category
// @Description	Updates an existing category. Only values to be updated need to be specified.
// @Tags			Categories
// @Accept			json
// @Produce		json
// @Success		200			{object}	CategoryResponse
// @Failure		400			{object}	CategoryResponse
// @Failure		404			{object}	CategoryResponse
// @Failure		500			{object}	CategoryResponse
// @Param			id			path		uint64				true	"ID of the category"
// @Param			category	body		CategoryEditable	true	"Category"
// @Router			/v1/categories/{id} [patch]
// @Security		BearerAuth
func (co Controller) UpdateCategory(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		e := err.Error()
		c.JSON(status(err), CategoryResponse{Error: &e})
		return
	}

	category, err := models.CategoryByID(co.DB, uri.ID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CategoryResponse{Error: &e})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, CategoryEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CategoryResponse{Error: &e})
		return
	}

	var editable CategoryEditable
	if err := httputil.BindData(c, &editable); err != nil {
		e := err.Error()
		c.JSON(status(err), CategoryResponse{Error: &e})
		return
	}

	// Updates runs the save hooks on the unchanged destination, not on
	// the new values, so the type has to be checked here
	if slices.Contains(updateFields, "Type") && !editable.Type.Valid() {
		e := models.ErrCategoryTypeInvalid.Error()
		c.JSON(http.StatusBadRequest, CategoryResponse{Error: &e})
		return
	}

	err = co.DB.Model(&category).Select("", updateFields...).Updates(models.Category{
		Name: editable.Name,
		Type: editable.Type,
	}).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CategoryResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, CategoryResponse{Data: &category})
}

// @Summary		Delete category
// @Description	Deletes the category. Transactions that reference it keep no category afterwards.
// @Tags			Categories
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path	uint64	true	"ID of the category"
// @Router			/v1/categories/{id} [delete]
// @Security		BearerAuth
func (co Controller) DeleteCategory(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	category, err := models.CategoryByID(co.DB, uri.ID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	if err := models.DeleteCategory(co.DB, &category); err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
