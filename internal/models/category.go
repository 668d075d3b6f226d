package models

import (
	"strings"

	"gorm.io/gorm"
)

// CategoryType restricts what kind of transactions a category applies
// to. A category of type "both" matches income and expense filters.
//
// swagger:enum CategoryType
type CategoryType string

const (
	CategoryIncome  CategoryType = "income"
	CategoryExpense CategoryType = "expense"
	CategoryBoth    CategoryType = "both"
)

// Valid reports whether the type is one of the allowed values.
func (t CategoryType) Valid() bool {
	return t == CategoryIncome || t == CategoryExpense || t == CategoryBoth
}

// Category is a global classification tag. It is not owned by a user.
// Two categories may share a name as long as their types differ.
type Category struct {
	DefaultModel
	Name string       `json:"name" gorm:"uniqueIndex:category_name_type" example:"Groceries"`
	Type CategoryType `json:"type" gorm:"uniqueIndex:category_name_type" example:"expense"`
}

// BeforeSave validates the type and trims the name.
func (c *Category) BeforeSave(_ *gorm.DB) (err error) {
	c.Name = strings.TrimSpace(c.Name)

	if !c.Type.Valid() {
		return ErrCategoryTypeInvalid
	}

	return nil
}

// CategoryByID returns the category with the given ID. Categories are
// global, so there is no owner scoping.
func CategoryByID(db *gorm.DB, id uint64) (Category, error) {
	var category Category
	err := db.First(&category, id).Error
	return category, err
}

// Categories returns categories, optionally filtered by type. A filter
// of "income" or "expense" also returns categories of type "both".
func Categories(db *gorm.DB, typeFilter CategoryType, skip, limit int) ([]Category, error) {
	var categories []Category

	q := db.Order("categories.name ASC")
	if typeFilter != "" {
		q = q.Where("categories.type = ? OR categories.type = ?", typeFilter, CategoryBoth)
	}

	err := q.Offset(skip).Limit(limit).Find(&categories).Error
	return categories, err
}

// CreateCategory creates the category. A duplicate (name, type) pair is
// reported as ErrCategoryExists via the createUpdateCallback.
func CreateCategory(db *gorm.DB, category *Category) error {
	return db.Create(category).Error
}

// DeleteCategory removes the category. Transactions referencing it keep
// existing with their category reference set to NULL by the database.
func DeleteCategory(db *gorm.DB, category *Category) error {
	return db.Delete(category).Error
}

// defaultCategories is the category set seeded on first startup.
var defaultCategories = []Category{
	{Name: "Housing", Type: CategoryExpense},
	{Name: "Groceries", Type: CategoryExpense},
	{Name: "Dining Out", Type: CategoryExpense},
	{Name: "Transportation", Type: CategoryExpense},
	{Name: "Utilities", Type: CategoryExpense},
	{Name: "Entertainment", Type: CategoryExpense},
	{Name: "Shopping", Type: CategoryExpense},
	{Name: "Healthcare", Type: CategoryExpense},
	{Name: "Education", Type: CategoryExpense},
	{Name: "Personal Care", Type: CategoryExpense},
	{Name: "Insurance", Type: CategoryExpense},
	{Name: "Gifts & Donations", Type: CategoryExpense},
	{Name: "Travel", Type: CategoryExpense},
	{Name: "Subscriptions", Type: CategoryExpense},
	{Name: "Other Expense", Type: CategoryExpense},
	{Name: "Salary", Type: CategoryIncome},
	{Name: "Freelance", Type: CategoryIncome},
	{Name: "Investment Returns", Type: CategoryIncome},
	{Name: "Gifts Received", Type: CategoryIncome},
	{Name: "Refunds", Type: CategoryIncome},
	{Name: "Rental Income", Type: CategoryIncome},
	{Name: "Business Income", Type: CategoryIncome},
	{Name: "Bonus", Type: CategoryIncome},
	{Name: "Other Income", Type: CategoryIncome},
	{Name: "Transfer", Type: CategoryBoth},
}

// SeedDefaultCategories inserts the default category set when the table
// is empty. It is a no-op on every later start.
func SeedDefaultCategories(db *gorm.DB) error {
	var count int64
	if err := db.Model(&Category{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	categories := make([]Category, len(defaultCategories))
	copy(categories, defaultCategories)

	return db.Create(&categories).Error
}
