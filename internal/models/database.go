package models

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Connect opens the sqlite database, migrates the schema and configures
// the connection pool. The returned handle is passed explicitly to every
// component that needs storage access.
func Connect(dsn string) (*gorm.DB, error) {
	config := &gorm.Config{
		// Set generated timestamps in UTC
		NowFunc: func() time.Time {
			return time.Now().In(time.UTC)
		},
		Logger: &logger{
			Logger: log.Logger,
		},
	}

	if !strings.Contains(dsn, "_pragma") {
		dsn = fmt.Sprintf("%s?_pragma=foreign_keys(1)", dsn)
	}

	db, err := gorm.Open(sqlite.Open(dsn), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}

	// Get new connections after one hour
	sqlDB.SetConnMaxLifetime(time.Hour)

	// This is done to prevent SQLITE_BUSY errors.
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(User{}, Account{}, Category{}, Transaction{}, Budget{})
	if err != nil {
		return nil, err
	}

	// Query callbacks
	err = db.Callback().Query().After("*").Register("finance:after_query", queryCallback)
	if err != nil {
		return nil, err
	}

	err = db.Callback().Query().After("*").Register("finance:after_query_general", generalCallback)
	if err != nil {
		return nil, err
	}

	// Create callbacks
	err = db.Callback().Create().After("*").Register("finance:after_create", createUpdateCallback)
	if err != nil {
		return nil, err
	}

	err = db.Callback().Create().After("*").Register("finance:after_create_general", generalCallback)
	if err != nil {
		return nil, err
	}

	// Update callbacks
	err = db.Callback().Update().After("*").Register("finance:after_update", createUpdateCallback)
	if err != nil {
		return nil, err
	}

	err = db.Callback().Update().After("*").Register("finance:after_update_general", generalCallback)
	if err != nil {
		return nil, err
	}

	// Delete callbacks
	err = db.Callback().Delete().After("*").Register("finance:after_delete_general", generalCallback)
	if err != nil {
		return nil, err
	}

	return db, nil
}

// expectedErrors are the errors that are handled at the API boundary
// and therefore must not be folded into ErrGeneral.
var expectedErrors = []error{
	gorm.ErrRecordNotFound,
	ErrResourceNotFound,
	ErrAccountNotFound,
	ErrUsernameTaken,
	ErrCategoryExists,
	ErrBudgetExists,
	ErrTransactionTypeInvalid,
	ErrCategoryTypeInvalid,
	ErrAmountNotPositive,
	ErrReferenceInvalid,
}

// generalCallback replaces all errors that are not expected at the API
// boundary with ErrGeneral so that no database internals leak to
// clients.
func generalCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	for _, expected := range expectedErrors {
		if errors.Is(db.Error, expected) {
			return
		}
	}

	log.Error().Msgf("%T: %v", db.Error, db.Error.Error())
	db.Error = ErrGeneral
}

// queryCallback replaces the generic "no record" error with a more user
// friendly one
func queryCallback(db *gorm.DB) {
	if errors.Is(db.Error, gorm.ErrRecordNotFound) {
		// Use the table name as information about the type of resource
		// and replace "_" with "[space]"
		name := strings.ReplaceAll(db.Statement.Table, "_", " ")

		// Replace pluralized "ies" with "y"
		match := regexp.MustCompile("ies$")
		name = match.ReplaceAllString(name, "y")

		// Remove plural "s"
		name = strings.TrimRight(name, "s")

		db.Error = fmt.Errorf("%w %s matching your query", ErrResourceNotFound, name)
	}
}

// createUpdateCallback inspects errors returned by the database for create
// and update calls and replaces them with user friendly ones
func createUpdateCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	// Usernames are globally unique
	if strings.Contains(db.Error.Error(), "UNIQUE constraint failed: users.username") {
		db.Error = ErrUsernameTaken
	}

	// Category names are unique per type
	if strings.Contains(db.Error.Error(), "UNIQUE constraint failed: categories.name, categories.type") {
		db.Error = ErrCategoryExists
	}

	// One budget per user and category
	if strings.Contains(db.Error.Error(), "UNIQUE constraint failed: budgets.user_id, budgets.category_id") {
		db.Error = ErrBudgetExists
	}

	// A field references a resource that does not exist
	if strings.Contains(db.Error.Error(), "FOREIGN KEY constraint failed") {
		db.Error = ErrReferenceInvalid
	}
}
