package models

import (
	"errors"

	"gorm.io/gorm"
)

// User is an authenticated owner of accounts, transactions and budgets.
type User struct {
	DefaultModel
	Username     string `json:"username" gorm:"uniqueIndex" example:"maria"`
	PasswordHash string `json:"-"`
}

// UserByID returns the user with the given ID.
func UserByID(db *gorm.DB, id uint64) (User, error) {
	var user User
	err := db.First(&user, id).Error
	return user, err
}

// UserByUsername returns the user with the given username.
func UserByUsername(db *gorm.DB, username string) (User, error) {
	var user User
	err := db.Where(&User{Username: username}).First(&user).Error
	return user, err
}

// CreateUser registers a new user. A duplicate username is reported as
// ErrUsernameTaken via the createUpdateCallback.
func CreateUser(db *gorm.DB, user *User) error {
	return db.Create(user).Error
}

// DeleteUser removes the user. Accounts, transactions and budgets owned
// by the user are removed by the database's cascading deletes.
func DeleteUser(db *gorm.DB, user *User) error {
	return db.Delete(user).Error
}

// IsNotFound reports whether err is any of the not-found errors.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrResourceNotFound)
}
