package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/syssam/persist/schema"
)

//go:generate go run ../../cmd/persist gen -o .

// Account is a customer account. Its columns are read and written through
// the generated accessor in account_persist.go.
type Account struct {
	schema.Entity `persist:"table=accounts"`

	ID      *int64 `persist:"id"`
	Owner   string `persist:"notnull,unique,size=64"`
	Balance *float64
	Ref     *uuid.UUID
	Opened  *time.Time
}

// NewAccount returns a transient account opened at the given time.
func NewAccount(owner string, balance float64, opened time.Time) *Account {
	ref := uuid.New()
	return &Account{Owner: owner, Balance: &balance, Ref: &ref, Opened: &opened}
}
