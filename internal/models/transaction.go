package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction a user declares when entering a transaction.
// It is not stored; it must match the referenced category's type.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// CategoryType returns the category type a transaction of this type must reference.
func (t TransactionType) CategoryType() CategoryType {
	return CategoryType(t)
}

// Transaction is a single financial event recorded by a user.
type Transaction struct {
	Base
	UserID          string          `gorm:"not null;index" json:"user_id"`
	Description     string          `gorm:"not null" json:"description"`
	Amount          decimal.Decimal `gorm:"type:numeric;not null" json:"amount"`
	TransactionDate time.Time       `gorm:"type:date;not null" json:"transaction_date"`
	CategoryID      uint            `gorm:"not null" json:"category_id"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
