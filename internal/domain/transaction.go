package domain

import (
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	Credit TransactionType = "entrada"
	Debit  TransactionType = "saída"
)

// MaxDescriptionLength is counted in characters, not bytes.
const MaxDescriptionLength = 20

// Value limits. MaxValue is the largest integer a JSON client can carry
// without losing precision (2^53-1).
const (
	maxValueIntDigits = 16
	MaxValueScale     = 16
)

var MaxValue = decimal.New(1<<53-1, 0)

func (t TransactionType) Valid() bool {
	return t == Credit || t == Debit
}

type Transaction struct {
	ID          int64           `db:"id" json:"id"`
	UserID      int64           `db:"userId" json:"userId"`
	Date        time.Time       `db:"date" json:"date"`
	Value       decimal.Decimal `db:"value" json:"value"`
	Description string          `db:"description" json:"description"`
	Type        TransactionType `db:"type" json:"type"`
}

// Validate checks the fields a client supplies.
func (t *Transaction) Validate() error {
	if !t.Type.Valid() {
		return ErrInvalidTransaction
	}
	if t.Description == "" || utf8.RuneCountInString(t.Description) > MaxDescriptionLength {
		return ErrInvalidTransaction
	}
	if !validValue(t.Value) {
		return ErrInvalidTransaction
	}
	return nil
}

// validValue bounds magnitude and scale. The digit-count checks come first
// and only look at the coefficient and exponent, so a value such as 1e2000000
// is rejected without ever being expanded.
func validValue(v decimal.Decimal) bool {
	exp := int64(v.Exponent())
	if exp < -MaxValueScale {
		return false
	}
	if v.IsZero() {
		return true
	}
	if int64(v.NumDigits())+exp > maxValueIntDigits {
		return false
	}
	return v.Abs().Cmp(MaxValue) <= 0
}
