package validator

import (
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"cashbook/internal/models"
)

// Field names reported in FieldErrors. They match the JSON keys of Input.
const (
	FieldTransactionType = "transactionType"
	FieldCategoryID      = "categoryId"
	FieldTransactionDate = "transactionDate"
	FieldAmount          = "amount"
	FieldDescription     = "description"
)

// Limits and skew applied by the schema.
const (
	DescriptionMin = 3
	DescriptionMax = 300
	DateSkew       = 24 * time.Hour
	dateLayout     = "2006-01-02"
)

// Messages reported per field.
const (
	MsgTransactionType  = "Transaction type must be income or expense"
	MsgCategory         = "Please select a category"
	MsgDateRequired     = "Transaction date is required"
	MsgDateInvalid      = "Transaction date must be YYYY-MM-DD or RFC 3339"
	MsgDateFuture       = "Transaction date cannot be in the future"
	MsgAmount           = "Amount must be greater than 0"
	MsgDescriptionShort = "Description must contain at least 3 characters"
	MsgDescriptionLong  = "Description must contain a maximum of 300 characters"
)

// Input is a candidate transaction exactly as submitted by a form.
type Input struct {
	TransactionType Value `json:"transactionType"`
	CategoryID      Value `json:"categoryId"`
	TransactionDate Value `json:"transactionDate"`
	Amount          Value `json:"amount"`
	Description     Value `json:"description"`
}

// Payload is a validated, normalized transaction: the date is in UTC and the
// amount is in canonical decimal form.
type Payload struct {
	TransactionType models.TransactionType `json:"transactionType" validate:"transaction_type"`
	CategoryID      uint                   `json:"categoryId" validate:"gt=0"`
	TransactionDate time.Time              `json:"transactionDate" validate:"not_after_skew"`
	Amount          decimal.Decimal        `json:"amount"`
	Description     string                 `json:"description" validate:"min=3,max=300"`
}

// Input renders the payload back into form values. Validating the result
// yields the same payload.
func (p Payload) Input() Input {
	return Input{
		TransactionType: Value(p.TransactionType),
		CategoryID:      Value(strconv.FormatUint(uint64(p.CategoryID), 10)),
		TransactionDate: Value(FormatDate(p.TransactionDate)),
		Amount:          Value(p.Amount.String()),
		Description:     Value(p.Description),
	}
}

// FieldErrors maps a field name to its violation message.
type FieldErrors map[string]string

// Error implements error so FieldErrors can travel through error returns.
func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, field := range []string{FieldTransactionType, FieldCategoryID, FieldTransactionDate, FieldAmount, FieldDescription} {
		if msg, ok := fe[field]; ok {
			parts = append(parts, field+": "+msg)
		}
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Schema checks and normalizes transaction input.
type Schema struct {
	validate *validator.Validate
	now      func() time.Time
}

// Option configures a Schema.
type Option func(*Schema)

// WithClock overrides the clock used for the transaction date bound.
func WithClock(now func() time.Time) Option {
	return func(s *Schema) { s.now = now }
}

// NewSchema builds a Schema backed by a dedicated validator instance.
func NewSchema(opts ...Option) *Schema {
	s := &Schema{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("transaction_type", validateTransactionType)
	_ = v.RegisterValidation("not_after_skew", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		return ok && !t.After(s.now().Add(DateSkew))
	})
	s.validate = v
	return s
}

// Validate coerces every field and applies every rule, collecting one message
// per violated field. It has no side effects.
func (s *Schema) Validate(in Input) (Payload, FieldErrors) {
	errs := FieldErrors{}
	p := Payload{
		TransactionType: models.TransactionType(in.TransactionType),
		Description:     string(in.Description),
	}

	if id, ok := coerceCategoryID(in.CategoryID); ok {
		p.CategoryID = id
	} else {
		errs[FieldCategoryID] = MsgCategory
	}

	switch date, err := ParseDate(string(in.TransactionDate)); {
	case errors.Is(err, errDateMissing):
		errs[FieldTransactionDate] = MsgDateRequired
	case err != nil:
		errs[FieldTransactionDate] = MsgDateInvalid
	default:
		p.TransactionDate = date
	}

	if amount, ok := coerceAmount(in.Amount); ok {
		p.Amount = amount
	} else {
		errs[FieldAmount] = MsgAmount
	}

	if err := s.validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				if _, seen := errs[fe.Field()]; seen {
					continue
				}
				errs[fe.Field()] = message(fe)
			}
		}
	}

	if len(errs) > 0 {
		return Payload{}, errs
	}
	return p, nil
}

func message(fe validator.FieldError) string {
	switch fe.Field() {
	case FieldTransactionType:
		return MsgTransactionType
	case FieldCategoryID:
		return MsgCategory
	case FieldTransactionDate:
		return MsgDateFuture
	case FieldAmount:
		return MsgAmount
	case FieldDescription:
		if fe.Tag() == "max" {
			return MsgDescriptionLong
		}
		return MsgDescriptionShort
	}
	return fe.Error()
}

// coerceCategoryID accepts any numeric text that denotes a positive integer
// ("3", "3.0", " 3 "). Empty text coerces to 0 and is rejected.
func coerceCategoryID(v Value) (uint, bool) {
	d, ok := coerceNumber(v)
	if !ok || !d.IsInteger() || !d.IsPositive() || d.GreaterThan(decimal.NewFromInt(math.MaxUint32)) {
		return 0, false
	}
	return uint(d.IntPart()), true
}

// coerceAmount accepts positive decimal text and returns it in canonical form
// so that "42.50" and "42.5" normalize to the same value.
func coerceAmount(v Value) (decimal.Decimal, bool) {
	d, ok := coerceNumber(v)
	if !ok || !d.IsPositive() {
		return decimal.Zero, false
	}
	canonical, err := decimal.NewFromString(d.String())
	if err != nil {
		return decimal.Zero, false
	}
	return canonical, true
}

func coerceNumber(v Value) (decimal.Decimal, bool) {
	s := strings.TrimSpace(string(v))
	if s == "" {
		return decimal.Zero, true
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

var errDateMissing = errors.New("date missing")

// ParseDate accepts YYYY-MM-DD (midnight UTC) or RFC 3339 and returns UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errDateMissing
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// FormatDate renders a date the way ParseDate reads it back: midnight UTC as
// YYYY-MM-DD, anything else as RFC 3339.
func FormatDate(t time.Time) string {
	t = t.UTC()
	if t.Equal(t.Truncate(24 * time.Hour)) {
		return t.Format(dateLayout)
	}
	return t.Format(time.RFC3339Nano)
}
