package validator

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cashbook/internal/models"
)

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestSchema() *Schema {
	return NewSchema(WithClock(func() time.Time { return fixedNow }))
}

func validInput() Input {
	return Input{
		TransactionType: "expense",
		CategoryID:      "3",
		TransactionDate: "2025-06-15",
		Amount:          "42.50",
		Description:     "Groceries",
	}
}

func TestValidate_AcceptsValidInput(t *testing.T) {
	p, errs := newTestSchema().Validate(validInput())
	require.Empty(t, errs)

	assert.Equal(t, models.TransactionTypeExpense, p.TransactionType)
	assert.Equal(t, uint(3), p.CategoryID)
	assert.True(t, p.TransactionDate.Equal(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)))
	assert.True(t, p.Amount.Equal(decimal.RequireFromString("42.5")))
	assert.Equal(t, "Groceries", p.Description)
}

func TestValidate_CategoryZeroIsOnlyError(t *testing.T) {
	_, errs := newTestSchema().Validate(Input{
		TransactionType: "income",
		CategoryID:      "0",
		TransactionDate: "2025-06-15",
		Amount:          "10",
		Description:     "Pay",
	})

	require.Len(t, errs, 1)
	assert.Equal(t, MsgCategory, errs[FieldCategoryID])
}

func TestValidate_CollectsEveryViolation(t *testing.T) {
	_, errs := newTestSchema().Validate(Input{
		TransactionType: "transfer",
		CategoryID:      "abc",
		TransactionDate: "2030-01-01",
		Amount:          "-1",
		Description:     "x",
	})

	assert.Equal(t, FieldErrors{
		FieldTransactionType: MsgTransactionType,
		FieldCategoryID:      MsgCategory,
		FieldTransactionDate: MsgDateFuture,
		FieldAmount:          MsgAmount,
		FieldDescription:     MsgDescriptionShort,
	}, errs)
}

func TestValidate_Description(t *testing.T) {
	tests := []struct {
		name    string
		desc    string
		wantMsg string
	}{
		{"empty", "", MsgDescriptionShort},
		{"two chars", "ab", MsgDescriptionShort},
		{"three chars", "abc", ""},
		{"three runes multibyte", "ééé", ""},
		{"three hundred", strings.Repeat("a", 300), ""},
		{"three hundred one", strings.Repeat("a", 301), MsgDescriptionLong},
		{"three hundred runes multibyte", strings.Repeat("ü", 300), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			in.Description = Value(tt.desc)
			_, errs := newTestSchema().Validate(in)
			if tt.wantMsg == "" {
				assert.Empty(t, errs)
				return
			}
			assert.Equal(t, tt.wantMsg, errs[FieldDescription])
		})
	}
}

func TestValidate_DescriptionErrorIndependentOfOtherFields(t *testing.T) {
	others := []Input{
		validInput(),
		{TransactionType: "bogus", CategoryID: "", TransactionDate: "", Amount: "", Description: ""},
		{TransactionType: "income", CategoryID: "-4", TransactionDate: "not a date", Amount: "0", Description: ""},
	}
	for _, base := range others {
		for _, n := range []int{0, 1, 2, 301, 302, 500} {
			in := base
			in.Description = Value(strings.Repeat("d", n))
			_, errs := newTestSchema().Validate(in)
			assert.Contains(t, errs, FieldDescription, "length %d with %+v", n, base)
		}
	}
}

func TestValidate_Amount(t *testing.T) {
	tests := []struct {
		amount string
		valid  bool
	}{
		{"0", false},
		{"0.00", false},
		{"-5", false},
		{"", false},
		{"abc", false},
		{"NaN", false},
		{"0.01", true},
		{" 12 ", true},
		{"1e3", true},
		{"1e-400", true},
		{"-1e-400", false},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			in := validInput()
			in.Amount = Value(tt.amount)
			_, errs := newTestSchema().Validate(in)
			if tt.valid {
				assert.Empty(t, errs)
			} else {
				assert.Equal(t, MsgAmount, errs[FieldAmount])
			}
		})
	}
}

func TestValidate_CategoryID(t *testing.T) {
	tests := []struct {
		raw    string
		wantID uint
	}{
		{"1", 1},
		{" 7 ", 7},
		{"3.0", 3},
		{"", 0},
		{"0", 0},
		{"-1", 0},
		{"2.5", 0},
		{"abc", 0},
		{"99999999999", 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			in := validInput()
			in.CategoryID = Value(tt.raw)
			p, errs := newTestSchema().Validate(in)
			if tt.wantID == 0 {
				assert.Equal(t, MsgCategory, errs[FieldCategoryID])
				return
			}
			require.Empty(t, errs)
			assert.Equal(t, tt.wantID, p.CategoryID)
		})
	}
}

func TestValidate_TransactionDate(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		wantMsg string
	}{
		{"today", "2025-06-15", ""},
		{"tomorrow midnight", "2025-06-16", ""},
		{"exactly one day ahead", "2025-06-16T12:00:00Z", ""},
		{"one second past skew", "2025-06-16T12:00:01Z", MsgDateFuture},
		{"two days ahead", "2025-06-17", MsgDateFuture},
		{"offset within skew", "2025-06-16T13:00:00+02:00", ""},
		{"long ago", "1999-12-31", ""},
		{"empty", "", MsgDateRequired},
		{"wrong format", "15/06/2025", MsgDateInvalid},
		{"impossible day", "2025-02-30", MsgDateInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			in.TransactionDate = Value(tt.date)
			_, errs := newTestSchema().Validate(in)
			if tt.wantMsg == "" {
				assert.Empty(t, errs)
				return
			}
			assert.Equal(t, tt.wantMsg, errs[FieldTransactionDate])
		})
	}
}

func TestValidate_TransactionType(t *testing.T) {
	for _, typ := range []string{"", "Income", "transfer", "investment"} {
		in := validInput()
		in.TransactionType = Value(typ)
		_, errs := newTestSchema().Validate(in)
		assert.Equal(t, MsgTransactionType, errs[FieldTransactionType], "type %q", typ)
	}
}

func TestValidate_Idempotent(t *testing.T) {
	inputs := []Input{
		validInput(),
		{TransactionType: "income", CategoryID: "3.0", TransactionDate: "2025-06-14T23:30:00+05:00", Amount: "1000.000", Description: "Salary"},
		{TransactionType: "expense", CategoryID: " 12", TransactionDate: "2025-06-16T11:59:59.5Z", Amount: "1e2", Description: "Rent  "},
	}

	schema := newTestSchema()
	for _, in := range inputs {
		first, errs := schema.Validate(in)
		require.Empty(t, errs, "input %+v", in)

		second, errs := schema.Validate(first.Input())
		require.Empty(t, errs)
		assert.Equal(t, first, second)
	}
}

func TestValue_UnmarshalJSON(t *testing.T) {
	var in Input
	body := `{"transactionType":"expense","categoryId":3,"transactionDate":null,"amount":42.50,"description":true}`
	require.NoError(t, json.Unmarshal([]byte(body), &in))

	assert.Equal(t, Value("expense"), in.TransactionType)
	assert.Equal(t, Value("3"), in.CategoryID)
	assert.Equal(t, Value(""), in.TransactionDate)
	assert.Equal(t, Value("42.50"), in.Amount)
	assert.Equal(t, Value("true"), in.Description)
}

func TestFieldErrors_Error(t *testing.T) {
	errs := FieldErrors{
		FieldDescription: MsgDescriptionShort,
		FieldCategoryID:  MsgCategory,
	}
	assert.Equal(t,
		"validation failed: categoryId: Please select a category; description: Description must contain at least 3 characters",
		errs.Error())
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2025-06-15", FormatDate(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-06-15T08:30:00Z", FormatDate(time.Date(2025, 6, 15, 10, 30, 0, 0, time.FixedZone("CEST", 2*3600))))
}
