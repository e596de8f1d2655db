// Package form coordinates the transaction entry form: draft field state,
// category filtering by transaction type, validation and submission.
//
// The controller is a small state machine:
//
//	Idle --Submit(valid)--> Submitting --ok--> Success
//	  |                          |------fail--> Error
//	  '--Submit(invalid)--> Error
//
// Any edit from Success or Error returns to Idle. While Submitting every edit
// and every further Submit fails with ErrDisabled.
package form

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"cashbook/internal/models"
	"cashbook/internal/validator"
)

// State is the controller's lifecycle state.
type State int

const (
	Idle State = iota
	Submitting
	Error
	Success
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Error:
		return "error"
	case Success:
		return "success"
	}
	return "unknown"
}

var (
	// ErrDisabled is returned for edits and submits while a submission is in flight.
	ErrDisabled = errors.New("form is disabled while submitting")
	// ErrAbandoned is returned when the submit context ends before the callback
	// reports an outcome. Nothing is retried and no write is assumed.
	ErrAbandoned = errors.New("submission abandoned")
	// ErrCategoryNotSelectable is returned by SetCategoryID for ids outside Categories().
	ErrCategoryNotSelectable = errors.New("category is not selectable for this transaction type")
	// ErrNoSubmitFunc is wrapped in the SubmissionError of a controller built
	// without a submit callback.
	ErrNoSubmitFunc = errors.New("no submit callback configured")
)

// ValidationError reports field violations found before submission.
type ValidationError struct {
	Fields validator.FieldErrors
}

func (e *ValidationError) Error() string { return e.Fields.Error() }

// SubmissionError wraps a failure reported by the submit callback.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string { return "submission failed: " + e.Err.Error() }

func (e *SubmissionError) Unwrap() error { return e.Err }

// SubmitFunc receives a validated payload. The controller awaits it exactly
// once per successful validation.
type SubmitFunc func(ctx context.Context, payload validator.Payload) error

// Controller holds the mutable draft of one transaction form. It is safe for
// concurrent use so UI runtimes may run Submit off their event loop.
type Controller struct {
	mu         sync.Mutex
	schema     *validator.Schema
	now        func() time.Time
	submit     SubmitFunc
	categories []models.Category

	draft     validator.Input
	state     State
	fieldErrs validator.FieldErrors
	lastErr   error
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock sets the clock used for the default date and the date bound.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// New creates a controller over the full category list. submit is invoked
// with the normalized payload on every valid Submit and is required; with a
// nil submit every valid Submit fails with ErrNoSubmitFunc.
func New(categories []models.Category, submit SubmitFunc, opts ...Option) *Controller {
	c := &Controller{now: time.Now, submit: submit}
	for _, opt := range opts {
		opt(c)
	}
	c.schema = validator.NewSchema(validator.WithClock(c.now))
	c.categories = append([]models.Category(nil), categories...)
	c.draft = c.defaults()
	return c
}

func (c *Controller) defaults() validator.Input {
	return validator.Input{
		TransactionType: validator.Value(models.TransactionTypeIncome),
		CategoryID:      "0",
		TransactionDate: validator.Value(c.now().Format("2006-01-02")),
		Amount:          "0",
		Description:     "",
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Disabled reports whether edits are currently rejected.
func (c *Controller) Disabled() bool {
	return c.State() == Submitting
}

// Draft returns a copy of the current field values.
func (c *Controller) Draft() validator.Input {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// FieldErrors returns the field errors from the last failed Submit.
func (c *Controller) FieldErrors() validator.FieldErrors {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(validator.FieldErrors, len(c.fieldErrs))
	for k, v := range c.fieldErrs {
		out[k] = v
	}
	return out
}

// Err returns the error of the last Submit, or nil.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Categories returns the categories whose type matches the draft's
// transaction type, in list order.
func (c *Controller) Categories() []models.Category {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectableLocked()
}

func (c *Controller) selectableLocked() []models.Category {
	want := models.TransactionType(c.draft.TransactionType).CategoryType()
	out := make([]models.Category, 0, len(c.categories))
	for _, cat := range c.categories {
		if cat.Type == want {
			out = append(out, cat)
		}
	}
	return out
}

func (c *Controller) selectableIDLocked(id uint) bool {
	for _, cat := range c.selectableLocked() {
		if cat.ID == id {
			return true
		}
	}
	return false
}

// SetCategories replaces the full category list and re-derives the selection.
func (c *Controller) SetCategories(categories []models.Category) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.beginEditLocked(""); err != nil {
		return err
	}
	c.categories = append([]models.Category(nil), categories...)
	c.resetStaleCategoryLocked()
	return nil
}

// SetTransactionType changes the type and drops a selected category that no
// longer matches it.
func (c *Controller) SetTransactionType(t models.TransactionType) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.beginEditLocked(validator.FieldTransactionType); err != nil {
		return err
	}
	c.draft.TransactionType = validator.Value(t)
	c.resetStaleCategoryLocked()
	return nil
}

func (c *Controller) resetStaleCategoryLocked() {
	id, err := strconv.ParseUint(string(c.draft.CategoryID), 10, 32)
	if err != nil || id == 0 {
		return
	}
	if !c.selectableIDLocked(uint(id)) {
		c.draft.CategoryID = "0"
	}
}

// SetCategoryID selects a category from Categories(); 0 clears the selection.
func (c *Controller) SetCategoryID(id uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Submitting {
		return ErrDisabled
	}
	if id != 0 && !c.selectableIDLocked(id) {
		return fmt.Errorf("%w: %d", ErrCategoryNotSelectable, id)
	}
	_ = c.beginEditLocked(validator.FieldCategoryID)
	c.draft.CategoryID = validator.Value(strconv.FormatUint(uint64(id), 10))
	return nil
}

// Set stores raw text for a field, exactly as typed.
func (c *Controller) Set(field, value string) error {
	if field == validator.FieldTransactionType {
		return c.SetTransactionType(models.TransactionType(value))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Submitting {
		return ErrDisabled
	}
	v := validator.Value(value)
	switch field {
	case validator.FieldCategoryID:
		c.draft.CategoryID = v
	case validator.FieldTransactionDate:
		c.draft.TransactionDate = v
	case validator.FieldAmount:
		c.draft.Amount = v
	case validator.FieldDescription:
		c.draft.Description = v
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	_ = c.beginEditLocked(field)
	return nil
}

// Reset restores the defaults and returns to Idle.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Submitting {
		return ErrDisabled
	}
	c.draft = c.defaults()
	c.state = Idle
	c.fieldErrs = nil
	c.lastErr = nil
	return nil
}

// beginEditLocked rejects edits while submitting and otherwise moves the form
// back to Idle, clearing the edited field's error.
func (c *Controller) beginEditLocked(field string) error {
	if c.state == Submitting {
		return ErrDisabled
	}
	if c.state != Idle {
		c.state = Idle
		c.lastErr = nil
	}
	if field != "" {
		delete(c.fieldErrs, field)
	}
	return nil
}

// Submit validates the draft and, when valid, awaits the submit callback with
// the normalized payload. Field errors are returned as *ValidationError,
// callback failures as *SubmissionError. If ctx ends while the callback runs
// the form returns to Idle and ErrAbandoned is returned.
func (c *Controller) Submit(ctx context.Context) (validator.Payload, error) {
	c.mu.Lock()
	if c.state == Submitting {
		c.mu.Unlock()
		return validator.Payload{}, ErrDisabled
	}
	if err := ctx.Err(); err != nil {
		c.mu.Unlock()
		return validator.Payload{}, fmt.Errorf("%w: %w", ErrAbandoned, err)
	}

	payload, errs := c.schema.Validate(c.draft)
	if len(errs) == 0 && !c.selectableIDLocked(payload.CategoryID) {
		errs = validator.FieldErrors{validator.FieldCategoryID: validator.MsgCategory}
	}
	if len(errs) > 0 {
		c.state = Error
		c.fieldErrs = errs
		c.lastErr = &ValidationError{Fields: errs}
		err := c.lastErr
		c.mu.Unlock()
		return validator.Payload{}, err
	}

	if c.submit == nil {
		c.state = Error
		c.fieldErrs = nil
		c.lastErr = &SubmissionError{Err: ErrNoSubmitFunc}
		err := c.lastErr
		c.mu.Unlock()
		return validator.Payload{}, err
	}

	c.state = Submitting
	c.fieldErrs = nil
	c.lastErr = nil
	submit := c.submit
	c.mu.Unlock()

	err := submit(ctx, payload)

	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case err == nil:
		c.state = Success
		return payload, nil
	case ctx.Err() != nil:
		c.state = Idle
		c.lastErr = fmt.Errorf("%w: %w", ErrAbandoned, ctx.Err())
		return payload, c.lastErr
	default:
		var fields validator.FieldErrors
		if errors.As(err, &fields) {
			c.fieldErrs = fields
		}
		c.state = Error
		c.lastErr = &SubmissionError{Err: err}
		return payload, c.lastErr
	}
}
