// Package draft accumulates loan-application form values and attached
// documents, validates completeness, and produces the immutable submission
// payload. Validation is local only: nothing in this package touches the
// network.
package draft

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/loanwise/client/internal/client/models"
)

// Form field names. They double as multipart part names on submission.
const (
	FieldFirstName        = "firstName"
	FieldLastName         = "lastName"
	FieldEmail            = "email"
	FieldPhone            = "phone"
	FieldDateOfBirth      = "dateOfBirth"
	FieldStreet           = "street"
	FieldCity             = "city"
	FieldState            = "state"
	FieldPostalCode       = "postalCode"
	FieldLoanAmount       = "loanAmount"
	FieldLoanPurpose      = "loanPurpose"
	FieldLoanTermMonths   = "loanTermMonths"
	FieldEmploymentStatus = "employmentStatus"
	FieldEmployerName     = "employerName"
	FieldJobTitle         = "jobTitle"
	FieldAnnualIncome     = "annualIncome"
	FieldMonthlyExpenses  = "monthlyExpenses"
	FieldCreditScore      = "creditScore"
	FieldHasExistingLoans = "hasExistingLoans"
)

// DateOfBirthLayout is the accepted date format for FieldDateOfBirth.
const DateOfBirthLayout = "2006-01-02"

const (
	minApplicantAge = 18
	minCreditScore  = 300
	maxCreditScore  = 850
)

var (
	// ErrDraftNotReady is returned by ToSubmission while Validate still
	// reports errors.
	ErrDraftNotReady = errors.New("draft is not ready for submission")

	// ErrUnknownSlot is returned by SetDocument for a slot outside the
	// backend contract.
	ErrUnknownSlot = errors.New("unknown document slot")
)

// numericFields reject non-numeric input at the storage boundary; every
// other rule waits for Validate.
var numericFields = map[string]bool{
	FieldLoanAmount:      true,
	FieldLoanTermMonths:  true,
	FieldAnnualIncome:    true,
	FieldMonthlyExpenses: true,
	FieldCreditScore:     true,
}

// requiredFields fail validation when empty, in the order errors are likely
// to appear on the form.
var requiredFields = []string{
	FieldFirstName, FieldLastName, FieldEmail, FieldPhone, FieldDateOfBirth,
	FieldStreet, FieldCity, FieldState, FieldPostalCode,
	FieldLoanAmount, FieldLoanPurpose, FieldLoanTermMonths,
	FieldEmploymentStatus, FieldAnnualIncome,
}

// employmentExempt lists the statuses under which employer and job title are
// not required.
var employmentExempt = map[string]bool{
	"unemployed": true,
	"student":    true,
	"retired":    true,
}

// acceptedExtensions is the declarative per-slot format contract. The draft
// does not reject attachments by type; the backend does.
var acceptedExtensions = map[models.DocumentSlot][]string{
	models.SlotIdentity:       {".pdf", ".jpg", ".jpeg", ".png"},
	models.SlotTaxID:          {".pdf", ".jpg", ".jpeg", ".png"},
	models.SlotIncomeProof:    {".pdf"},
	models.SlotBankStatements: {".pdf", ".xls", ".xlsx"},
}

// AcceptedExtensions returns the file extensions the backend accepts for a
// slot, or nil for an unknown slot.
func AcceptedExtensions(slot models.DocumentSlot) []string {
	exts := acceptedExtensions[slot]
	out := make([]string, len(exts))
	copy(out, exts)
	return out
}

// Builder is a client-local, not-yet-submitted application. It is created
// empty, mutated field by field, and consumed by ToSubmission. Not safe for
// concurrent use; a draft belongs to a single form.
type Builder struct {
	id            string
	fields        map[string]string
	documents     map[models.DocumentSlot]models.Attachment
	minLoanAmount float64
}

// Option configures a Builder.
type Option func(*Builder)

// WithMinLoanAmount enforces a configured lower bound on the loan amount
// during validation.
func WithMinLoanAmount(min float64) Option {
	return func(b *Builder) { b.minLoanAmount = min }
}

func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		id:        uuid.NewString(),
		fields:    make(map[string]string),
		documents: make(map[models.DocumentSlot]models.Attachment),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ID identifies the draft for logging; it is not the application id.
func (b *Builder) ID() string { return b.id }

// SetField stores a trimmed value. Numeric fields reject non-numeric input
// here; all other rules are deferred to Validate. Setting "" clears a field.
func (b *Builder) SetField(name, value string) error {
	value = strings.TrimSpace(value)
	if value != "" && numericFields[name] {
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return fmt.Errorf("field %s must be numeric", name)
		}
	}
	if value != "" && name == FieldHasExistingLoans {
		if _, err := strconv.ParseBool(value); err != nil {
			return fmt.Errorf("field %s must be true or false", name)
		}
	}
	if value == "" {
		delete(b.fields, name)
		return nil
	}
	b.fields[name] = value
	return nil
}

// Field returns the stored value, "" when unset.
func (b *Builder) Field(name string) string { return b.fields[name] }

// SetDocument stages an attachment in one of the named slots, replacing any
// previous one. Size and type are not constrained at this layer.
func (b *Builder) SetDocument(slot models.DocumentSlot, att models.Attachment) error {
	if _, ok := acceptedExtensions[slot]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSlot, slot)
	}
	att.Slot = slot
	b.documents[slot] = att
	return nil
}

// Document returns the staged attachment and whether the slot is filled.
func (b *Builder) Document(slot models.DocumentSlot) (models.Attachment, bool) {
	att, ok := b.documents[slot]
	return att, ok
}

// Validate returns the full set of field-level errors, empty when the draft
// is submittable.
func (b *Builder) Validate() models.FieldErrors {
	errs := models.FieldErrors{}

	for _, name := range requiredFields {
		if b.fields[name] == "" {
			errs[name] = requiredMessage(name)
		}
	}

	if v := b.fields[FieldLoanAmount]; v != "" {
		amount, _ := strconv.ParseFloat(v, 64)
		switch {
		case amount <= 0:
			errs[FieldLoanAmount] = "Please enter a valid loan amount"
		case b.minLoanAmount > 0 && amount < b.minLoanAmount:
			errs[FieldLoanAmount] = fmt.Sprintf("Loan amount must be at least %.0f", b.minLoanAmount)
		}
	}

	if v := b.fields[FieldLoanTermMonths]; v != "" {
		months, err := strconv.Atoi(v)
		if err != nil || months <= 0 {
			errs[FieldLoanTermMonths] = "Please enter a valid term in months"
		}
	}

	if v := b.fields[FieldDateOfBirth]; v != "" {
		dob, err := time.Parse(DateOfBirthLayout, v)
		switch {
		case err != nil:
			errs[FieldDateOfBirth] = "Enter date of birth as YYYY-MM-DD"
		case ageAt(dob, time.Now()) < minApplicantAge:
			errs[FieldDateOfBirth] = "You must be at least 18 years old"
		}
	}

	if v := b.fields[FieldAnnualIncome]; v != "" {
		income, _ := strconv.ParseFloat(v, 64)
		if income <= 0 {
			errs[FieldAnnualIncome] = "Please enter a valid income amount"
		}
	}

	if v := b.fields[FieldMonthlyExpenses]; v != "" {
		expenses, _ := strconv.ParseFloat(v, 64)
		if expenses < 0 {
			errs[FieldMonthlyExpenses] = "Expenses cannot be negative"
		}
	}

	if v := b.fields[FieldCreditScore]; v != "" {
		score, err := strconv.Atoi(v)
		if err != nil || score < minCreditScore || score > maxCreditScore {
			errs[FieldCreditScore] = fmt.Sprintf("Credit score must be between %d and %d", minCreditScore, maxCreditScore)
		}
	}

	if status := b.fields[FieldEmploymentStatus]; status != "" && !employmentExempt[strings.ToLower(status)] {
		if b.fields[FieldEmployerName] == "" {
			errs[FieldEmployerName] = requiredMessage(FieldEmployerName)
		}
		if b.fields[FieldJobTitle] == "" {
			errs[FieldJobTitle] = requiredMessage(FieldJobTitle)
		}
	}

	for _, slot := range models.RequiredSlots() {
		if _, ok := b.documents[slot]; !ok {
			errs[string(slot)] = requiredMessage(string(slot))
		}
	}

	return errs
}

// ToSubmission consumes the draft into an immutable payload. It fails with
// ErrDraftNotReady while Validate still reports errors; call Validate for
// the field-level details.
func (b *Builder) ToSubmission() (*models.Submission, error) {
	if errs := b.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %d field errors", ErrDraftNotReady, len(errs))
	}

	fields := make(map[string]string, len(b.fields))
	for k, v := range b.fields {
		fields[k] = v
	}

	docs := make([]models.Attachment, 0, len(b.documents))
	for _, slot := range models.RequiredSlots() {
		att := b.documents[slot]
		att.Content = append([]byte(nil), att.Content...)
		docs = append(docs, att)
	}

	return &models.Submission{DraftID: b.id, Fields: fields, Documents: docs}, nil
}

// fieldLabels drives the "X is required" messages shown beside form inputs.
var fieldLabels = map[string]string{
	FieldFirstName:        "First name",
	FieldLastName:         "Last name",
	FieldEmail:            "Email",
	FieldPhone:            "Phone number",
	FieldDateOfBirth:      "Date of birth",
	FieldStreet:           "Street address",
	FieldCity:             "City",
	FieldState:            "State",
	FieldPostalCode:       "Postal code",
	FieldLoanAmount:       "Loan amount",
	FieldLoanPurpose:      "Loan purpose",
	FieldLoanTermMonths:   "Loan term",
	FieldEmploymentStatus: "Employment status",
	FieldEmployerName:     "Employer name",
	FieldJobTitle:         "Job title",
	FieldAnnualIncome:     "Annual income",
}

var slotLabels = map[models.DocumentSlot]string{
	models.SlotIdentity:       "Identity document",
	models.SlotTaxID:          "Tax ID document",
	models.SlotIncomeProof:    "Income proof",
	models.SlotBankStatements: "Bank statements",
}

func requiredMessage(field string) string {
	label := fieldLabels[field]
	if label == "" {
		label = slotLabels[models.DocumentSlot(field)]
	}
	if label == "" {
		label = field
	}
	return label + " is required"
}

// ageAt computes full years between dob and now.
func ageAt(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	if now.YearDay() < dob.YearDay() {
		years--
	}
	return years
}
