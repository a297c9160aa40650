package draft

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loanwise/client/internal/client/models"
)

func attachment(slot models.DocumentSlot) models.Attachment {
	return models.Attachment{
		Slot:        slot,
		FileName:    string(slot) + ".pdf",
		ContentType: "application/pdf",
		Content:     []byte("%PDF-1.4"),
	}
}

// fillValid populates every required field with plausible values: loan amount
// 5000, applicant age 25, annual income 40000, plus all four documents.
func fillValid(t *testing.T, b *Builder) {
	t.Helper()

	dob := time.Now().AddDate(-25, 0, 0).Format(DateOfBirthLayout)

	fields := map[string]string{
		FieldFirstName:        "Alice",
		FieldLastName:         "Smith",
		FieldEmail:            "alice@example.com",
		FieldPhone:            "555-0100",
		FieldDateOfBirth:      dob,
		FieldStreet:           "1 Main St",
		FieldCity:             "Springfield",
		FieldState:            "IL",
		FieldPostalCode:       "62701",
		FieldLoanAmount:       "5000",
		FieldLoanPurpose:      "education",
		FieldLoanTermMonths:   "24",
		FieldEmploymentStatus: "Employed",
		FieldEmployerName:     "Acme Corp",
		FieldJobTitle:         "Engineer",
		FieldAnnualIncome:     "40000",
	}
	for name, value := range fields {
		require.NoError(t, b.SetField(name, value))
	}
	for _, slot := range models.RequiredSlots() {
		require.NoError(t, b.SetDocument(slot, attachment(slot)))
	}
}

func TestValidate_EmptyDraft_OneErrorPerRequiredFieldAndDocument(t *testing.T) {
	b := NewBuilder()
	errs := b.Validate()

	// 14 required form fields + 4 required document slots.
	require.Len(t, errs, len(requiredFields)+len(models.RequiredSlots()))
	for _, name := range requiredFields {
		assert.Contains(t, errs, name)
	}
	for _, slot := range models.RequiredSlots() {
		assert.Contains(t, errs, string(slot))
	}
	// Employer and job title are conditional, not part of the empty-draft set.
	assert.NotContains(t, errs, FieldEmployerName)
	assert.NotContains(t, errs, FieldJobTitle)
}

func TestValidate_CompleteDraftHasNoErrors(t *testing.T) {
	b := NewBuilder()
	fillValid(t, b)
	require.Empty(t, b.Validate())
}

func TestSetField_NumericBoundary(t *testing.T) {
	b := NewBuilder()

	require.Error(t, b.SetField(FieldLoanAmount, "lots"))
	require.Error(t, b.SetField(FieldAnnualIncome, "40k"))
	require.NoError(t, b.SetField(FieldLoanAmount, "5000"))
	require.NoError(t, b.SetField(FieldFirstName, "Alice"))

	// Clearing a field is always allowed.
	require.NoError(t, b.SetField(FieldLoanAmount, ""))
	require.Empty(t, b.Field(FieldLoanAmount))
}

func TestValidate_LoanAmountRules(t *testing.T) {
	b := NewBuilder()
	fillValid(t, b)

	require.NoError(t, b.SetField(FieldLoanAmount, "0"))
	require.Contains(t, b.Validate(), FieldLoanAmount)

	require.NoError(t, b.SetField(FieldLoanAmount, "-10"))
	require.Contains(t, b.Validate(), FieldLoanAmount)
}

func TestValidate_ConfiguredMinimumLoanAmount(t *testing.T) {
	b := NewBuilder(WithMinLoanAmount(1000))
	fillValid(t, b)

	require.NoError(t, b.SetField(FieldLoanAmount, "500"))
	require.Contains(t, b.Validate(), FieldLoanAmount)

	require.NoError(t, b.SetField(FieldLoanAmount, "1000"))
	require.Empty(t, b.Validate())
}

func TestValidate_ApplicantMustBeAdult(t *testing.T) {
	b := NewBuilder()
	fillValid(t, b)

	minor := time.Now().AddDate(-17, 0, 0).Format(DateOfBirthLayout)
	require.NoError(t, b.SetField(FieldDateOfBirth, minor))
	errs := b.Validate()
	require.Equal(t, "You must be at least 18 years old", errs[FieldDateOfBirth])

	require.NoError(t, b.SetField(FieldDateOfBirth, "not-a-date"))
	require.Contains(t, b.Validate(), FieldDateOfBirth)
}

func TestValidate_EmployerRequiredOnlyWhenEmployed(t *testing.T) {
	for _, status := range []string{"Unemployed", "Student", "Retired"} {
		t.Run(status, func(t *testing.T) {
			b := NewBuilder()
			fillValid(t, b)
			require.NoError(t, b.SetField(FieldEmploymentStatus, status))
			require.NoError(t, b.SetField(FieldEmployerName, ""))
			require.NoError(t, b.SetField(FieldJobTitle, ""))
			require.Empty(t, b.Validate())
		})
	}

	b := NewBuilder()
	fillValid(t, b)
	require.NoError(t, b.SetField(FieldEmploymentStatus, "Self-Employed"))
	require.NoError(t, b.SetField(FieldEmployerName, ""))
	require.NoError(t, b.SetField(FieldJobTitle, ""))

	errs := b.Validate()
	require.Contains(t, errs, FieldEmployerName)
	require.Contains(t, errs, FieldJobTitle)
}

func TestValidate_CreditScoreRange(t *testing.T) {
	b := NewBuilder()
	fillValid(t, b)

	// Optional: absent is fine.
	require.Empty(t, b.Validate())

	require.NoError(t, b.SetField(FieldCreditScore, "299"))
	require.Contains(t, b.Validate(), FieldCreditScore)

	require.NoError(t, b.SetField(FieldCreditScore, "851"))
	require.Contains(t, b.Validate(), FieldCreditScore)

	require.NoError(t, b.SetField(FieldCreditScore, "700"))
	require.Empty(t, b.Validate())
}

func TestToSubmission_FailsWhileDraftNotReady(t *testing.T) {
	b := NewBuilder()
	_, err := b.ToSubmission()
	require.ErrorIs(t, err, ErrDraftNotReady)

	// Fixing all but one field still fails.
	fillValid(t, b)
	require.NoError(t, b.SetField(FieldLoanAmount, ""))
	_, err = b.ToSubmission()
	require.ErrorIs(t, err, ErrDraftNotReady)
}

func TestToSubmission_ProducesImmutablePayload(t *testing.T) {
	b := NewBuilder()
	fillValid(t, b)

	sub, err := b.ToSubmission()
	require.NoError(t, err)
	require.Equal(t, b.ID(), sub.DraftID)
	require.Equal(t, "5000", sub.Fields[FieldLoanAmount])
	require.Len(t, sub.Documents, len(models.RequiredSlots()))

	// Mutating the builder afterwards must not leak into the payload.
	require.NoError(t, b.SetField(FieldLoanAmount, "9999"))
	require.Equal(t, "5000", sub.Fields[FieldLoanAmount])
}

func TestSetDocument_UnknownSlot(t *testing.T) {
	b := NewBuilder()
	err := b.SetDocument(models.DocumentSlot("selfieWithCat"), models.Attachment{})
	require.ErrorIs(t, err, ErrUnknownSlot)
}

func TestAcceptedExtensions(t *testing.T) {
	require.Equal(t, []string{".pdf"}, AcceptedExtensions(models.SlotIncomeProof))
	require.Contains(t, AcceptedExtensions(models.SlotBankStatements), ".xlsx")
	require.Contains(t, AcceptedExtensions(models.SlotIdentity), ".jpg")
	require.Empty(t, AcceptedExtensions(models.DocumentSlot("nope")))
}

func TestSetField_BooleanBoundary(t *testing.T) {
	b := NewBuilder()
	require.Error(t, b.SetField(FieldHasExistingLoans, "maybe"))
	require.NoError(t, b.SetField(FieldHasExistingLoans, "true"))
}

func ExampleBuilder_Validate() {
	b := NewBuilder()
	_ = b.SetField(FieldLoanAmount, "5000")
	errs := b.Validate()
	fmt.Println(errs[FieldLoanPurpose])
	// Output: Loan purpose is required
}
