package cli

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/loanwise/client/internal/client/draft"
	"github.com/loanwise/client/internal/client/models"
)

// fieldPrompt is one step of the interactive form fill.
type fieldPrompt struct {
	field  string
	prompt string
}

// fieldPrompts mirrors the order of the web application form. Optional
// fields say so in the prompt; a blank answer keeps the current value.
var fieldPrompts = []fieldPrompt{
	{draft.FieldFirstName, "First name"},
	{draft.FieldLastName, "Last name"},
	{draft.FieldEmail, "Email"},
	{draft.FieldPhone, "Phone"},
	{draft.FieldDateOfBirth, "Date of birth (" + draft.DateOfBirthLayout + ")"},
	{draft.FieldStreet, "Street"},
	{draft.FieldCity, "City"},
	{draft.FieldState, "State"},
	{draft.FieldPostalCode, "Postal code"},
	{draft.FieldLoanAmount, "Loan amount"},
	{draft.FieldLoanPurpose, "Loan purpose (home/education/personal/business/vehicle/other)"},
	{draft.FieldLoanTermMonths, "Loan term in months"},
	{draft.FieldEmploymentStatus, "Employment status (employed/self-employed/unemployed/student/retired)"},
	{draft.FieldEmployerName, "Employer name (if employed)"},
	{draft.FieldJobTitle, "Job title (if employed)"},
	{draft.FieldAnnualIncome, "Annual income"},
	{draft.FieldMonthlyExpenses, "Monthly expenses"},
	{draft.FieldCreditScore, "Credit score (optional)"},
	{draft.FieldHasExistingLoans, "Existing loans? (true/false)"},
}

// Apply walks the user through the loan application form, attaches the
// required documents and submits the draft once it validates cleanly.
//
// The in-progress draft survives a failed validation: running apply again
// resumes with the values already entered, and blank answers keep them.
func (a *App) Apply(ctx context.Context) error {
	if !a.navigate("/loan-application") {
		return nil
	}

	if a.draft == nil {
		a.draft = draft.NewBuilder(draft.WithMinLoanAmount(a.config.MinLoanAmount))
	}
	b := a.draft

	for _, fp := range fieldPrompts {
		prompt := fp.prompt
		if cur := b.Field(fp.field); cur != "" {
			prompt = fmt.Sprintf("%s [%s]", prompt, cur)
		}
		value, err := getSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return err
		}
		if value == "" {
			continue
		}
		if err := b.SetField(fp.field, value); err != nil {
			printlnFn(fmt.Sprintf("  %s: %s", fp.field, err.Error()))
		}
	}

	for _, slot := range models.RequiredSlots() {
		prompt := fmt.Sprintf("Path to %s file", slot)
		if att, ok := b.Document(slot); ok {
			prompt = fmt.Sprintf("%s [%s]", prompt, att.FileName)
		}
		path, err := getSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return err
		}
		if path == "" {
			continue
		}
		if err := a.attachFile(b, slot, path); err != nil {
			printlnFn(fmt.Sprintf("  %s: %s", slot, err.Error()))
		}
	}

	if fe := b.Validate(); len(fe) > 0 {
		printlnFn("The application is not complete yet:")
		printFieldErrors(fe)
		printlnFn("Run 'apply' again to fix the remaining fields.")
		return fe
	}

	sub, err := b.ToSubmission()
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	app, err := a.loans.Submit(ctx, sub)
	if err != nil {
		printlnFn("Submission failed:", err.Error())
		return err
	}

	a.draft = nil
	printlnFn(fmt.Sprintf("Application %s submitted, status %s.", app.ID, app.Status))
	return nil
}

// attachFile reads path from disk and stages it on the draft under slot.
// The content type is derived from the file extension.
func (a *App) attachFile(b *draft.Builder, slot models.DocumentSlot, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return b.SetDocument(slot, models.Attachment{
		Slot:        slot,
		FileName:    filepath.Base(path),
		ContentType: contentType,
		Content:     content,
	})
}
