package devserver

import (
	"fmt"
	"time"

	"github.com/loanwise/client/internal/client/draft"
	"github.com/loanwise/client/internal/client/models"
)

const decisionCreditScoreFloor = 600

// decide applies the deterministic underwriting rules to a stored
// application and produces its decision. The rules in order:
//
//  1. all four documents must have been uploaded;
//  2. the applicant must be at least 18 on the decision date;
//  3. a provided credit score must be 600 or better;
//  4. the loan amount must not exceed half the annual income.
//
// The first violated rule becomes the rejection message.
func decide(app *StoredApplication) *models.ValidationResult {
	res := &models.ValidationResult{
		ApplicationID:  app.ID,
		ValidationDate: time.Now(),
	}

	for _, slot := range models.RequiredSlots() {
		if _, ok := app.Documents[slot]; !ok {
			res.Message = fmt.Sprintf("Missing required document: %s", slot)
			return res
		}
	}

	if dob, err := time.Parse(draft.DateOfBirthLayout, app.DateOfBirth); err != nil || age(dob, res.ValidationDate) < 18 {
		res.Message = "You must be at least 18 years old"
		return res
	}

	if app.CreditScore != 0 && app.CreditScore < decisionCreditScoreFloor {
		res.Message = fmt.Sprintf("Credit score %d is below the minimum of %d", app.CreditScore, decisionCreditScoreFloor)
		return res
	}

	if app.LoanAmount > app.AnnualIncome/2 {
		res.Message = "Requested amount exceeds half of the annual income"
		return res
	}

	res.Approved = true
	res.Message = "Application approved"
	return res
}

func age(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	if now.YearDay() < dob.YearDay() {
		years--
	}
	return years
}
