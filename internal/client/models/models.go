// Package models holds the wire-level and client-cached domain types shared
// by the transport client, the draft builder, and the services on top.
package models

import "time"

// User is the profile cached next to the session token.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ApplicationStatus is the server-owned lifecycle state of an application.
// The only transitions are PENDING -> APPROVED and PENDING -> REJECTED;
// both targets are terminal from the client's perspective.
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "PENDING"
	StatusApproved ApplicationStatus = "APPROVED"
	StatusRejected ApplicationStatus = "REJECTED"
)

// Terminal reports whether no further approval requests make sense.
func (s ApplicationStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// LoanApplication is the server-owned record. The client holds it only as a
// read cache and never mutates it directly.
type LoanApplication struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`

	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dateOfBirth"`

	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`

	LoanAmount     float64 `json:"loanAmount"`
	LoanPurpose    string  `json:"loanPurpose"`
	LoanTermMonths int     `json:"loanTermMonths"`

	EmploymentStatus string `json:"employmentStatus"`
	EmployerName     string `json:"employerName"`
	JobTitle         string `json:"jobTitle"`

	AnnualIncome     float64 `json:"annualIncome"`
	MonthlyExpenses  float64 `json:"monthlyExpenses"`
	CreditScore      int     `json:"creditScore,omitempty"`
	HasExistingLoans bool    `json:"hasExistingLoans"`

	Status    ApplicationStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
}

// ValidationResult is the backend's approve/reject decision for a submitted
// application. Zero or one exists per application; absence means the decision
// has not been requested yet. Immutable once created.
type ValidationResult struct {
	ApplicationID  string    `json:"applicationId"`
	Approved       bool      `json:"approved"`
	Message        string    `json:"message"`
	ValidationDate time.Time `json:"validationDate"`
}

// DocumentSlot names a required attachment point on a draft. The values are
// part of the backend contract: each uploaded file is tagged with its slot so
// the server can distinguish document types.
type DocumentSlot string

const (
	SlotIdentity       DocumentSlot = "identityDocument"
	SlotTaxID          DocumentSlot = "taxIdDocument"
	SlotIncomeProof    DocumentSlot = "incomeProofDocument"
	SlotBankStatements DocumentSlot = "bankStatementsDocument"
)

// RequiredSlots lists every slot that must be filled before submission,
// in a stable order.
func RequiredSlots() []DocumentSlot {
	return []DocumentSlot{SlotIdentity, SlotTaxID, SlotIncomeProof, SlotBankStatements}
}

// Attachment is a document staged on a draft and shipped in the multipart
// submit request under its slot name.
type Attachment struct {
	Slot        DocumentSlot
	FileName    string
	ContentType string
	Content     []byte
}

// Submission is the immutable payload produced by a fully validated draft.
// Fields keeps the form values exactly as entered; Documents carries one
// attachment per required slot.
type Submission struct {
	DraftID   string
	Fields    map[string]string
	Documents []Attachment
}
