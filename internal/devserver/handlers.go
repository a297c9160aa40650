package devserver

import (
	"errors"
	"io"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/loanwise/client/internal/client/draft"
	"github.com/loanwise/client/internal/client/models"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type approvalResponse struct {
	Application *models.LoanApplication  `json:"application"`
	Decision    *models.ValidationResult `json:"validationLog"`
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"message": message})
}

func (s *Server) handleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	switch {
	case req.Name == "":
		return fail(c, fiber.StatusBadRequest, "Name is required")
	case req.Email == "":
		return fail(c, fiber.StatusBadRequest, "Email is required")
	case len(req.Password) < 6:
		return fail(c, fiber.StatusBadRequest, "Password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to register")
	}

	user, err := s.store.CreateUser(req.Name, req.Email, hash)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return fail(c, fiber.StatusBadRequest, "Email is already registered")
		}
		return fail(c, fiber.StatusInternalServerError, "Failed to register")
	}

	token, err := IssueToken(s.cfg.JWTSecret, user.ID, s.cfg.TokenTTL)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to issue token")
	}

	return c.Status(fiber.StatusCreated).JSON(authResponse{Token: token, User: user})
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	acc, err := s.store.AccountByEmail(strings.TrimSpace(req.Email))
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid email or password")
	}
	if bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(req.Password)) != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid email or password")
	}

	token, err := IssueToken(s.cfg.JWTSecret, acc.ID, s.cfg.TokenTTL)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to issue token")
	}

	u := acc.User
	return c.JSON(authResponse{Token: token, User: &u})
}

func (s *Server) handleProfile(c *fiber.Ctx) error {
	user, err := s.store.UserByID(userID(c))
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unknown user")
	}
	return c.JSON(user)
}

func formValue(form *multipart.Form, key string) string {
	if vs := form.Value[key]; len(vs) > 0 {
		return strings.TrimSpace(vs[0])
	}
	return ""
}

func (s *Server) handleSubmit(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Expected a multipart form")
	}

	app := &StoredApplication{Documents: make(map[models.DocumentSlot]string)}
	app.UserID = userID(c)
	app.CreatedAt = time.Now()

	app.FirstName = formValue(form, draft.FieldFirstName)
	app.LastName = formValue(form, draft.FieldLastName)
	app.Email = formValue(form, draft.FieldEmail)
	app.Phone = formValue(form, draft.FieldPhone)
	app.DateOfBirth = formValue(form, draft.FieldDateOfBirth)
	app.Street = formValue(form, draft.FieldStreet)
	app.City = formValue(form, draft.FieldCity)
	app.State = formValue(form, draft.FieldState)
	app.PostalCode = formValue(form, draft.FieldPostalCode)
	app.LoanPurpose = formValue(form, draft.FieldLoanPurpose)
	app.EmploymentStatus = formValue(form, draft.FieldEmploymentStatus)
	app.EmployerName = formValue(form, draft.FieldEmployerName)
	app.JobTitle = formValue(form, draft.FieldJobTitle)

	app.LoanAmount, _ = strconv.ParseFloat(formValue(form, draft.FieldLoanAmount), 64)
	app.AnnualIncome, _ = strconv.ParseFloat(formValue(form, draft.FieldAnnualIncome), 64)
	app.MonthlyExpenses, _ = strconv.ParseFloat(formValue(form, draft.FieldMonthlyExpenses), 64)
	app.LoanTermMonths, _ = strconv.Atoi(formValue(form, draft.FieldLoanTermMonths))
	app.CreditScore, _ = strconv.Atoi(formValue(form, draft.FieldCreditScore))
	app.HasExistingLoans, _ = strconv.ParseBool(formValue(form, draft.FieldHasExistingLoans))

	if app.FirstName == "" || app.LastName == "" || app.Email == "" {
		return fail(c, fiber.StatusBadRequest, "Applicant details are incomplete")
	}
	if app.LoanAmount <= 0 {
		return fail(c, fiber.StatusBadRequest, "Loan amount is required")
	}

	for _, slot := range models.RequiredSlots() {
		files := form.File[string(slot)]
		if len(files) == 0 {
			return fail(c, fiber.StatusBadRequest, "Missing required document: "+string(slot))
		}
		fh := files[0]
		if !extensionAccepted(slot, fh.Filename) {
			return fail(c, fiber.StatusBadRequest, "Unsupported file type for "+string(slot))
		}
		if err := drainFile(fh); err != nil {
			return fail(c, fiber.StatusBadRequest, "Unreadable document: "+string(slot))
		}
		app.Documents[slot] = fh.Filename
	}

	created := s.store.CreateApplication(app)
	s.log.Info(c.Context(), "application submitted", "id", created.ID, "user", created.UserID)
	return c.Status(fiber.StatusCreated).JSON(created)
}

func extensionAccepted(slot models.DocumentSlot, filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, accepted := range draft.AcceptedExtensions(slot) {
		if ext == accepted {
			return true
		}
	}
	return false
}

// drainFile verifies the part is readable. Contents are discarded; the stub
// has no document storage.
func drainFile(fh *multipart.FileHeader) error {
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(io.Discard, f)
	return err
}

func (s *Server) handleApplicationsForUser(c *fiber.Ctx) error {
	// Users can only list their own applications.
	if c.Params("userId") != userID(c) {
		return fail(c, fiber.StatusNotFound, "Not found")
	}
	return c.JSON(s.store.ApplicationsForUser(c.Params("userId")))
}

// ownedApplication loads the application and hides it from anyone but its
// owner: a foreign application is indistinguishable from a missing one.
func (s *Server) ownedApplication(c *fiber.Ctx, id string) (*models.LoanApplication, error) {
	app, err := s.store.Application(id)
	if err != nil {
		return nil, err
	}
	if app.UserID != userID(c) {
		return nil, ErrNotFound
	}
	return app, nil
}

func (s *Server) handleApplication(c *fiber.Ctx) error {
	app, err := s.ownedApplication(c, c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusNotFound, "Application not found")
	}
	return c.JSON(app)
}

func (s *Server) handleValidationResult(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := s.ownedApplication(c, id); err != nil {
		return fail(c, fiber.StatusNotFound, "Application not found")
	}

	res, err := s.store.Result(id)
	if err != nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(res)
}

func (s *Server) handleRequestApproval(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := s.ownedApplication(c, id); err != nil {
		return fail(c, fiber.StatusNotFound, "Application not found")
	}

	app, res, err := s.store.Decide(id, decide)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return fail(c, fiber.StatusNotFound, "Application not found")
		case errors.Is(err, ErrAlreadyDecided):
			return fail(c, fiber.StatusConflict, "Application already decided")
		default:
			return fail(c, fiber.StatusInternalServerError, "Failed to decide")
		}
	}

	s.log.Info(c.Context(), "application decided", "id", id, "approved", res.Approved)
	return c.JSON(approvalResponse{Application: app, Decision: res})
}
