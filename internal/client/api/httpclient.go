package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/loanwise/client/internal/client/models"
)

// HTTPClient talks to the Loanwise REST backend. All methods are safe for
// concurrent use; the bearer token is guarded separately so SetToken can be
// called while requests are in flight.
type HTTPClient struct {
	baseURL string
	hc      *http.Client

	mu    sync.RWMutex
	token string
}

// NewHTTPClient builds a client for the given base URL, e.g.
// "http://127.0.0.1:8080/api". The timeout applies per request.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Close() error {
	c.hc.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *HTTPClient) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// errorBody is the structured error shape the backend uses for non-2xx
// responses.
type errorBody struct {
	Message string `json:"message"`
}

// mapStatus converts a non-2xx response into a sentinel error. badRequest is
// the endpoint-specific sentinel for structured 4xx responses that are not
// covered by the shared codes.
func mapStatus(status int, msg string, badRequest error) error {
	var sentinel error
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		sentinel = ErrInvalidCredentials
	case status == http.StatusNotFound:
		sentinel = ErrNotFound
	case status == http.StatusConflict:
		sentinel = ErrAlreadyDecided
	case status >= 400 && status < 500:
		sentinel = badRequest
	default:
		sentinel = ErrNetwork
	}
	if msg == "" {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, msg)
}

// do sends the request, decodes a 2xx body into out (unless out is nil or the
// response is 204), and maps every failure onto a sentinel error.
func (c *HTTPClient) do(req *http.Request, out any, badRequest error) error {
	if tok := c.bearer(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(body, &eb)
		return mapStatus(resp.StatusCode, eb.Message, badRequest)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: malformed response: %v", ErrNetwork, err)
	}
	return nil
}

func (c *HTTPClient) postJSON(ctx context.Context, path string, in, out any, badRequest error) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out, badRequest)
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out, ErrNetwork)
}

func (c *HTTPClient) Register(ctx context.Context, name, email, password string) (*AuthResponse, error) {
	in := map[string]string{"name": name, "email": email, "password": password}
	var out AuthResponse
	if err := c.postJSON(ctx, "/auth/register", in, &out, ErrInvalidCredentials); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	in := map[string]string{"email": email, "password": password}
	var out AuthResponse
	if err := c.postJSON(ctx, "/auth/login", in, &out, ErrInvalidCredentials); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Profile(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.getJSON(ctx, "/auth/profile", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Submit sends the multipart submission: every form field as a plain part and
// every document as a file part named after its slot. The request is sent
// exactly once; resubmission is an explicit caller action.
func (c *HTTPClient) Submit(ctx context.Context, sub *models.Submission) (*models.LoanApplication, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for name, value := range sub.Fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, err
		}
	}
	for _, doc := range sub.Documents {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`,
			quoteEscaper.Replace(string(doc.Slot)), quoteEscaper.Replace(doc.FileName)))
		if doc.ContentType != "" {
			h.Set("Content-Type", doc.ContentType)
		}
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(doc.Content); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/loan/submit", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var out models.LoanApplication
	if err := c.do(req, &out, ErrSubmissionRejected); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Application(ctx context.Context, id string) (*models.LoanApplication, error) {
	var out models.LoanApplication
	if err := c.getJSON(ctx, "/loan/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ApplicationsForUser(ctx context.Context, userID string) ([]*models.LoanApplication, error) {
	var out []*models.LoanApplication
	if err := c.getJSON(ctx, "/loan/user/"+url.PathEscape(userID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ValidationResult returns (nil, nil) when the backend answers 204: the
// decision simply does not exist yet.
func (c *HTTPClient) ValidationResult(ctx context.Context, id string) (*models.ValidationResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/loan/"+url.PathEscape(id)+"/validation-result", nil)
	if err != nil {
		return nil, err
	}
	var out models.ValidationResult
	if err := c.do(req, &out, ErrNetwork); err != nil {
		return nil, err
	}
	if out.ApplicationID == "" {
		return nil, nil
	}
	return &out, nil
}

func (c *HTTPClient) RequestApproval(ctx context.Context, id string) (*ApprovalResponse, error) {
	var out ApprovalResponse
	err := c.postJSON(ctx, "/loan/"+url.PathEscape(id)+"/request-approval", struct{}{}, &out, ErrSubmissionRejected)
	if err != nil {
		return nil, err
	}
	if out.Application == nil || out.Decision == nil {
		return nil, fmt.Errorf("%w: approval response missing application or decision", ErrNetwork)
	}
	return &out, nil
}
