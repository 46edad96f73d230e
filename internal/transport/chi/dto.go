package chi

import (
	"time"

	domcontact "github.com/kailas-cloud/cardex/internal/domain/contact"
	"github.com/kailas-cloud/cardex/internal/domain/contact/dedup"
	contactuc "github.com/kailas-cloud/cardex/internal/usecase/contact"
)

// ErrorCode is a stable machine-readable error identifier.
type ErrorCode string

// Error codes returned in ErrorResponse.Code.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodeEmptyContact     ErrorCode = "empty_contact"
	ErrorCodeDuplicateFound   ErrorCode = "duplicate_found"
	ErrorCodeContactNotFound  ErrorCode = "contact_not_found"
	ErrorCodeLockTimeout      ErrorCode = "lock_timeout"
	ErrorCodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the JSON body of every non-2xx reply.
type ErrorResponse struct {
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	ExistingID string      `json:"existing_id,omitempty"`
	Violations []Violation `json:"violations,omitempty"`
}

// Violation describes one rejected request field.
type Violation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ScanRequest is the body of POST /v1/users/{userID}/scans.
// Both fields may be empty; an empty scan yields an empty record.
type ScanRequest struct {
	Text  string   `json:"text"  validate:"max=20000"`
	Lines []string `json:"lines" validate:"max=200,dive,max=1000"`
}

// RecordBody carries the editable contact fields.
type RecordBody struct {
	Name     string `json:"name"     validate:"max=200"`
	Company  string `json:"company"  validate:"max=200"`
	Position string `json:"position" validate:"max=200"`
	Phone    string `json:"phone"    validate:"max=64"`
	Email    string `json:"email"    validate:"max=254"`
	Website  string `json:"website"  validate:"max=2048"`
	Notes    string `json:"notes"    validate:"max=4000"`
}

// SaveRequest is the body of POST /v1/users/{userID}/contacts.
type SaveRequest struct {
	RecordBody
	OnDuplicate string `json:"on_duplicate" validate:"omitempty,oneof=update reject"`
}

// ContactResponse is a stored contact.
type ContactResponse struct {
	ID string `json:"id"`
	RecordBody
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DuplicateProposal tells the client a stored contact matches the scan.
type DuplicateProposal struct {
	Action   dedup.Action     `json:"action"`
	Existing *ContactResponse `json:"existing,omitempty"`
}

// ScanResponse is the suggested record for review.
type ScanResponse struct {
	Record    RecordBody        `json:"record"`
	Duplicate DuplicateProposal `json:"duplicate"`
}

// SaveResponse reports the committed resolver decision.
type SaveResponse struct {
	Action  dedup.Action    `json:"action"`
	Key     string          `json:"key,omitempty"`
	Contact ContactResponse `json:"contact"`
}

// ContactListResponse lists contacts newest first.
type ContactListResponse struct {
	Items []ContactResponse `json:"items"`
	Total int               `json:"total"`
}

// HealthResponse reports component health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (b RecordBody) toDomain() domcontact.Record {
	return domcontact.Record{
		Name:     b.Name,
		Company:  b.Company,
		Position: b.Position,
		Phone:    b.Phone,
		Email:    b.Email,
		Website:  b.Website,
		Notes:    b.Notes,
	}
}

func recordToBody(r domcontact.Record) RecordBody {
	return RecordBody{
		Name:     r.Name,
		Company:  r.Company,
		Position: r.Position,
		Phone:    r.Phone,
		Email:    r.Email,
		Website:  r.Website,
		Notes:    r.Notes,
	}
}

func contactToResponse(c *domcontact.Contact) ContactResponse {
	return ContactResponse{
		ID:         c.ID(),
		RecordBody: recordToBody(c.Record()),
		CreatedAt:  c.CreatedAt().UTC(),
		UpdatedAt:  c.UpdatedAt().UTC(),
	}
}

func saveResultToResponse(res contactuc.SaveResult) SaveResponse {
	return SaveResponse{
		Action:  res.Decision.Action,
		Key:     res.Decision.Key,
		Contact: contactToResponse(&res.Contact),
	}
}

func proposalToResponse(p dedup.Proposal) DuplicateProposal {
	out := DuplicateProposal{Action: p.Action}
	if p.Existing != nil {
		existing := contactToResponse(p.Existing)
		out.Existing = &existing
	}
	return out
}
