// Package chi exposes the card scanning and contact API over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	domcontact "github.com/kailas-cloud/cardex/internal/domain/contact"
	"github.com/kailas-cloud/cardex/internal/domain/contact/dedup"
	"github.com/kailas-cloud/cardex/internal/logger"
	contactuc "github.com/kailas-cloud/cardex/internal/usecase/contact"
	healthuc "github.com/kailas-cloud/cardex/internal/usecase/health"
	scanuc "github.com/kailas-cloud/cardex/internal/usecase/scan"
)

// maxBodyBytes bounds request bodies; a card's OCR text is far smaller.
const maxBodyBytes = 1 << 20

// ContactService is the contact use case as seen by the transport.
type ContactService interface {
	Save(ctx context.Context, userID string, rec domcontact.Record, onDup contactuc.OnDuplicate) (contactuc.SaveResult, error)
	Get(ctx context.Context, userID, id string) (domcontact.Contact, error)
	List(ctx context.Context, userID string) ([]domcontact.Contact, error)
	Delete(ctx context.Context, userID, id string) error
}

// ScanService is the scan use case as seen by the transport.
type ScanService interface {
	Scan(ctx context.Context, userID string, in scanuc.Input) (scanuc.Result, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Server holds the HTTP handlers.
type Server struct {
	contacts      ContactService
	scans         ScanService
	health        HealthChecker
	logger        *zap.Logger
	validate      *validator.Validate
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(contacts ContactService, scans ScanService, health HealthChecker, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		contacts:      contacts,
		scans:         scans,
		health:        health,
		logger:        logger,
		validate:      newValidator(),
		errorHandlers: defaultErrorHandlers(),
	}
}

// Mount registers every route on r.
func (s *Server) Mount(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1/users/{userID}", func(r chi.Router) {
		r.Post("/scans", s.ScanCard)
		r.Route("/contacts", func(r chi.Router) {
			r.Post("/", s.SaveContact)
			r.Get("/", s.ListContacts)
			r.Get("/{contactID}", s.GetContact)
			r.Delete("/{contactID}", s.DeleteContact)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorCodeBadRequest, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorCodeBadRequest, "method not allowed")
	})
}

// ScanCard handles POST /v1/users/{userID}/scans.
func (s *Server) ScanCard(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	if !s.decode(w, r, &req) {
		return
	}

	res, err := s.scans.Scan(r.Context(), chi.URLParam(r, "userID"), scanuc.Input{Text: req.Text, Lines: req.Lines})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ScanResponse{
		Record:    recordToBody(res.Record),
		Duplicate: proposalToResponse(res.Proposal),
	})
}

// SaveContact handles POST /v1/users/{userID}/contacts.
func (s *Server) SaveContact(w http.ResponseWriter, r *http.Request) {
	var req SaveRequest
	if !s.decode(w, r, &req) {
		return
	}

	res, err := s.contacts.Save(
		r.Context(), chi.URLParam(r, "userID"), req.toDomain(), contactuc.OnDuplicate(req.OnDuplicate),
	)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	status := http.StatusOK
	if res.Decision.Action == dedup.ActionCreate {
		status = http.StatusCreated
	}
	writeJSON(w, status, saveResultToResponse(res))
}

// ListContacts handles GET /v1/users/{userID}/contacts.
func (s *Server) ListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := s.contacts.List(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]ContactResponse, len(contacts))
	for i := range contacts {
		items[i] = contactToResponse(&contacts[i])
	}
	writeJSON(w, http.StatusOK, ContactListResponse{Items: items, Total: len(items)})
}

// GetContact handles GET /v1/users/{userID}/contacts/{contactID}.
func (s *Server) GetContact(w http.ResponseWriter, r *http.Request) {
	c, err := s.contacts.Get(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "contactID"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contactToResponse(&c))
}

// DeleteContact handles DELETE /v1/users/{userID}/contacts/{contactID}.
func (s *Server) DeleteContact(w http.ResponseWriter, r *http.Request) {
	if err := s.contacts.Delete(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "contactID")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, HealthResponse{Status: string(report.Status), Checks: checks})
}

// decode reads and validates a JSON body. It writes the error reply and returns false on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, ErrorCodeBadRequest, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "invalid request body")
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		if vs, ok := violations(err); ok {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Code:       ErrorCodeValidationFailed,
				Message:    "request validation failed",
				Violations: vs,
			})
			return false
		}
		s.handleDomainError(w, r, err)
		return false
	}
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log, ok := logger.Lookup(r.Context())
	if !ok {
		log = s.logger
	}
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			log.Debug("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}
