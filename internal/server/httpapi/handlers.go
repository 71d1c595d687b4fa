package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/schedvault/schedvault/internal/common"
	"github.com/schedvault/schedvault/internal/logging"
	"github.com/schedvault/schedvault/internal/server/auth"
	"github.com/schedvault/schedvault/internal/server/services"
)

type ctxKey string

const principalKey ctxKey = "principal"

// RecordsHandler serves the record lifecycle endpoints.
type RecordsHandler struct {
	service   *services.RecordService
	logger    logging.Logger
	jwtSecret []byte
}

// NewRecordsHandler constructs the handler around the record service.
func NewRecordsHandler(service *services.RecordService, logger logging.Logger, jwtSecret []byte) *RecordsHandler {
	return &RecordsHandler{
		service:   service,
		logger:    logger.With("module", "http_handler"),
		jwtSecret: jwtSecret,
	}
}

// RegisterRoutes mounts the record endpoints. Creation and the handle
// accessor require an access token; reads, reveal, and availability are
// open, since reveal carries its own cryptographic authentication.
func (h *RecordsHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/records", func(r chi.Router) {
		r.Get("/", h.listRecords)
		r.Get("/{id}", h.getRecord)
		r.Post("/{id}/reveal", h.reveal)
		r.Post("/{id}/availability", h.checkAvailability)

		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)
			r.Post("/", h.createRecord)
			r.Get("/{id}/handles", h.getHandles)
		})
	})
}

// requireAuth validates the access token and stores the principal in the
// request context.
func (h *RecordsHandler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(common.AccessTokenHeaderName)
		if token == "" {
			writeJSONError(w, http.StatusUnauthorized, "missing token")
			return
		}

		principal, err := auth.GetPrincipalFromToken(token, h.jwtSecret)
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), principalKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type createRequest struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	EncryptedStart []byte `json:"encrypted_start"`
	StartProof     []byte `json:"start_proof"`
	EncryptedEnd   []byte `json:"encrypted_end"`
	EndProof       []byte `json:"end_proof"`
	PublicDuration uint32 `json:"public_duration"`
}

func (h *RecordsHandler) createRecord(w http.ResponseWriter, r *http.Request) {
	principal, _ := r.Context().Value(principalKey).(string)

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ID == "" {
		writeJSONError(w, http.StatusBadRequest, "id is required")
		return
	}

	record, err := h.service.Create(r.Context(), services.CreateParams{
		ID:             req.ID,
		Title:          req.Title,
		EncryptedStart: req.EncryptedStart,
		StartProof:     req.StartProof,
		EncryptedEnd:   req.EncryptedEnd,
		EndProof:       req.EndProof,
		PublicDuration: req.PublicDuration,
		Creator:        principal,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, record.View())
}

func (h *RecordsHandler) getRecord(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type listResponse struct {
	IDs []string `json:"ids"`
}

func (h *RecordsHandler) listRecords(w http.ResponseWriter, r *http.Request) {
	ids, err := h.service.ListIDs(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{IDs: ids})
}

type revealRequest struct {
	ClaimedStart []byte `json:"claimed_start"`
	StartProof   []byte `json:"start_proof"`
	ClaimedEnd   []byte `json:"claimed_end"`
	EndProof     []byte `json:"end_proof"`
}

func (h *RecordsHandler) reveal(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req revealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.service.Reveal(r.Context(), id, req.ClaimedStart, req.StartProof, req.ClaimedEnd, req.EndProof)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	view, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type availabilityRequest struct {
	EncryptedQuery []byte `json:"encrypted_query"`
	QueryProof     []byte `json:"query_proof"`
}

type availabilityResponse struct {
	Available bool `json:"available"`
}

func (h *RecordsHandler) checkAvailability(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req availabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	available, err := h.service.CheckAvailability(r.Context(), id, req.EncryptedQuery, req.QueryProof)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, availabilityResponse{Available: available})
}

type handlesResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (h *RecordsHandler) getHandles(w http.ResponseWriter, r *http.Request) {
	start, end, err := h.service.Handles(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, handlesResponse{Start: start.Ref, End: end.Ref})
}

// writeError translates the core's sentinel errors to HTTP status codes.
func (h *RecordsHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrorNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrorDuplicateID), errors.Is(err, common.ErrorAlreadyVerified):
		status = http.StatusConflict
	case errors.Is(err, common.ErrorInvalidCiphertext):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrorProofRejected):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		h.logger.Error(r.Context(), err.Error())
		writeJSONError(w, status, "internal error")
		return
	}
	writeJSONError(w, status, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
