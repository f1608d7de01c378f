package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/clearmark/ip-registry-backend/api"
	"github.com/clearmark/ip-registry-backend/interfaces"
	"github.com/clearmark/ip-registry-backend/metrics"
	"github.com/clearmark/ip-registry-backend/storage"
)

// maxUploadSize is the maximum accepted request body (32MB).
const maxUploadSize = 32 << 20

// RequestError provides structured error information for HTTP responses.
type RequestError struct {
	// StatusCode is the HTTP status code to return.
	StatusCode int

	// Err is the underlying error.
	Err error
}

// Error returns the error message from the underlying error.
func (e *RequestError) Error() string {
	return e.Err.Error()
}

// Handler processes HTTP requests for the IP registry service. It validates
// inputs, hashes uploaded content, drives the registry engine, and invokes
// the upload and ledger collaborators.
type Handler struct {
	registry    interfaces.Registry
	uploader    interfaces.UploadBackend
	ledger      interfaces.Ledger
	gatewayBase string
	log         *slog.Logger
}

// NewHandler creates a request handler. ledger may be nil, disabling
// on-chain mirroring; uploader may be nil, in which case every registration
// records a placeholder identifier.
func NewHandler(registry interfaces.Registry, uploader interfaces.UploadBackend, ledger interfaces.Ledger, gatewayBase string, log *slog.Logger) *Handler {
	return &Handler{
		registry:    registry,
		uploader:    uploader,
		ledger:      ledger,
		gatewayBase: gatewayBase,
		log:         log,
	}
}

// HandleRegister processes a registration upload.
//
// Request: multipart form with a "file" part plus "title", "owner", and
// optional "description" fields. Responds 201 with the new record, or 200
// with the original record when the content digest was already registered.
// Upload-gateway failure records a placeholder identifier; ledger failure
// yields a null onchain field. Both are reported in the warnings list.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid multipart form: %w", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("file is required"))
		return
	}
	defer file.Close()

	title := r.FormValue("title")
	owner := r.FormValue("owner")
	if title == "" || owner == "" {
		writeError(w, http.StatusBadRequest, errors.New("title and owner are required"))
		return
	}
	description := r.FormValue("description")

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("failed to read upload: %w", err))
		return
	}

	digest := interfaces.ComputeDigest(data)
	var warnings []string

	// The gateway is best-effort: a failed upload degrades to a clearly
	// marked placeholder identifier instead of failing the registration.
	fileCID := storage.PlaceholderCID(digest)
	if h.uploader != nil {
		cid, err := h.uploader.Upload(r.Context(), data, header.Filename)
		if err != nil {
			h.log.Warn("Gateway upload failed, recording placeholder identifier",
				slog.String("ipHash", digest.String()), "err", err)
			metrics.UploadFailures.Inc()
			warnings = append(warnings, "gateway upload failed; file is not retrievable")
		} else {
			fileCID = cid
		}
	} else {
		warnings = append(warnings, "no upload backend configured; file is not retrievable")
	}

	record, isDuplicate, err := h.registry.Register(interfaces.RegisterParams{
		Title:       title,
		Description: description,
		IPHash:      digest.String(),
		Owner:       owner,
		FileCID:     fileCID,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	gatewayURL := storage.GatewayURL(h.gatewayBase, record.FileCID)

	var onchain *interfaces.MirrorReceipt
	if !isDuplicate {
		metrics.RegistrationsTotal.Inc()
		onchain = h.mirror(r, "registration", func() (*interfaces.MirrorReceipt, error) {
			return h.ledger.MirrorRegistration(r.Context(), record.IPHash, gatewayURL)
		}, &warnings)
	} else {
		metrics.DuplicateRegistrations.Inc()
	}

	status := http.StatusCreated
	if isDuplicate {
		status = http.StatusOK
	}
	writeJSON(w, status, api.RegisterResponse{
		Record:      *record,
		IsDuplicate: isDuplicate,
		GatewayURL:  gatewayURL,
		Onchain:     onchain,
		Warnings:    warnings,
	})
}

// HandleSearch serves the search endpoint. An empty query returns an empty
// result set without touching the engine.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeJSON(w, http.StatusOK, api.SearchResponse{Results: []interfaces.Record{}})
		return
	}

	results, err := h.registry.Search(query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, api.SearchResponse{Results: results})
}

// HandleGet serves a single record by ID.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, reqErr := parseID(r)
	if reqErr != nil {
		writeError(w, reqErr.StatusCode, reqErr.Err)
		return
	}

	record, err := h.registry.GetByID(id)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, api.RecordResponse{Record: *record})
}

// HandleTransfer appends an ownership change to a record and mirrors it
// on-chain best-effort.
func (h *Handler) HandleTransfer(w http.ResponseWriter, r *http.Request) {
	id, reqErr := parseID(r)
	if reqErr != nil {
		writeError(w, reqErr.StatusCode, reqErr.Err)
		return
	}

	var req api.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.NewOwner == "" {
		writeError(w, http.StatusBadRequest, errors.New("newOwner is required"))
		return
	}

	record, err := h.registry.Transfer(id, req.NewOwner, req.Note)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	var warnings []string
	onchain := h.mirror(r, "transfer", func() (*interfaces.MirrorReceipt, error) {
		return h.ledger.MirrorTransfer(r.Context(), id, req.NewOwner, req.Note)
	}, &warnings)

	writeJSON(w, http.StatusOK, api.MutationResponse{
		Record:   *record,
		Onchain:  onchain,
		Warnings: warnings,
	})
}

// HandleSetLicense appends license terms to a record and mirrors them
// on-chain best-effort.
func (h *Handler) HandleSetLicense(w http.ResponseWriter, r *http.Request) {
	id, reqErr := parseID(r)
	if reqErr != nil {
		writeError(w, reqErr.StatusCode, reqErr.Err)
		return
	}

	var req api.LicenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.Price == "" || req.DurationDays == "" {
		writeError(w, http.StatusBadRequest, errors.New("price and durationDays are required"))
		return
	}

	record, err := h.registry.SetLicense(id, req.Price.String(), req.DurationDays.String())
	if err != nil {
		writeEngineError(w, err)
		return
	}

	var warnings []string
	onchain := h.mirror(r, "license", func() (*interfaces.MirrorReceipt, error) {
		return h.ledger.MirrorLicense(r.Context(), id, req.Price.String(), req.DurationDays.String())
	}, &warnings)

	writeJSON(w, http.StatusOK, api.MutationResponse{
		Record:   *record,
		Onchain:  onchain,
		Warnings: warnings,
	})
}

// mirror runs one best-effort ledger submission. A nil ledger or any error
// yields a nil receipt; errors are logged, counted, and surfaced as a
// warning, never as a request failure.
func (h *Handler) mirror(r *http.Request, what string, submit func() (*interfaces.MirrorReceipt, error), warnings *[]string) *interfaces.MirrorReceipt {
	if h.ledger == nil {
		return nil
	}

	receipt, err := submit()
	if err != nil {
		h.log.Warn("On-chain mirroring failed",
			slog.String("operation", what),
			slog.String("path", r.URL.Path),
			"err", err)
		metrics.LedgerFailures.Inc()
		*warnings = append(*warnings, fmt.Sprintf("on-chain %s mirroring failed", what))
		return nil
	}
	return receipt
}

func parseID(r *http.Request) (int64, *RequestError) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		// A malformed or non-positive id can never match a record, so it
		// reads as not found rather than a bad request.
		return 0, &RequestError{
			StatusCode: http.StatusNotFound,
			Err:        errors.New("record not found"),
		}
	}
	return id, nil
}

func writeEngineError(w http.ResponseWriter, err error) {
	if errors.Is(err, interfaces.ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, errors.New("record not found"))
		return
	}
	writeError(w, http.StatusInternalServerError, err)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, api.ErrorResponse{Error: err.Error()})
}
