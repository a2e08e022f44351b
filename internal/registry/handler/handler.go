// Package handler is the thin HTTP layer over the registry service. It
// decodes requests, resolves the caller identity set by the auth middleware
// and delegates; no business logic lives here.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"steward/internal/registry/models"
	"steward/internal/registry/service"
	dErrors "steward/pkg/domain-errors"
	"steward/pkg/requestcontext"
)

// Registry defines the service surface the handler needs.
type Registry interface {
	Mint(ctx context.Context, caller models.Identity, p service.MintParams) (uint64, error)
	Transfer(ctx context.Context, caller models.Identity, tokenID uint64, sender, recipient models.Identity) error
	UpdateMetadata(ctx context.Context, caller models.Identity, tokenID uint64, description, imageRef string) error
	UpdateGoals(ctx context.Context, caller models.Identity, tokenID uint64, goals []string) error
	UpdateStatus(ctx context.Context, caller models.Identity, tokenID uint64, label string) error
	AddTags(ctx context.Context, caller models.Identity, tokenID uint64, tags []string) error

	SetAdministrator(ctx context.Context, caller, newAdmin models.Identity) error
	Pause(ctx context.Context, caller models.Identity) error
	Unpause(ctx context.Context, caller models.Identity) error
	AddMinter(ctx context.Context, caller, identity models.Identity) error
	RemoveMinter(ctx context.Context, caller, identity models.Identity) error

	GetOwner(ctx context.Context, tokenID uint64) (models.Identity, bool, error)
	GetMetadata(ctx context.Context, tokenID uint64) (*models.Metadata, bool, error)
	GetStatus(ctx context.Context, tokenID uint64) (*models.Status, bool, error)
	GetTags(ctx context.Context, tokenID uint64) ([]string, bool, error)
	GetAdministrator(ctx context.Context) (models.Identity, error)
	IsPaused(ctx context.Context) (bool, error)
	IsActiveMinter(ctx context.Context, identity models.Identity) (bool, error)
}

// Handler handles registry endpoints.
type Handler struct {
	registry Registry
	logger   *slog.Logger
}

func New(registry Registry, logger *slog.Logger) *Handler {
	return &Handler{registry: registry, logger: logger}
}

// RegisterMutations mounts the mutating routes. These expect RequireAuth to
// have run so the caller identity is present in the request context.
func (h *Handler) RegisterMutations(r chi.Router) {
	r.Post("/tokens", h.handleMint)
	r.Post("/tokens/{id}/transfer", h.handleTransfer)
	r.Put("/tokens/{id}/metadata", h.handleUpdateMetadata)
	r.Put("/tokens/{id}/goals", h.handleUpdateGoals)
	r.Put("/tokens/{id}/status", h.handleUpdateStatus)
	r.Post("/tokens/{id}/tags", h.handleAddTags)

	r.Put("/administrator", h.handleSetAdministrator)
	r.Post("/administrator/pause", h.handlePause)
	r.Post("/administrator/unpause", h.handleUnpause)
	r.Post("/administrator/minters", h.handleAddMinter)
	r.Delete("/administrator/minters/{identity}", h.handleRemoveMinter)
}

// RegisterQueries mounts the read-only routes consumed by collaborators
// (marketplace, auction engine, royalty distributor and friends). They are
// public: absence answers 404, never an authorization error.
func (h *Handler) RegisterQueries(r chi.Router) {
	r.Get("/tokens/{id}", h.handleGetMetadata)
	r.Get("/tokens/{id}/owner", h.handleGetOwner)
	r.Get("/tokens/{id}/status", h.handleGetStatus)
	r.Get("/tokens/{id}/tags", h.handleGetTags)
	r.Get("/minters/{identity}", h.handleGetMinter)
	r.Get("/administrator", h.handleGetAdministrator)
	r.Get("/paused", h.handleGetPaused)
}

// caller resolves the authenticated identity or fails the request.
func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (models.Identity, bool) {
	caller := requestcontext.Caller(r.Context())
	if caller == "" {
		h.logger.ErrorContext(r.Context(), "caller missing from context despite auth middleware",
			"request_id", requestcontext.RequestID(r.Context()),
		)
		writeError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return "", false
	}
	return caller, true
}

func tokenID(r *http.Request) (uint64, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeBadRequest, "token id must be a positive integer")
	}
	return id, nil
}

func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return dErrors.New(dErrors.CodeBadRequest, "invalid request body")
	}
	return nil
}

func (h *Handler) handleMint(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req MintRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	id, err := h.registry.Mint(r.Context(), caller, service.MintParams{
		AreaID:           req.AreaID,
		LatitudeE6:       req.LatitudeE6,
		LongitudeE6:      req.LongitudeE6,
		Description:      req.Description,
		ImageRef:         req.ImageRef,
		Goals:            req.Goals,
		RoyaltyBps:       req.RoyaltyBps,
		RoyaltyRecipient: req.RoyaltyRecipient,
		Recipient:        req.Recipient,
		Tags:             req.Tags,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, MintResponse{TokenID: id})
}

func (h *Handler) handleTransfer(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, err := tokenID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req TransferRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.registry.Transfer(r.Context(), caller, id, req.Sender, req.Recipient); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OwnerResponse{TokenID: id, Owner: req.Recipient})
}

func (h *Handler) handleUpdateMetadata(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, err := tokenID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req UpdateMetadataRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.registry.UpdateMetadata(r.Context(), caller, id, req.Description, req.ImageRef); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleUpdateGoals(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, err := tokenID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req UpdateGoalsRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.registry.UpdateGoals(r.Context(), caller, id, req.Goals); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, err := tokenID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req UpdateStatusRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.registry.UpdateStatus(r.Context(), caller, id, req.Label); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAddTags(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, err := tokenID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req AddTagsRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.registry.AddTags(r.Context(), caller, id, req.Tags); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGetMetadata(w http.ResponseWriter, r *http.Request) {
	id, err := tokenID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	md, ok, err := h.registry.GetMetadata(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeError(w, dErrors.New(dErrors.CodeNotFound, "token does not exist"))
		return
	}
	writeJSON(w, http.StatusOK, md)
}

func (h *Handler) handleGetOwner(w http.ResponseWriter, r *http.Request) {
	id, err := tokenID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	owner, ok, err := h.registry.GetOwner(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeError(w, dErrors.New(dErrors.CodeNotFound, "token does not exist"))
		return
	}
	writeJSON(w, http.StatusOK, OwnerResponse{TokenID: id, Owner: owner})
}

func (h *Handler) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := tokenID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	st, ok, err := h.registry.GetStatus(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeError(w, dErrors.New(dErrors.CodeNotFound, "token does not exist"))
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *Handler) handleGetTags(w http.ResponseWriter, r *http.Request) {
	id, err := tokenID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	tags, ok, err := h.registry.GetTags(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeError(w, dErrors.New(dErrors.CodeNotFound, "token does not exist"))
		return
	}
	writeJSON(w, http.StatusOK, TagsResponse{TokenID: id, Tags: tags})
}

func (h *Handler) handleGetMinter(w http.ResponseWriter, r *http.Request) {
	identity := chi.URLParam(r, "identity")
	active, err := h.registry.IsActiveMinter(r.Context(), identity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MinterResponse{Identity: identity, Active: active})
}

func (h *Handler) handleGetAdministrator(w http.ResponseWriter, r *http.Request) {
	admin, err := h.registry.GetAdministrator(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AdministratorResponse{Administrator: admin})
}

func (h *Handler) handleGetPaused(w http.ResponseWriter, r *http.Request) {
	paused, err := h.registry.IsPaused(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PausedResponse{Paused: paused})
}

func (h *Handler) handleSetAdministrator(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req SetAdministratorRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.registry.SetAdministrator(r.Context(), caller, req.Identity); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AdministratorResponse{Administrator: req.Identity})
}

func (h *Handler) handlePause(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	if err := h.registry.Pause(r.Context(), caller); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PausedResponse{Paused: true})
}

func (h *Handler) handleUnpause(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	if err := h.registry.Unpause(r.Context(), caller); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PausedResponse{Paused: false})
}

func (h *Handler) handleAddMinter(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req AddMinterRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.registry.AddMinter(r.Context(), caller, req.Identity); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, MinterResponse{Identity: req.Identity, Active: true})
}

func (h *Handler) handleRemoveMinter(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	identity := chi.URLParam(r, "identity")
	if err := h.registry.RemoveMinter(r.Context(), caller, identity); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MinterResponse{Identity: identity, Active: false})
}
