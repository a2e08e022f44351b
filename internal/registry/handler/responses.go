package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "steward/pkg/domain-errors"
)

type MintResponse struct {
	TokenID uint64 `json:"token_id"`
}

type OwnerResponse struct {
	TokenID uint64 `json:"token_id"`
	Owner   string `json:"owner"`
}

type TagsResponse struct {
	TokenID uint64   `json:"token_id"`
	Tags    []string `json:"tags"`
}

type AdministratorResponse struct {
	Administrator string `json:"administrator"`
}

type PausedResponse struct {
	Paused bool `json:"paused"`
}

type MinterResponse struct {
	Identity string `json:"identity"`
	Active   bool   `json:"active"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// writeJSON centralizes the success envelope.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError translates domain errors into the JSON error envelope. The
// domain code, not the message, is the machine-readable contract.
func writeError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	body := errorResponse{Error: string(code)}
	var de *dErrors.Error
	if errors.As(err, &de) {
		body.Message = de.Message
	}
	writeJSON(w, dErrors.HTTPStatus(code), body)
}
