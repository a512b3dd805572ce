package agent

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/florianilch/sealbox/internal/vault"
)

// TokenResponse is the body returned by GET /v1/token.
type TokenResponse struct {
	Token string `json:"token"`
}

// TokenRequest is the body accepted by PUT /v1/token.
type TokenRequest struct {
	Token string `json:"token"`
}

// handlers holds the route implementations.
type handlers struct {
	vault TokenVault
}

// getToken returns the decrypted token. An unset token is not an error and
// yields an empty string.
func (h *handlers) getToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token, err := h.vault.GetToken(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "token read failed", "error", err)
		status, message := errorStatus(err)
		writeJSONError(ctx, w, message, status)
		return
	}

	writeJSON(ctx, w, TokenResponse{Token: token}, http.StatusOK)
}

// putToken seals and stores a new token, replacing any previous one.
func (h *handlers) putToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.ErrorContext(ctx, "failed to decode request", "error", err)
		writeJSONError(ctx, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.vault.SaveToken(ctx, req.Token); err != nil {
		slog.ErrorContext(ctx, "token write failed", "error", err)
		status, message := errorStatus(err)
		writeJSONError(ctx, w, message, status)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// healthz reports liveness.
func (h *handlers) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, map[string]string{"status": "ok"}, http.StatusOK)
}

// errorStatus maps a vault failure to an HTTP status and a client-safe
// message. Sealing failures are answered with the vault's generic sentinel
// message; storage failures get a fixed message since raw store errors may
// name filesystem paths or databases.
func errorStatus(err error) (int, string) {
	if errors.Is(err, vault.ErrEncryptionFailed) || errors.Is(err, vault.ErrDecryptionFailed) {
		return http.StatusInternalServerError, err.Error()
	}
	return http.StatusBadGateway, "storage unavailable"
}
