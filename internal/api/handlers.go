package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/quaestor-io/quaestor/internal/ledger"
)

type Handlers struct {
	ledger *ledger.Ledger
}

func NewHandlers(l *ledger.Ledger) *Handlers {
	return &Handlers{ledger: l}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type deployRequest struct {
	DeploymentID string `json:"deploymentID"`
	AuthorID     string `json:"authorID"`
	Comment      string `json:"comment"`
	Payload      string `json:"payload"`
}

func (h *Handlers) CreateDeployment(w http.ResponseWriter, r *http.Request) {
	var req deployRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, ledger.NewInvalidArgument("CreateDeployment", "invalid request body"))
		return
	}

	ws := h.ledger.Begin()
	tx := h.ledger.NewTx(time.Now())

	dep, err := h.ledger.CreateDeployment(tx, ws, req.AuthorID, req.Comment, req.Payload, req.DeploymentID)
	if err != nil {
		ws.Discard()
		writeError(w, err)
		return
	}
	if err := ws.Commit(); err != nil {
		writeError(w, ledger.NewInternal("CreateDeployment", err.Error()))
		return
	}

	writeJSON(w, http.StatusCreated, dep)
}

func (h *Handlers) GetDeployment(w http.ResponseWriter, r *http.Request) {
	dep, err := h.ledger.ReadDeployment(h.ledger.Begin(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dep)
}

func (h *Handlers) ListDeployments(w http.ResponseWriter, r *http.Request) {
	deps, err := h.ledger.ListAllDeployments(h.ledger.Begin())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"deployments": deps,
		"total":       len(deps),
	})
}

type revokeRequest struct {
	Reason   string `json:"reason"`
	AuthorID string `json:"authorID"`
}

func (h *Handlers) RevokeDeployment(w http.ResponseWriter, r *http.Request) {
	var req revokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, ledger.NewInvalidArgument("Revoke", "invalid request body"))
		return
	}

	ws := h.ledger.Begin()
	tx := h.ledger.NewTx(time.Now())

	rev, err := h.ledger.Revoke(tx, ws, chi.URLParam(r, "id"), req.Reason, req.AuthorID)
	if err != nil {
		ws.Discard()
		writeError(w, err)
		return
	}
	if err := ws.Commit(); err != nil {
		writeError(w, ledger.NewInternal("Revoke", err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, rev)
}

func (h *Handlers) ListRevocations(w http.ResponseWriter, r *http.Request) {
	revs, err := h.ledger.ListAllRevocations(h.ledger.Begin())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"revocations": revs,
		"total":       len(revs),
	})
}

func (h *Handlers) GetLog(w http.ResponseWriter, r *http.Request) {
	entry, err := h.ledger.ReadLog(h.ledger.Begin(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *Handlers) ListLogs(w http.ResponseWriter, r *http.Request) {
	entries, err := h.ledger.ListAllLogs(h.ledger.Begin())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"logs":  entries,
		"total": len(entries),
	})
}

func (h *Handlers) StateDigest(w http.ResponseWriter, r *http.Request) {
	digest, err := h.ledger.StateDigest(h.ledger.Begin())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"digest": digest})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError maps the ledger error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	code := ledger.CodeOf(err)

	msg := err.Error()
	var le *ledger.Error
	if errors.As(err, &le) {
		msg = le.Message
	}

	writeJSON(w, statusFor(code), map[string]any{
		"error": map[string]string{
			"code":    string(code),
			"message": msg,
		},
	})
}

func statusFor(code ledger.ErrorCode) int {
	switch code {
	case ledger.CodeNotFound:
		return http.StatusNotFound
	case ledger.CodeAlreadyExists:
		return http.StatusConflict
	case ledger.CodeInvalidArgument, ledger.CodeMalformed:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
