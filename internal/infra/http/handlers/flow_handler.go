package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/autoseller/internal/infra/http/middleware"
	"github.com/xavierca1/autoseller/internal/usecase"
)

type FlowHandler struct {
	Flows FlowService
	Log   logrus.FieldLogger
}

func NewFlowHandler(flows FlowService, log logrus.FieldLogger) *FlowHandler {
	return &FlowHandler{Flows: flows, Log: log}
}

func (h *FlowHandler) List(w http.ResponseWriter, r *http.Request) {
	flows, err := h.Flows.List(r.Context(), middleware.AccountID(r.Context()))
	if err != nil {
		writeUsecaseError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, flows)
}

func (h *FlowHandler) Get(w http.ResponseWriter, r *http.Request) {
	flow, err := h.Flows.Get(r.Context(), middleware.AccountID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeUsecaseError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, flow)
}

// Create (POST /flows). Um ID no corpo é ignorado.
func (h *FlowHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.SaveFlowInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.ID = ""

	flow, err := h.Flows.Save(r.Context(), middleware.AccountID(r.Context()), input)
	if err != nil {
		writeUsecaseError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, flow)
}

// Update (PUT /flows/{id}) substitui nome, gatilho e passos.
func (h *FlowHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input usecase.SaveFlowInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.ID = chi.URLParam(r, "id")

	flow, err := h.Flows.Save(r.Context(), middleware.AccountID(r.Context()), input)
	if err != nil {
		writeUsecaseError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, flow)
}

// Toggle (POST /flows/{id}/toggle) body {"is_enabled": bool}
func (h *FlowHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var input struct {
		IsEnabled bool `json:"is_enabled"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}

	flow, err := h.Flows.Toggle(r.Context(), middleware.AccountID(r.Context()), chi.URLParam(r, "id"), input.IsEnabled)
	if err != nil {
		writeUsecaseError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, flow)
}

func (h *FlowHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Flows.Delete(r.Context(), middleware.AccountID(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeUsecaseError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
