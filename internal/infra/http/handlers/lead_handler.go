package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/autoseller/internal/infra/http/middleware"
	"github.com/xavierca1/autoseller/internal/usecase"
)

type LeadHandler struct {
	Leads LeadService
	Log   logrus.FieldLogger
}

func NewLeadHandler(leads LeadService, log logrus.FieldLogger) *LeadHandler {
	return &LeadHandler{Leads: leads, Log: log}
}

// List (GET /leads)
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := usecase.LeadFilter{
		Query:  r.URL.Query().Get("q"),
		Status: r.URL.Query().Get("status"),
	}
	leads, err := h.Leads.List(r.Context(), middleware.AccountID(r.Context()), filter)
	if err != nil {
		writeUsecaseError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

// Create (POST /leads)
func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateLeadInput
	if !decodeJSON(w, r, &input) {
		return
	}

	lead, err := h.Leads.Create(r.Context(), middleware.AccountID(r.Context()), input)
	if err != nil {
		writeUsecaseError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, lead)
}

// Get (GET /leads/{id})
func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	lead, err := h.Leads.Get(r.Context(), middleware.AccountID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeUsecaseError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

// Update (PATCH /leads/{id})
func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input usecase.UpdateLeadInput
	if !decodeJSON(w, r, &input) {
		return
	}

	lead, err := h.Leads.Update(r.Context(), middleware.AccountID(r.Context()), chi.URLParam(r, "id"), input)
	if err != nil {
		writeUsecaseError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

// Delete (DELETE /leads/{id})
func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Leads.Delete(r.Context(), middleware.AccountID(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeUsecaseError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Messages (GET /leads/{id}/messages)
func (h *LeadHandler) Messages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.Leads.Conversation(r.Context(), middleware.AccountID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeUsecaseError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}
