package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/learnlive/api/internal/application/material"
	"github.com/learnlive/api/internal/domain"
	"github.com/learnlive/api/internal/pkg/validate"
)

// MaterialHandler handles course material endpoints.
type MaterialHandler struct {
	svc material.Service
}

func NewMaterialHandler(svc material.Service) *MaterialHandler { return &MaterialHandler{svc: svc} }

func (h *MaterialHandler) List(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	materials, err := h.svc.ListByCourse(r.Context(), u, chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, materials)
}

func (h *MaterialHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	m, err := h.svc.Get(r.Context(), u, chi.URLParam(r, "id"), chi.URLParam(r, "materialID"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *MaterialHandler) Create(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req := domain.CreateMaterialRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Type:        r.FormValue("type"),
	}
	if v := r.FormValue("content"); v != "" {
		req.Content = &v
	}
	if v := r.FormValue("external_url"); v != "" {
		req.ExternalURL = &v
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var file *material.Upload
	if f, hdr, err := r.FormFile("file"); err == nil {
		file = &material.Upload{Filename: hdr.Filename, Size: hdr.Size, Body: f}
	}

	m, err := h.svc.Create(r.Context(), u.UserID, chi.URLParam(r, "id"), req, file)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h *MaterialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.svc.Delete(r.Context(), u.UserID, chi.URLParam(r, "id"), chi.URLParam(r, "materialID")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Material deleted successfully"})
}
