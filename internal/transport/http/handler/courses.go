package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/learnlive/api/internal/application/course"
	"github.com/learnlive/api/internal/domain"
	"github.com/learnlive/api/internal/pkg/validate"
)

const maxUploadMemory = 32 << 20 // 32 MiB buffered in memory, rest spills to disk

// CourseHandler handles course CRUD and enrollment endpoints.
type CourseHandler struct {
	svc course.Service
}

func NewCourseHandler(svc course.Service) *CourseHandler { return &CourseHandler{svc: svc} }

func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	courses, err := h.svc.List(r.Context(), r.URL.Query().Get("grade"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, courses)
}

func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CourseHandler) ListEnrolled(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	courses, err := h.svc.ListEnrolled(r.Context(), u.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, courses)
}

func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	req, video, err := parseCourseForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := h.svc.Create(r.Context(), u, req, video)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CourseHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.svc.Enroll(r.Context(), u, chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Successfully enrolled in course"})
}

func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	req, video, err := parseCourseForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := h.svc.Update(r.Context(), u.UserID, chi.URLParam(r, "id"), req, video)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.svc.Delete(r.Context(), u.UserID, chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Course deleted successfully"})
}

func parseCourseForm(r *http.Request) (domain.CreateCourseRequest, *course.Upload, error) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return domain.CreateCourseRequest{}, nil, err
	}
	price, _ := strconv.ParseFloat(r.FormValue("price"), 64)
	req := domain.CreateCourseRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Grade:       r.FormValue("grade"),
		Price:       price,
	}
	if err := validate.Struct(req); err != nil {
		return domain.CreateCourseRequest{}, nil, err
	}

	var video *course.Upload
	if f, hdr, err := r.FormFile("video"); err == nil {
		video = &course.Upload{Filename: hdr.Filename, Body: f}
	}
	return req, video, nil
}
