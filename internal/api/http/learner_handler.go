package http

import (
	"encoding/json"
	"net/http"

	"learnledger-backend/internal/service"
)

type LearnerHandler struct {
	enrollments service.EnrollmentService
	courses     service.CourseService
}

func NewLearnerHandler(enrollments service.EnrollmentService, courses service.CourseService) *LearnerHandler {
	return &LearnerHandler{enrollments: enrollments, courses: courses}
}

func (h *LearnerHandler) ListBuyableCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.enrollments.ListBuyableCourses(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, courses)
}

type enrollRequest struct {
	AccountNumber string `json:"account_number"`
	Secret        string `json:"secret"`
}

func (h *LearnerHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	courseID, err := pathID(r, "courseID")
	if err != nil {
		writeBadRequest(w, "invalid course id")
		return
	}
	var req enrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	tx, err := h.enrollments.Enroll(r.Context(), userIDFromContext(r.Context()), courseID, req.AccountNumber, req.Secret)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

func (h *LearnerHandler) ListMyCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.enrollments.ListMyCourses(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, courses)
}

func (h *LearnerHandler) GetCourseContent(w http.ResponseWriter, r *http.Request) {
	courseID, err := pathID(r, "courseID")
	if err != nil {
		writeBadRequest(w, "invalid course id")
		return
	}

	content, err := h.enrollments.GetCourseContent(r.Context(), userIDFromContext(r.Context()), courseID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, content)
}

type progressRequest struct {
	WatchedSeconds int32 `json:"watched_seconds"`
	Completed      bool  `json:"completed"`
}

func (h *LearnerHandler) UpdateVideoProgress(w http.ResponseWriter, r *http.Request) {
	courseID, err := pathID(r, "courseID")
	if err != nil {
		writeBadRequest(w, "invalid course id")
		return
	}
	videoID, err := pathID(r, "videoID")
	if err != nil {
		writeBadRequest(w, "invalid video id")
		return
	}
	var req progressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	update, err := h.enrollments.UpdateVideoProgress(r.Context(), userIDFromContext(r.Context()), courseID, videoID, req.WatchedSeconds, req.Completed)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, update)
}

func (h *LearnerHandler) ListCertificates(w http.ResponseWriter, r *http.Request) {
	certs, err := h.enrollments.ListCertificates(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, certs)
}
