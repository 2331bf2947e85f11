package http

import (
	"encoding/json"
	"net/http"

	"learnledger-backend/internal/domain"
	"learnledger-backend/internal/service"
)

type InstructorHandler struct {
	courses    service.CourseService
	instructor service.InstructorService
}

func NewInstructorHandler(courses service.CourseService, instructor service.InstructorService) *InstructorHandler {
	return &InstructorHandler{courses: courses, instructor: instructor}
}

type createCourseRequest struct {
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	PriceCents   int64             `json:"price_cents"`
	LumpSumCents int64             `json:"lump_sum_cents"`
	Videos       []domain.Video    `json:"videos"`
	Resources    []domain.Resource `json:"resources"`
}

func (h *InstructorHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req createCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Title == "" {
		writeBadRequest(w, "title is required")
		return
	}

	course, err := h.courses.CreateCourse(r.Context(), userIDFromContext(r.Context()), &domain.Course{
		Title:        req.Title,
		Description:  req.Description,
		PriceCents:   req.PriceCents,
		LumpSumCents: req.LumpSumCents,
		Videos:       req.Videos,
		Resources:    req.Resources,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, course)
}

func (h *InstructorHandler) CoursesWithStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.instructor.CoursesWithStats(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *InstructorHandler) CourseDetails(w http.ResponseWriter, r *http.Request) {
	courseID, err := pathID(r, "courseID")
	if err != nil {
		writeBadRequest(w, "invalid course id")
		return
	}

	course, err := h.courses.GetCourse(r.Context(), courseID)
	if err != nil {
		writeError(w, err)
		return
	}
	if course.InstructorID != userIDFromContext(r.Context()) {
		writeError(w, domain.ErrNotAuthorized)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

func (h *InstructorHandler) AddVideos(w http.ResponseWriter, r *http.Request) {
	courseID, err := pathID(r, "courseID")
	if err != nil {
		writeBadRequest(w, "invalid course id")
		return
	}
	var videos []domain.Video
	if err := json.NewDecoder(r.Body).Decode(&videos); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	course, err := h.courses.AddVideos(r.Context(), userIDFromContext(r.Context()), courseID, videos)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

func (h *InstructorHandler) AddResources(w http.ResponseWriter, r *http.Request) {
	courseID, err := pathID(r, "courseID")
	if err != nil {
		writeBadRequest(w, "invalid course id")
		return
	}
	var resources []domain.Resource
	if err := json.NewDecoder(r.Body).Decode(&resources); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	course, err := h.courses.AddResources(r.Context(), userIDFromContext(r.Context()), courseID, resources)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

func (h *InstructorHandler) DeleteResource(w http.ResponseWriter, r *http.Request) {
	courseID, err := pathID(r, "courseID")
	if err != nil {
		writeBadRequest(w, "invalid course id")
		return
	}
	resourceID, err := pathID(r, "resourceID")
	if err != nil {
		writeBadRequest(w, "invalid resource id")
		return
	}

	if err := h.courses.DeleteResource(r.Context(), userIDFromContext(r.Context()), courseID, resourceID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *InstructorHandler) PendingApprovals(w http.ResponseWriter, r *http.Request) {
	pending, err := h.instructor.PendingApprovals(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pending)
}

func (h *InstructorHandler) ApproveEnrollment(w http.ResponseWriter, r *http.Request) {
	transactionID, err := pathID(r, "transactionID")
	if err != nil {
		writeBadRequest(w, "invalid transaction id")
		return
	}

	if err := h.instructor.ApproveEnrollment(r.Context(), userIDFromContext(r.Context()), transactionID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "approved"})
}

func (h *InstructorHandler) RejectEnrollment(w http.ResponseWriter, r *http.Request) {
	transactionID, err := pathID(r, "transactionID")
	if err != nil {
		writeBadRequest(w, "invalid transaction id")
		return
	}

	if err := h.instructor.RejectEnrollment(r.Context(), userIDFromContext(r.Context()), transactionID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "rejected"})
}

func (h *InstructorHandler) EarningsChart(w http.ResponseWriter, r *http.Request) {
	chart, err := h.instructor.EarningsChart(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chart)
}
