package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"learnledger-backend/internal/domain"
	"learnledger-backend/internal/security"
	"learnledger-backend/internal/service"
	"learnledger-backend/internal/storage"
)

// Services bundles everything the router needs.
type Services struct {
	Auth        service.AuthService
	Bank        service.BankService
	Courses     service.CourseService
	Enrollments service.EnrollmentService
	Instructor  service.InstructorService
	Admin       service.AdminService
	Reconcile   service.ReconciliationService
	Tokens      security.TokenManager
	Media       storage.MediaStorage
}

// NewRouter wires all API routes.
func NewRouter(s Services) *mux.Router {
	r := mux.NewRouter()

	authHandler := NewAuthHandler(s.Auth, s.Bank)
	learnerHandler := NewLearnerHandler(s.Enrollments, s.Courses)
	instructorHandler := NewInstructorHandler(s.Courses, s.Instructor)
	adminHandler := NewAdminHandler(s.Admin, s.Reconcile)
	mediaHandler := NewMediaHandler(s.Media)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes.
	api.HandleFunc("/auth/signup", authHandler.Signup).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/media/upload/{token}", mediaHandler.HandleUpload).Methods(http.MethodPut)
	api.HandleFunc("/media/{key}", mediaHandler.HandleDownload).Methods(http.MethodGet)

	// Any authenticated user.
	authed := api.NewRoute().Subrouter()
	authed.Use(AuthMiddleware(s.Tokens))
	authed.HandleFunc("/user/profile", authHandler.GetProfile).Methods(http.MethodGet)
	authed.HandleFunc("/user/profile", authHandler.UpdateProfile).Methods(http.MethodPut)
	authed.HandleFunc("/user/bank-details", authHandler.UpdateBankDetails).Methods(http.MethodPut)
	authed.HandleFunc("/user/balance", authHandler.GetBalance).Methods(http.MethodGet)
	authed.HandleFunc("/media/upload-url", mediaHandler.GetUploadURL).Methods(http.MethodPost)

	// Learner routes.
	learner := authed.NewRoute().Subrouter()
	learner.Use(RequireRole(domain.RoleLearner))
	learner.HandleFunc("/learner/courses", learnerHandler.ListBuyableCourses).Methods(http.MethodGet)
	learner.HandleFunc("/learner/courses/{courseID}/enroll", learnerHandler.Enroll).Methods(http.MethodPost)
	learner.HandleFunc("/learner/my-courses", learnerHandler.ListMyCourses).Methods(http.MethodGet)
	learner.HandleFunc("/learner/courses/{courseID}/content", learnerHandler.GetCourseContent).Methods(http.MethodGet)
	learner.HandleFunc("/learner/courses/{courseID}/videos/{videoID}/progress", learnerHandler.UpdateVideoProgress).Methods(http.MethodPut)
	learner.HandleFunc("/learner/certificates", learnerHandler.ListCertificates).Methods(http.MethodGet)

	// Instructor routes.
	instructor := authed.NewRoute().Subrouter()
	instructor.Use(RequireRole(domain.RoleInstructor))
	instructor.HandleFunc("/instructor/courses", instructorHandler.CreateCourse).Methods(http.MethodPost)
	instructor.HandleFunc("/instructor/courses", instructorHandler.CoursesWithStats).Methods(http.MethodGet)
	instructor.HandleFunc("/instructor/courses/{courseID}", instructorHandler.CourseDetails).Methods(http.MethodGet)
	instructor.HandleFunc("/instructor/courses/{courseID}/videos", instructorHandler.AddVideos).Methods(http.MethodPost)
	instructor.HandleFunc("/instructor/courses/{courseID}/resources", instructorHandler.AddResources).Methods(http.MethodPost)
	instructor.HandleFunc("/instructor/courses/{courseID}/resources/{resourceID}", instructorHandler.DeleteResource).Methods(http.MethodDelete)
	instructor.HandleFunc("/instructor/approvals", instructorHandler.PendingApprovals).Methods(http.MethodGet)
	instructor.HandleFunc("/instructor/approvals/{transactionID}/approve", instructorHandler.ApproveEnrollment).Methods(http.MethodPost)
	instructor.HandleFunc("/instructor/approvals/{transactionID}/reject", instructorHandler.RejectEnrollment).Methods(http.MethodPost)
	instructor.HandleFunc("/instructor/earnings-chart", instructorHandler.EarningsChart).Methods(http.MethodGet)

	// Admin routes.
	admin := authed.NewRoute().Subrouter()
	admin.Use(RequireRole(domain.RoleAdmin))
	admin.HandleFunc("/admin/stats", adminHandler.PlatformStats).Methods(http.MethodGet)
	admin.HandleFunc("/admin/reconcile/duplicate-purchases", adminHandler.ReconcileDuplicatePurchases).Methods(http.MethodPost)

	return r
}
