package http

import (
	"net/http"

	"therapist-crm/internal/delivery/http/handler"
	"therapist-crm/internal/delivery/http/middleware"
	"therapist-crm/internal/domain/entity"
	"therapist-crm/internal/usecase"

	"github.com/gorilla/mux"
)

// Gate names for API areas that are not pages of their own.
const (
	pageTherapistApply = "therapist-apply"
	pageCourses        = "courses"
	pageAppointments   = "appointments"
)

type Handlers struct {
	Auth         *handler.AuthHandler
	Access       *handler.AccessHandler
	Intake       *handler.IntakeHandler
	Dashboard    *handler.DashboardHandler
	Lead         *handler.LeadHandler
	Therapist    *handler.TherapistHandler
	Portal       *handler.PortalHandler
	Course       *handler.CourseHandler
	Assistant    *handler.AssistantHandler
	Appointment  *handler.AppointmentHandler
	Export       *handler.ExportHandler
	Notification *handler.NotificationHandler
	AuditLog     *handler.AuditLogHandler
}

type Router struct {
	router           *mux.Router
	handlers         Handlers
	authMiddleware   *middleware.AuthMiddleware
	accessMiddleware *middleware.AccessMiddleware
	corsMiddleware   *middleware.CORSMiddleware
	rateLimiter      *middleware.RateLimiter
	assistantLimiter *middleware.RateLimiter
}

func NewRouter(
	handlers Handlers,
	authMiddleware *middleware.AuthMiddleware,
	accessMiddleware *middleware.AccessMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	rateLimiter *middleware.RateLimiter,
	assistantLimiter *middleware.RateLimiter,
) *Router {
	return &Router{
		router:           mux.NewRouter(),
		handlers:         handlers,
		authMiddleware:   authMiddleware,
		accessMiddleware: accessMiddleware,
		corsMiddleware:   corsMiddleware,
		rateLimiter:      rateLimiter,
		assistantLimiter: assistantLimiter,
	}
}

// Setup registers every route and returns the router wrapped in CORS. CORS
// sits outside mux so preflight OPTIONS requests are answered before route
// matching, which only knows the real methods.
func (r *Router) Setup() http.Handler {
	h := r.handlers

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", h.Auth.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", h.Auth.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", h.Auth.RefreshToken).Methods(http.MethodPost)
	auth.HandleFunc("/password-reset", h.Auth.RequestPasswordReset).Methods(http.MethodPost)

	// Password update accepts a session or a recovery token
	authOptional := api.PathPrefix("/auth").Subrouter()
	authOptional.Use(r.authMiddleware.Optional)
	authOptional.HandleFunc("/password", h.Auth.UpdatePassword).Methods(http.MethodPut)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", h.Auth.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", h.Auth.GetCurrentUser).Methods(http.MethodGet)
	authProtected.HandleFunc("/me", h.Auth.UpdateProfile).Methods(http.MethodPut)
	authProtected.HandleFunc("/me/avatar", h.Portal.UploadAvatar).Methods(http.MethodPost)

	// Access gate and legal terms
	api.HandleFunc("/legal/terms", h.Access.GetLegalTerms).Methods(http.MethodGet)
	accessCheck := api.PathPrefix("/access").Subrouter()
	accessCheck.Use(r.authMiddleware.Optional)
	accessCheck.HandleFunc("/check", h.Access.CheckAccess).Methods(http.MethodGet)

	legal := api.PathPrefix("/legal").Subrouter()
	legal.Use(r.authMiddleware.Authenticate)
	legal.HandleFunc("/status", h.Access.GetLegalStatus).Methods(http.MethodGet)
	legal.HandleFunc("/sign", h.Access.SignLegalAgreement).Methods(http.MethodPost)

	// Public forms (rate limited)
	forms := api.NewRoute().Subrouter()
	forms.Use(r.rateLimiter.Limit)
	forms.Use(r.authMiddleware.Optional)
	forms.HandleFunc("/intake", h.Intake.SubmitIntake).Methods(http.MethodPost)
	forms.HandleFunc("/contact", h.Intake.SubmitContact).Methods(http.MethodPost)

	// Therapist directory (public)
	api.HandleFunc("/therapists", h.Therapist.GetActiveTherapists).Methods(http.MethodGet)

	// Therapist application
	therapistApply := api.PathPrefix("/therapists").Subrouter()
	therapistApply.Use(r.authMiddleware.Authenticate)
	therapistApply.Use(r.accessMiddleware.RequireConsent(pageTherapistApply))
	therapistApply.HandleFunc("/register", h.Therapist.RegisterTherapist).Methods(http.MethodPost)

	// Therapist dashboard
	therapist := api.PathPrefix("/therapists/me").Subrouter()
	therapist.Use(r.authMiddleware.Authenticate)
	therapist.Use(r.accessMiddleware.RequireAccess(usecase.PageTherapistDashboard, entity.RoleTherapist))
	therapist.HandleFunc("", h.Therapist.GetMyTherapist).Methods(http.MethodGet)
	therapist.HandleFunc("/appointments", h.Therapist.GetMyAppointments).Methods(http.MethodGet)
	therapist.HandleFunc("/resume", h.Therapist.UploadResume).Methods(http.MethodPost)

	// Registered after /therapists/me so the literal path wins
	api.HandleFunc("/therapists/{id}", h.Therapist.GetTherapist).Methods(http.MethodGet)
	api.HandleFunc("/therapists/{id}/reviews", h.Therapist.GetTherapistReviews).Methods(http.MethodGet)

	// Patient dashboard
	patient := api.PathPrefix("/patients/me").Subrouter()
	patient.Use(r.authMiddleware.Authenticate)
	patient.Use(r.accessMiddleware.RequireAccess(usecase.PagePatientDashboard, entity.RolePatient))
	patient.HandleFunc("", h.Portal.GetMyPatient).Methods(http.MethodGet)
	patient.HandleFunc("/appointments", h.Portal.GetMyAppointments).Methods(http.MethodGet)
	patient.HandleFunc("/reviews", h.Portal.SubmitReview).Methods(http.MethodPost)

	// Courses and certifications
	courses := api.NewRoute().Subrouter()
	courses.Use(r.authMiddleware.Authenticate)
	courses.Use(r.accessMiddleware.RequireConsent(pageCourses))
	courses.HandleFunc("/courses/progress", h.Course.GetProgress).Methods(http.MethodGet)
	courses.HandleFunc("/courses/progress/watched", h.Course.MarkVideoWatched).Methods(http.MethodPost)
	courses.HandleFunc("/courses/progress/watch-time", h.Course.UpdateWatchTime).Methods(http.MethodPut)
	courses.HandleFunc("/courses/videos/{video_id}", h.Course.IsVideoWatched).Methods(http.MethodGet)
	courses.HandleFunc("/certifications", h.Course.GetCertifications).Methods(http.MethodGet)
	courses.HandleFunc("/certifications/{type}", h.Course.HasCertification).Methods(http.MethodGet)
	courses.Handle("/courses/assistant", r.assistantLimiter.Limit(http.HandlerFunc(h.Assistant.Ask))).Methods(http.MethodPost)

	// Appointments (role checked per action)
	appointments := api.PathPrefix("/appointments").Subrouter()
	appointments.Use(r.authMiddleware.Authenticate)
	appointments.Use(r.accessMiddleware.RequireConsent(pageAppointments))
	appointments.HandleFunc("", h.Appointment.CreateAppointment).Methods(http.MethodPost)
	appointments.HandleFunc("/{id}/cancel", h.Appointment.CancelAppointment).Methods(http.MethodPost)
	appointments.HandleFunc("/{id}/complete", h.Appointment.CompleteAppointment).Methods(http.MethodPost)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(r.accessMiddleware.RequireAccess(usecase.PageAdminDashboard, entity.RoleAdmin))

	admin.HandleFunc("/dashboard", h.Dashboard.GetDashboard).Methods(http.MethodGet)
	admin.HandleFunc("/export", h.Export.Export).Methods(http.MethodGet)

	// Therapist management (admin)
	admin.HandleFunc("/therapists/available", h.Dashboard.GetAvailableTherapists).Methods(http.MethodGet)
	admin.HandleFunc("/therapists/{id}", h.Dashboard.GetTherapist).Methods(http.MethodGet)
	admin.HandleFunc("/therapists/{id}/status", h.Dashboard.UpdateTherapistStatus).Methods(http.MethodPut)
	admin.HandleFunc("/therapists/{id}/approve", h.Dashboard.ApproveTherapist).Methods(http.MethodPost)
	admin.HandleFunc("/therapists/{id}/reject", h.Dashboard.RejectTherapist).Methods(http.MethodPost)

	// Patient management (admin)
	admin.HandleFunc("/patients/{id}", h.Dashboard.GetPatient).Methods(http.MethodGet)
	admin.HandleFunc("/patients/{id}/status", h.Dashboard.UpdatePatientStatus).Methods(http.MethodPut)
	admin.HandleFunc("/patients/{id}/assign", h.Dashboard.AssignTherapist).Methods(http.MethodPost)

	// Lead management (admin)
	admin.HandleFunc("/leads/{id}/convert", h.Lead.ConvertLead).Methods(http.MethodPost)
	admin.HandleFunc("/leads/{id}/contacted", h.Lead.MarkContacted).Methods(http.MethodPost)
	admin.HandleFunc("/leads/{id}", h.Lead.DeleteLead).Methods(http.MethodDelete)

	// Notification outbox (admin)
	admin.HandleFunc("/notifications/failed", h.Notification.GetFailedNotifications).Methods(http.MethodGet)
	admin.HandleFunc("/notifications/{id}/retry", h.Notification.RetryNotification).Methods(http.MethodPost)
	admin.HandleFunc("/notifications/{id}/abandon", h.Notification.AbandonNotification).Methods(http.MethodPost)

	// Audit trail (admin)
	admin.HandleFunc("/audit-logs", h.AuditLog.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", h.AuditLog.GetAuditLog).Methods(http.MethodGet)

	return r.corsMiddleware.Handle(r.router)
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
