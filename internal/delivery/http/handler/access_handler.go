package handler

import (
	"net/http"

	"therapist-crm/internal/delivery/dto"
	"therapist-crm/internal/delivery/http/middleware"
	"therapist-crm/internal/usecase"
	"therapist-crm/pkg/clientip"
	"therapist-crm/pkg/response"
	"therapist-crm/pkg/validator"
)

type AccessHandler struct {
	accessUsecase usecase.AccessUsecase
	validator     *validator.CustomValidator
	ips           *clientip.Resolver
}

func NewAccessHandler(accessUsecase usecase.AccessUsecase, validator *validator.CustomValidator, ips *clientip.Resolver) *AccessHandler {
	return &AccessHandler{
		accessUsecase: accessUsecase,
		validator:     validator,
		ips:           ips,
	}
}

// CheckAccess evaluates the page gate for the caller
// @Summary Check page access
// @Description Returns the access decision for a page; redirect_to is set when access is denied
// @Tags Access
// @Produce json
// @Param page query string true "Page"
// @Param require_auth query bool false "Require sign-in"
// @Param require_consent query bool false "Require legal consent"
// @Param required_role query string false "Required role"
// @Success 200 {object} response.Response
// @Router /access/check [get]
func (h *AccessHandler) CheckAccess(w http.ResponseWriter, r *http.Request) {
	req := dto.AccessCheckRequest{RequireAuth: true, RequireConsent: true}
	if err := decodeQuery(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid query parameters", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	decision := h.accessUsecase.CheckAccess(r.Context(), middleware.IdentityFromContext(r.Context()), usecase.AccessOptions{
		Page:           req.Page,
		RequireAuth:    req.RequireAuth,
		RequireConsent: req.RequireConsent,
		RequiredRole:   req.RequiredRole,
	})

	response.Success(w, http.StatusOK, "Access evaluated", &dto.AccessDecisionResponse{
		Allowed:    decision.Allowed(),
		User:       decision.User,
		Role:       decision.Role,
		HasConsent: decision.HasConsent,
		RedirectTo: decision.RedirectTo,
	})
}

// GetLegalTerms
// @Summary Get the current legal terms
// @Tags Access
// @Produce json
// @Success 200 {object} response.Response
// @Router /legal/terms [get]
func (h *AccessHandler) GetLegalTerms(w http.ResponseWriter, r *http.Request) {
	terms := h.accessUsecase.Terms()
	response.Success(w, http.StatusOK, "Legal terms retrieved successfully", &dto.LegalTermsResponse{
		Version:  terms.Version,
		HTML:     terms.HTML,
		Markdown: terms.Markdown,
	})
}

// GetLegalStatus
// @Summary Get the caller's consent status
// @Tags Access
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /legal/status [get]
func (h *AccessHandler) GetLegalStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	response.Success(w, http.StatusOK, "Legal status retrieved successfully", &dto.LegalStatusResponse{
		Version:    h.accessUsecase.LegalVersion(),
		HasConsent: h.accessUsecase.HasLegalConsent(r.Context(), userID),
	})
}

// SignLegalAgreement
// @Summary Sign the current legal terms
// @Description Records consent with the client IP and user agent; signing twice is not an error
// @Tags Access
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /legal/sign [post]
func (h *AccessHandler) SignLegalAgreement(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	result, err := h.accessUsecase.SignLegalAgreement(r.Context(), userID, h.ips.ClientIP(r), r.UserAgent())
	if err != nil {
		response.InternalServerError(w, "Failed to sign legal agreement")
		return
	}

	response.Success(w, http.StatusOK, "Legal agreement signed", &dto.SignLegalResponse{
		Success:       result.Success,
		AlreadySigned: result.AlreadySigned,
		Version:       h.accessUsecase.LegalVersion(),
	})
}
