package dto

// AccessCheckRequest is read from the query string of /access/check.
type AccessCheckRequest struct {
	Page           string `json:"page"`
	RequireAuth    bool   `json:"require_auth"`
	RequireConsent bool   `json:"require_consent"`
	RequiredRole   string `json:"required_role" validate:"omitempty,oneof=admin therapist patient student_lead"`
}

// AccessDecisionResponse mirrors usecase.AccessDecision. HasConsent is null
// for public pages, where consent is not evaluated.
type AccessDecisionResponse struct {
	Allowed    bool          `json:"allowed"`
	User       *UserResponse `json:"user,omitempty"`
	Role       string        `json:"role"`
	HasConsent *bool         `json:"has_consent"`
	RedirectTo string        `json:"redirect_to,omitempty"`
}

type SignLegalResponse struct {
	Success       bool   `json:"success"`
	AlreadySigned bool   `json:"already_signed"`
	Version       string `json:"version"`
}

type LegalStatusResponse struct {
	Version    string `json:"version"`
	HasConsent bool   `json:"has_consent"`
}

type LegalTermsResponse struct {
	Version  string `json:"version"`
	HTML     string `json:"html"`
	Markdown string `json:"markdown,omitempty"`
}
