package domain

type ErrorResponse struct {
	Message              string   `json:"message"`
	Code                 int      `json:"code"`
	ValidationErrors     []string `json:"validation_errors,omitempty"`
	RequiresConfirmation bool     `json:"requires_confirmation,omitempty"`
	IsLocked             bool     `json:"is_locked,omitempty"`
}
