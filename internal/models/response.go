package models

// Error kinds carried in APIResponse.Code.
const (
	CodeValidation       = "validation_error"
	CodeBadRequest       = "bad_request"
	CodeUnauthorized     = "unauthorized"
	CodeForbidden        = "forbidden"
	CodeNotFound         = "not_found"
	CodeMethodNotAllowed = "method_not_allowed"
	CodeConflict         = "conflict"
	CodeRateLimited      = "rate_limited"
	CodeUpstream         = "upstream_error"
	CodeInternal         = "internal_error"
)

// APIResponse is a generic API response wrapper
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
	Detail  string      `json:"detail,omitempty"`
	Stack   string      `json:"stack,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse creates an error response of the given kind
func NewErrorResponse(code, message string) APIResponse {
	return APIResponse{
		Success: false,
		Error:   message,
		Code:    code,
	}
}

// NewValidationErrorResponse creates a validation error response
func NewValidationErrorResponse(errors map[string]string) APIResponse {
	return APIResponse{
		Success: false,
		Error:   "Validation failed",
		Code:    CodeValidation,
		Errors:  errors,
	}
}

// MessageResponse is the payload of operations that only report an outcome.
type MessageResponse struct {
	Message string `json:"message"`
}

// ImageUploadResponse is returned after successful image upload
type ImageUploadResponse struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// MultipleImageUploadResponse is returned by the multi-file upload endpoint.
type MultipleImageUploadResponse struct {
	Message string                `json:"message"`
	Images  []ImageUploadResponse `json:"images"`
}
