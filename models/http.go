package models

// Response is the envelope of every JSON reply that is not a bare resource.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// AuthResponse is returned by the register, login and me endpoints.
type AuthResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	User    *SanitizedUser `json:"user,omitempty"`
}

// ErrorResponse is written for every failed request. Fields carries per-field
// validation messages when the failure is a validation error.
type ErrorResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// VersionResponse is returned by GET /version. Commit and BuildDate are
// omitted for builds without link-time metadata.
type VersionResponse struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildDate string `json:"buildDate,omitempty"`
}
