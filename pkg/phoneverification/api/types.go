package api

// RequestTokenRequest asks for a confirmation code to be sent. Identifier is
// optional when the caller is authenticated; it is resolved against the
// configured identifier fields.
type RequestTokenRequest struct {
	Identifier string `json:"identifier,omitempty"`
}

// RequestTokenResponse is returned after a code was dispatched
type RequestTokenResponse struct {
	Message string `json:"message"`
}

// ConfirmRequest submits a received confirmation code
type ConfirmRequest struct {
	Token string `json:"token"`
}

// ConfirmResponse is returned after a successful confirmation
type ConfirmResponse struct {
	Message     string `json:"message"`
	ConfirmedAt string `json:"confirmed_at"`
}

// SkipConfirmationRequest marks an account confirmed without a code
type SkipConfirmationRequest struct {
	AccountId string `json:"account_id"`
}

// SkipConfirmationResponse is returned after an administrative bypass
type SkipConfirmationResponse struct {
	Message string `json:"message"`
}

// StatusResponse reports the confirmation state of the current account
type StatusResponse struct {
	PhoneConfirmed bool    `json:"phone_confirmed"`
	ConfirmedAt    *string `json:"confirmed_at,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
	// RetryAfterSeconds is set on throttled requests
	RetryAfterSeconds *int `json:"retry_after_seconds,omitempty"`
}
