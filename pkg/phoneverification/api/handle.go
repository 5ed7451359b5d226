package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/tendant/phone-verify/pkg/notification"
	"github.com/tendant/phone-verify/pkg/phoneverification"
)

// Handler exposes the phone verification API
type Handler struct {
	service  *phoneverification.ConfirmationService
	notifier *notification.NotificationManager
}

// NewHandler creates a new phone verification API handler. The notification
// manager is optional; when present a confirmation notice is emailed to the
// account owner after a successful verification.
func NewHandler(service *phoneverification.ConfirmationService, notifier *notification.NotificationManager) *Handler {
	return &Handler{
		service:  service,
		notifier: notifier,
	}
}

// Routes returns the handler's routes as a mountable http.Handler
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Post("/request", h.RequestToken)
	r.Post("/confirm", h.Confirm)
	r.Get("/status", h.GetStatus)
	r.Post("/skip", h.SkipConfirmation)
	return r
}

// RequestToken handles POST /request
func (h *Handler) RequestToken(w http.ResponseWriter, r *http.Request) {
	var req RequestTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode request body", "error", err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "Invalid request body"})
		return
	}

	account, err := h.resolveAccount(r, req.Identifier)
	if err != nil {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, ErrorResponse{Error: "Account not found"})
		return
	}

	err = h.service.RequestToken(r.Context(), account)
	if err != nil {
		h.renderRequestTokenError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, RequestTokenResponse{
		Message: "Verification code sent",
	})
}

func (h *Handler) renderRequestTokenError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadRequest
	message := "Failed to send verification code"
	var retryAfterSeconds *int

	var retry *phoneverification.RetryAfterError
	switch {
	case errors.Is(err, phoneverification.ErrNoPhoneNumber):
		message = "No phone number on file"
	case errors.Is(err, phoneverification.ErrAlreadyConfirmed):
		message = "Phone number is already confirmed"
	case errors.Is(err, phoneverification.ErrTooManyAttempts):
		status = http.StatusTooManyRequests
		message = "Too many verification attempts"
	case errors.As(err, &retry):
		status = http.StatusTooManyRequests
		message = "Verification code already sent. Please try again later"
		seconds := int(math.Ceil(retry.RetryAfter.Seconds()))
		retryAfterSeconds = &seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	default:
		slog.Error("Failed to send verification code", "error", err)
		status = http.StatusInternalServerError
		message = "An error occurred while sending the verification code"
	}

	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: message, RetryAfterSeconds: retryAfterSeconds})
}

// Confirm handles POST /confirm
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode request body", "error", err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.Token == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "Token is required"})
		return
	}

	account, err := h.service.ConfirmByToken(r.Context(), req.Token)
	if err != nil {
		status := http.StatusBadRequest
		message := "Failed to verify phone number"

		switch {
		case errors.Is(err, phoneverification.ErrTokenNotFound):
			status = http.StatusNotFound
			message = "Invalid verification code"
		case errors.Is(err, phoneverification.ErrTokenExpired):
			message = "Verification code has expired"
		case errors.Is(err, phoneverification.ErrAlreadyConfirmed):
			message = "Phone number is already confirmed"
		default:
			slog.Error("Failed to verify phone number", "error", err)
			status = http.StatusInternalServerError
			message = "An error occurred while verifying the phone number"
		}

		render.Status(r, status)
		render.JSON(w, r, ErrorResponse{Error: message})
		return
	}

	h.sendConfirmedNotice(account)

	render.Status(r, http.StatusOK)
	render.JSON(w, r, ConfirmResponse{
		Message:     "Phone number verified successfully",
		ConfirmedAt: account.ConfirmedAt.Format(time.RFC3339),
	})
}

// sendConfirmedNotice emails a security notice after a successful
// verification. Best effort; failures are logged, not surfaced.
func (h *Handler) sendConfirmedNotice(account *phoneverification.Account) {
	if h.notifier == nil || account.Email == "" {
		return
	}

	err := h.notifier.Send(notification.PhoneConfirmedNotice, notification.EmailSystem, notification.NotificationData{
		To: account.Email,
		Data: map[string]string{
			"Phone": account.Phone,
		},
	})
	if err != nil {
		slog.Error("Failed to send phone confirmed notice", "account_id", account.ID, "error", err)
	}
}

// GetStatus handles GET /status
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	accountID, err := getAccountIDFromContext(r)
	if err != nil {
		slog.Error("Failed to get account ID from context", "error", err)
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, ErrorResponse{Error: "Unauthorized"})
		return
	}

	account, err := h.service.GetAccount(r.Context(), accountID)
	if err != nil {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, ErrorResponse{Error: "Account not found"})
		return
	}

	response := StatusResponse{
		PhoneConfirmed: account.Confirmed(),
	}
	if account.ConfirmedAt != nil {
		confirmedAtStr := account.ConfirmedAt.Format(time.RFC3339)
		response.ConfirmedAt = &confirmedAtStr
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response)
}

// SkipConfirmation handles POST /skip
func (h *Handler) SkipConfirmation(w http.ResponseWriter, r *http.Request) {
	// TODO: restrict to admin role once role claims are available here
	var req SkipConfirmationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode request body", "error", err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "Invalid request body"})
		return
	}

	accountID, err := uuid.Parse(req.AccountId)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "Invalid account_id"})
		return
	}

	account, err := h.service.GetAccount(r.Context(), accountID)
	if err != nil {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, ErrorResponse{Error: "Account not found"})
		return
	}

	if err := h.service.SkipConfirmation(r.Context(), account); err != nil {
		slog.Error("Failed to skip confirmation", "account_id", accountID, "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse{Error: "An error occurred while skipping confirmation"})
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, SkipConfirmationResponse{
		Message: "Phone confirmation skipped",
	})
}

// resolveAccount finds the target account either by the submitted identifier
// or by the authenticated account's ID.
func (h *Handler) resolveAccount(r *http.Request, identifier string) (*phoneverification.Account, error) {
	if identifier != "" {
		return h.service.LookupAccount(r.Context(), identifier)
	}

	accountID, err := getAccountIDFromContext(r)
	if err != nil {
		return nil, err
	}
	return h.service.GetAccount(r.Context(), accountID)
}

// getAccountIDFromContext extracts the account ID from the JWT claims in the
// request context (set by the jwtauth middleware)
func getAccountIDFromContext(r *http.Request) (uuid.UUID, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return uuid.Nil, errors.New("no JWT token found in context")
	}

	accountIDStr, ok := claims["account_id"].(string)
	if !ok || accountIDStr == "" {
		if sub, ok := claims["sub"].(string); ok && sub != "" {
			accountIDStr = sub
		} else {
			return uuid.Nil, errors.New("account_id not found in JWT claims")
		}
	}

	accountID, err := uuid.Parse(accountIDStr)
	if err != nil {
		return uuid.Nil, errors.New("invalid account_id in JWT claims")
	}

	return accountID, nil
}
