package config

import (
	"strings"
	"time"
)

// PhoneVerificationConfig contains the settings consumed by the confirmation
// service. The confirmation window doubles as the provisional-access grace
// period; zero disables both.
type PhoneVerificationConfig struct {
	ConfirmationWindow   time.Duration `env:"PHONE_CONFIRMATION_WINDOW" env-default:"15m"`
	IdentifierFields     string        `env:"PHONE_IDENTIFIER_FIELDS" env-default:"email,username,phone"`
	ConfirmationRequired bool          `env:"PHONE_CONFIRMATION_REQUIRED" env-default:"true"`
	TokenRetryLimit      int           `env:"PHONE_TOKEN_RETRY_LIMIT" env-default:"10"`
	// DeliverySystem selects the notification system verification codes are
	// routed through (sms or email).
	DeliverySystem string `env:"PHONE_DELIVERY_SYSTEM" env-default:"sms"`
}

// Fields returns the ordered identifier field list.
func (c PhoneVerificationConfig) Fields() []string {
	parts := strings.Split(c.IdentifierFields, ",")
	fields := make([]string, 0, len(parts))
	for _, p := range parts {
		if f := strings.TrimSpace(p); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}
