package config

import (
	"github.com/tendant/phone-verify/pkg/notification"
)

// EmailConfig holds SMTP email configuration
type EmailConfig struct {
	Host     string `env:"EMAIL_HOST" env-default:"localhost"`
	Port     uint16 `env:"EMAIL_PORT" env-default:"1025"`
	Username string `env:"EMAIL_USERNAME" env-default:"noreply@example.com"`
	Password string `env:"EMAIL_PASSWORD" env-default:"pwd"`
	From     string `env:"EMAIL_FROM" env-default:"noreply@example.com"`
	TLS      bool   `env:"EMAIL_TLS" env-default:"false"`
}

// ToSMTPConfig converts the config to a notification.SMTPConfig
func (e EmailConfig) ToSMTPConfig() notification.SMTPConfig {
	return notification.SMTPConfig{
		Host:     e.Host,
		Port:     int(e.Port),
		Username: e.Username,
		Password: e.Password,
		From:     e.From,
		TLS:      e.TLS,
	}
}

// TwilioConfig holds Twilio SMS configuration
type TwilioConfig struct {
	TwilioAccountSid string `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `env:"TWILIO_AUTH_TOKEN"`
	TwilioFrom       string `env:"TWILIO_FROM" env-default:"+15005550006"`
}

// ToNotificationTwilioConfig converts the config to a notification.TwilioConfig
func (t TwilioConfig) ToNotificationTwilioConfig() notification.TwilioConfig {
	return notification.TwilioConfig{
		TwilioAccountSid: t.TwilioAccountSid,
		TwilioAuthToken:  t.TwilioAuthToken,
		TwilioFrom:       t.TwilioFrom,
	}
}
