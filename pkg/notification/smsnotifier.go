package notification

import (
	"fmt"
	"log/slog"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

type TwilioConfig struct {
	TwilioAccountSid string `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `env:"TWILIO_AUTH_TOKEN"`
	TwilioFrom       string `env:"TWILIO_FROM" env-default:"+15005550006"`
}

type SMSNotifier struct {
	client       *twilio.RestClient
	TwilioConfig TwilioConfig
}

func NewSMSNotifier(config TwilioConfig) *SMSNotifier {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: config.TwilioAccountSid,
		Password: config.TwilioAuthToken,
	})
	return &SMSNotifier{
		client:       client,
		TwilioConfig: config,
	}
}

func (s *SMSNotifier) Send(noticeType NoticeType, notification NotificationData, noticeTemplate NoticeTemplate) error {
	if notification.To == "" {
		return fmt.Errorf("SMS notification requires 'To'")
	}

	body := notification.Body
	if body == "" {
		if noticeTemplate.Text == "" {
			return fmt.Errorf("SMS notification requires a body or a text template")
		}
		rendered, err := renderTemplate("text", noticeTemplate.Text, notification.Data)
		if err != nil {
			slog.Error("Failed to render SMS template", "err", err, "notice", noticeType)
			return err
		}
		body = rendered
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(notification.To)
	params.SetFrom(s.TwilioConfig.TwilioFrom)
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return err
	}

	slog.Info("Successfully sent sms", "to", notification.To, "response", resp)
	return nil
}
