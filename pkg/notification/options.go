package notification

// NotificationManagerOption is a function that configures a NotificationManager
type NotificationManagerOption func(*NotificationManager) error

// WithSMTP adds an email notifier with the provided SMTP configuration
func WithSMTP(config SMTPConfig) NotificationManagerOption {
	return func(nm *NotificationManager) error {
		emailNotifier, err := NewEmailNotifier(config)
		if err != nil {
			return err
		}
		nm.RegisterNotifier(EmailSystem, emailNotifier)
		return nil
	}
}

// WithTwilio adds an SMS notifier with the provided Twilio configuration
func WithTwilio(config TwilioConfig) NotificationManagerOption {
	return func(nm *NotificationManager) error {
		smsNotifier := NewSMSNotifier(config)
		nm.RegisterNotifier(SMSSystem, smsNotifier)
		return nil
	}
}
