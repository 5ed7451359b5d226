package notification

// NotificationSystem represents a delivery channel (e.g., sms, email).
type NotificationSystem string

// NoticeType represents a kind of notice (e.g., "phone_verification").
type NoticeType string

const (
	SMSSystem   NotificationSystem = "sms"
	EmailSystem NotificationSystem = "email"

	// PhoneVerificationNotice carries a confirmation code to a phone number.
	PhoneVerificationNotice NoticeType = "phone_verification"
	// PhoneConfirmedNotice informs the account owner that a phone number was verified.
	PhoneConfirmedNotice NoticeType = "phone_confirmed"
)

type NotificationData struct {
	To      string            // Recipient identifier (e.g., phone number, email address)
	Subject string            // Optional: subject override for notifications like email
	Body    string            // The content to send; rendered from the template when empty
	Data    map[string]string // Template data (e.g., confirmation code, account name)
}

// NoticeTemplate holds the templates a notifier renders for a notice type.
type NoticeTemplate struct {
	Subject string
	Text    string
	Html    string
}

type Notifier interface {
	Send(noticeType NoticeType, notification NotificationData, template NoticeTemplate) error
}
