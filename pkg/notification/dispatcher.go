package notification

import "context"

// Dispatcher adapts the NotificationManager to the narrow send interface the
// phone verification core consumes: a pre-rendered body delivered to a single
// recipient through one configured system.
type Dispatcher struct {
	manager *NotificationManager
	system  NotificationSystem
}

// NewDispatcher creates a dispatcher routing phone verification notices
// through the given system. An empty system defaults to SMS.
func NewDispatcher(manager *NotificationManager, system NotificationSystem) *Dispatcher {
	if system == "" {
		system = SMSSystem
	}
	return &Dispatcher{manager: manager, system: system}
}

func (d *Dispatcher) Send(ctx context.Context, phone, body string) error {
	return d.manager.Send(PhoneVerificationNotice, d.system, NotificationData{
		To:   phone,
		Body: body,
	})
}
