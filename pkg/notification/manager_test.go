package notification

import (
	"context"
	"testing"
)

func TestNewNotificationManager(t *testing.T) {
	nm, err := NewNotificationManager()
	if err != nil {
		t.Fatalf("NewNotificationManager returned error: %v", err)
	}
	if nm == nil {
		t.Fatal("NewNotificationManager returned nil")
	}
	if nm.notifiers == nil {
		t.Error("notifiers map not initialized")
	}
	if nm.notificationRegistry == nil {
		t.Error("notificationRegistry map not initialized")
	}
}

func TestRegisterNotifier(t *testing.T) {
	nm, _ := NewNotificationManager()
	mockNotifier := &MockNotifier{}

	// Test registering a notifier
	nm.RegisterNotifier(EmailSystem, mockNotifier)
	if n, exists := nm.notifiers[EmailSystem]; !exists {
		t.Error("Notifier not registered")
	} else if n != mockNotifier {
		t.Error("Wrong notifier registered")
	}

	// Test overwriting existing notifier
	newMockNotifier := &MockNotifier{}
	nm.RegisterNotifier(EmailSystem, newMockNotifier)
	if n := nm.notifiers[EmailSystem]; n != newMockNotifier {
		t.Error("Notifier not overwritten")
	}
}

func TestRegisterNotification(t *testing.T) {
	nm, _ := NewNotificationManager()

	tests := []struct {
		name        string
		notifType   NoticeType
		system      NotificationSystem
		template    NoticeTemplate
		shouldError bool
	}{
		{
			name:        "Valid registration with both Text and Html",
			notifType:   PhoneVerificationNotice,
			system:      EmailSystem,
			template:    NoticeTemplate{Subject: "Your code", Text: "{{.Code}} is your code", Html: "<p>{{.Code}} is your code</p>"},
			shouldError: false,
		},
		{
			name:        "Valid registration with Text only",
			notifType:   PhoneVerificationNotice,
			system:      SMSSystem,
			template:    NoticeTemplate{Text: "{{.Code}} is your code"},
			shouldError: false,
		},
		{
			name:        "Empty notification type",
			notifType:   "",
			system:      EmailSystem,
			template:    NoticeTemplate{Text: "{{.Code}} is your code"},
			shouldError: true,
		},
		{
			name:        "Empty system",
			notifType:   PhoneVerificationNotice,
			system:      "",
			template:    NoticeTemplate{Text: "{{.Code}} is your code"},
			shouldError: true,
		},
		{
			name:        "No content",
			notifType:   PhoneVerificationNotice,
			system:      EmailSystem,
			template:    NoticeTemplate{Subject: "Your code"},
			shouldError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := nm.RegisterNotification(tt.notifType, tt.system, tt.template)
			if tt.shouldError && err == nil {
				t.Error("Expected error but got none")
			}
			if !tt.shouldError && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if !tt.shouldError {
				if template, exists := nm.notificationRegistry[tt.notifType][tt.system]; !exists {
					t.Error("Template not registered")
				} else if template.Text != tt.template.Text {
					t.Errorf("Wrong text body registered. Got %s, want %s", template.Text, tt.template.Text)
				}
			}
		})
	}
}

func TestSend(t *testing.T) {
	nm, _ := NewNotificationManager()
	mockSMSNotifier := &MockNotifier{}
	nm.RegisterNotifier(SMSSystem, mockSMSNotifier)

	err := nm.RegisterNotification(PhoneVerificationNotice, SMSSystem, NoticeTemplate{Text: "{{.Code}} is your phone verification code."})
	if err != nil {
		t.Fatalf("Failed to register SMS notification: %v", err)
	}

	testData := NotificationData{
		To:   "+15550001111",
		Body: "AB12C is your phone verification code.",
	}

	if err := nm.Send(PhoneVerificationNotice, SMSSystem, testData); err != nil {
		t.Errorf("Failed to send notification: %v", err)
	}

	if len(mockSMSNotifier.SentNotifications) != 1 {
		t.Fatal("SMS notification not sent")
	}
	sent := mockSMSNotifier.SentNotifications[0]
	if sent.To != testData.To || sent.Body != testData.Body {
		t.Error("SMS notification data mismatch")
	}
}

func TestSendErrors(t *testing.T) {
	nm, _ := NewNotificationManager()

	// Unregistered notification type
	if err := nm.Send("unregistered", SMSSystem, NotificationData{}); err == nil {
		t.Error("Expected error for unregistered notification type")
	}

	// Template registered for a different system than requested
	err := nm.RegisterNotification(PhoneVerificationNotice, SMSSystem, NoticeTemplate{Text: "{{.Code}}"})
	if err != nil {
		t.Fatalf("Failed to register notification: %v", err)
	}
	if err := nm.Send(PhoneVerificationNotice, EmailSystem, NotificationData{}); err == nil {
		t.Error("Expected error for missing system template")
	}

	// Template registered but no notifier
	err = nm.Send(PhoneVerificationNotice, SMSSystem, NotificationData{})
	if err == nil {
		t.Error("Expected error for missing notifier")
	} else if err.Error() != "no notifier registered for system: sms" {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestDispatcher(t *testing.T) {
	nm, _ := NewNotificationManager()
	mockNotifier := &MockNotifier{}
	nm.RegisterNotifier(SMSSystem, mockNotifier)
	if err := nm.RegisterNotification(PhoneVerificationNotice, SMSSystem, NoticeTemplate{Text: "{{.Code}}"}); err != nil {
		t.Fatalf("Failed to register notification: %v", err)
	}

	dispatcher := NewDispatcher(nm, "")

	err := dispatcher.Send(context.Background(), "+15550001111", "AB12C is your phone verification code.")
	if err != nil {
		t.Fatalf("Dispatcher send failed: %v", err)
	}

	if len(mockNotifier.SentNotifications) != 1 {
		t.Fatal("Notification not routed to SMS notifier")
	}
	sent := mockNotifier.SentNotifications[0]
	if sent.To != "+15550001111" {
		t.Errorf("Wrong recipient: %s", sent.To)
	}
	if sent.Body != "AB12C is your phone verification code." {
		t.Errorf("Wrong body: %s", sent.Body)
	}
}
