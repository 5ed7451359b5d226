// Package notification provides a unified interface for sending notifications via multiple channels.
//
// This package defines the Notifier interface with implementations for SMS
// (Twilio) and email (SMTP via go-mail), plus a mock notifier for tests. The
// NotificationManager pairs registered notifiers with per-notice templates;
// Dispatcher adapts the manager to the phone verification core's send
// interface.
//
// # Basic Usage
//
//	nm, err := notification.NewNotificationManager(
//		notification.WithTwilio(twilioConfig),
//	)
//	nm.RegisterNotification(notification.PhoneVerificationNotice, notification.SMSSystem,
//		notification.NoticeTemplate{Text: "{{.Code}} is your phone verification code."})
//
//	dispatcher := notification.NewDispatcher(nm, notification.SMSSystem)
//	err = dispatcher.Send(ctx, "+15551234567", "ABC12 is your phone verification code.")
package notification
