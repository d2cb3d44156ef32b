package ui

import (
	"log"

	"github.com/gen2brain/beeep"
)

// NotificationManager shows a desktop notification when the capture state
// changes.
type NotificationManager struct {
	useNotifications bool
	appName          string
	notify           func(title, message, appIcon string) error
	dispatch         func(func())
}

// NewNotificationManager creates a new notification manager
func NewNotificationManager(useNotifications bool, appName string) *NotificationManager {
	return &NotificationManager{
		useNotifications: useNotifications,
		appName:          appName,
		notify:           beeep.Notify,
		dispatch:         func(f func()) { go f() },
	}
}

// ShowNotification displays a desktop notification if enabled
func (n *NotificationManager) ShowNotification(title, message string) {
	if !n.useNotifications {
		return
	}
	if err := n.notify(title, message, ""); err != nil {
		log.Printf("Error showing notification: %v", err)
	}
}

// CaptureStateChanged announces a new capture state. The notification is
// sent off the caller's goroutine so it cannot hold up the next key event.
func (n *NotificationManager) CaptureStateChanged(capturing bool, reason string) {
	if !n.useNotifications {
		return
	}
	title := n.appName + ": microphone muted"
	if capturing {
		title = n.appName + ": microphone live"
	}
	n.dispatch(func() { n.ShowNotification(title, "by "+reason) })
}
