package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// NotificationFromAlert derives a notification from a normalized alert.
// Severity maps to presentation type: high → error, medium → warning,
// low → info. The notification timestamp is the creation instant, taken
// from the package clock.
func NotificationFromAlert(a Alert) Notification {
	return Notification{
		ID:        generateNotificationID(a.Source, a.ID),
		Title:     a.Title,
		Message:   a.Description,
		Type:      notificationTypeFor(a.Severity),
		Timestamp: clock.Now().UTC(),
		Source:    AttributionNWS,
	}
}

// NotificationFromDeclaration derives a notification from a federal
// disaster declaration. Declarations always notify as warnings.
func NotificationFromDeclaration(d Declaration, index int) Notification {
	message := d.DeclarationSummary
	if message == "" {
		message = fmt.Sprintf("Federal disaster declared in %s: %s", d.State, d.IncidentType)
	}
	return Notification{
		ID:        generateNotificationID(SourceFederal, fmt.Sprintf("%d|%s", index, d.DeclarationTitle)),
		Title:     d.DeclarationTitle,
		Message:   message,
		Type:      NotificationWarning,
		Timestamp: clock.Now().UTC(),
		Source:    AttributionFEMA,
	}
}

func notificationTypeFor(s Severity) NotificationType {
	switch s {
	case SeverityHigh:
		return NotificationError
	case SeverityMedium:
		return NotificationWarning
	default:
		return NotificationInfo
	}
}

func generateNotificationID(source, key string) string {
	hash := sha256.Sum256([]byte("ntf|" + source + "|" + key))
	return "ntf-" + hex.EncodeToString(hash[:8])
}
