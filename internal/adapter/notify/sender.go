package notify

import (
	"context"
	"log"

	"github.com/mosessifuna20/gatimbi-library-portal/internal/domain/notification"
)

// LogSender writes each event to the log instead of delivering it. SMS
// and email gateways plug in behind Sender.
type LogSender struct{}

func (LogSender) Send(_ context.Context, e notification.Event) error {
	log.Printf("notify: [%s] %s to user %s via %v: %s", e.Priority, e.Title, e.UserID, e.Channels, e.Message)
	return nil
}
