package notifymock

import (
	"context"
	"sync"

	"github.com/mosessifuna20/gatimbi-library-portal/internal/domain/notification"
)

var _ notification.Publisher = (*Publisher)(nil)

// Publisher records every event; Err, when set, is returned from Publish
// after recording.
type Publisher struct {
	mu     sync.Mutex
	Err    error
	events []notification.Event
}

func (p *Publisher) Publish(_ context.Context, e notification.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.Err
}

func (p *Publisher) Events() []notification.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]notification.Event, len(p.events))
	copy(out, p.events)
	return out
}
