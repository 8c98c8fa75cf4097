package notifications

import (
	"context"
	"sync"
)

// Inbox keeps the most recent notifications for the UI shell to poll.
type Inbox struct {
	mu   sync.Mutex
	max  int
	list []Notification
}

func NewInbox(size int) *Inbox {
	if size <= 0 {
		size = 50
	}
	return &Inbox{max: size}
}

func (i *Inbox) Notify(_ context.Context, n Notification) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.list = append(i.list, n)
	if over := len(i.list) - i.max; over > 0 {
		i.list = append([]Notification(nil), i.list[over:]...)
	}
	return nil
}

// Recent returns the kept notifications, oldest first.
func (i *Inbox) Recent() []Notification {
	i.mu.Lock()
	defer i.mu.Unlock()

	out := make([]Notification, len(i.list))
	copy(out, i.list)
	return out
}

// Drain returns and forgets the kept notifications.
func (i *Inbox) Drain() []Notification {
	i.mu.Lock()
	defer i.mu.Unlock()

	out := i.list
	i.list = nil
	if out == nil {
		out = []Notification{}
	}
	return out
}
