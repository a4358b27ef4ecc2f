package purchase

import (
	"sync"
	"time"
)

// NotificationTTL is how long a transient validation notification stays
// visible before it expires on its own.
const NotificationTTL = 5 * time.Second

// Notification is one transient, dismissible validation message.
type Notification struct {
	Field     string    `json:"field"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Notifier collects transient notifications for the notification-style
// form variants. Expired entries are pruned on read.
type Notifier struct {
	mu      sync.Mutex
	entries []Notification
	now     func() time.Time
}

// NewNotifier returns an empty notifier using wall-clock time.
func NewNotifier() *Notifier {
	return &Notifier{now: time.Now}
}

// Push raises one notification per failing field.
func (n *Notifier) Push(errs Errors) {
	n.mu.Lock()
	defer n.mu.Unlock()
	expiry := n.now().Add(NotificationTTL)
	for field, msg := range errs {
		n.entries = append(n.entries, Notification{Field: field, Message: msg, ExpiresAt: expiry})
	}
}

// Active returns the not-yet-expired notifications and drops the rest.
func (n *Notifier) Active() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	now := n.now()
	live := n.entries[:0]
	for _, e := range n.entries {
		if e.ExpiresAt.After(now) {
			live = append(live, e)
		}
	}
	n.entries = live
	out := make([]Notification, len(live))
	copy(out, live)
	return out
}

// Dismiss drops every pending notification.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.entries = nil
}
