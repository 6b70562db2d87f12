package service

import (
	"sync"
	"time"

	"github.com/alexanderramin/plantrack/internal/domain"
)

// subscriptionTTL bounds how long an idle live channel stays registered.
// Expired subscriptions are closed and pruned on the next push or sweep.
const subscriptionTTL = time.Hour

// subscriptionBuffer is the per-channel backlog. A subscriber that falls this
// far behind is dropped rather than allowed to block publishers.
const subscriptionBuffer = 16

// Subscription is one live notification channel for a user. Receive from C
// until it is closed; call Close when done listening.
type Subscription struct {
	C chan *domain.Notification

	userID    string
	expiresAt time.Time
	registry  *subscriberRegistry
	timer     *time.Timer

	closeOnce sync.Once
}

// Close deregisters the subscription and closes its channel.
func (s *Subscription) Close() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.registry.remove(s)
	s.closeChannel()
}

func (s *Subscription) closeChannel() {
	s.closeOnce.Do(func() { close(s.C) })
}

// subscriberRegistry tracks live subscriptions per user. All methods are safe
// for concurrent use.
type subscriberRegistry struct {
	mu   sync.Mutex
	subs map[string][]*Subscription
	now  func() time.Time
}

func newSubscriberRegistry() *subscriberRegistry {
	return &subscriberRegistry{
		subs: make(map[string][]*Subscription),
		now:  time.Now,
	}
}

func (r *subscriberRegistry) subscribe(userID string) *Subscription {
	sub := &Subscription{
		C:         make(chan *domain.Notification, subscriptionBuffer),
		userID:    userID,
		expiresAt: r.now().Add(subscriptionTTL),
		registry:  r,
	}
	// The timer handles idle subscribers; publish prunes expired ones too so
	// a stale channel never receives a late push.
	sub.timer = time.AfterFunc(subscriptionTTL, sub.Close)

	r.mu.Lock()
	r.subs[userID] = append(r.subs[userID], sub)
	r.mu.Unlock()
	return sub
}

// publish delivers n to every live subscription for n.UserID. Sends never
// block: a full channel means the subscriber is too slow and the notification
// is simply not pushed (it is already persisted). Expired subscriptions are
// closed and pruned in passing. Returns the number of successful deliveries.
func (r *subscriberRegistry) publish(n *domain.Notification) int {
	now := r.now()
	var expired []*Subscription
	delivered := 0

	r.mu.Lock()
	subs := r.subs[n.UserID]
	kept := subs[:0]
	for _, sub := range subs {
		if now.After(sub.expiresAt) {
			expired = append(expired, sub)
			continue
		}
		kept = append(kept, sub)
		select {
		case sub.C <- n:
			delivered++
		default:
		}
	}
	if len(kept) == 0 {
		delete(r.subs, n.UserID)
	} else {
		r.subs[n.UserID] = kept
	}
	r.mu.Unlock()

	for _, sub := range expired {
		if sub.timer != nil {
			sub.timer.Stop()
		}
		sub.closeChannel()
	}
	return delivered
}

func (r *subscriberRegistry) remove(sub *Subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	subs := r.subs[sub.userID]
	for i, s := range subs {
		if s == sub {
			r.subs[sub.userID] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(r.subs[sub.userID]) == 0 {
		delete(r.subs, sub.userID)
	}
}

// drain closes every subscription and empties the registry.
func (r *subscriberRegistry) drain() {
	r.mu.Lock()
	var all []*Subscription
	for _, subs := range r.subs {
		all = append(all, subs...)
	}
	r.subs = make(map[string][]*Subscription)
	r.mu.Unlock()

	for _, sub := range all {
		if sub.timer != nil {
			sub.timer.Stop()
		}
		sub.closeChannel()
	}
}
