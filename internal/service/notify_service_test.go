package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/plantrack/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotify_PersistsBeforePush(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	n, err := env.NotifySvc.Notify(ctx, "u1", domain.NotifyInfo, "hello", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.NotificationUnread, n.Status)

	// No subscriber was listening; the notification is still durable.
	unread, err := env.NotifySvc.ListUnread(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "hello", unread[0].Message)
}

func TestNotify_PushesToAllSubscribersOfUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sub1 := env.NotifySvc.Subscribe("u1")
	sub2 := env.NotifySvc.Subscribe("u1")
	other := env.NotifySvc.Subscribe("u2")
	defer sub1.Close()
	defer sub2.Close()
	defer other.Close()

	_, err := env.NotifySvc.Notify(ctx, "u1", domain.NotifyInfo, "ping", nil, nil)
	require.NoError(t, err)

	for _, sub := range []*Subscription{sub1, sub2} {
		select {
		case n := <-sub.C:
			assert.Equal(t, "ping", n.Message)
		default:
			t.Fatal("expected delivery on every channel of the target user")
		}
	}
	select {
	case <-other.C:
		t.Fatal("notification leaked to another user's channel")
	default:
	}
}

func TestNotify_SlowSubscriberDoesNotBlock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sub := env.NotifySvc.Subscribe("u1")
	defer sub.Close()

	// Never read from the channel; pushes beyond the buffer are dropped but
	// every notification is persisted.
	for i := 0; i < subscriptionBuffer+5; i++ {
		_, err := env.NotifySvc.Notify(ctx, "u1", domain.NotifyInfo, "flood", nil, nil)
		require.NoError(t, err)
	}

	count, err := env.NotifySvc.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, subscriptionBuffer+5, count)
}

func TestRegistry_ExpiredSubscriptionIsPrunedAndClosed(t *testing.T) {
	registry := newSubscriberRegistry()
	base := time.Now()
	registry.now = func() time.Time { return base }

	sub := registry.subscribe("u1")

	registry.now = func() time.Time { return base.Add(subscriptionTTL + time.Minute) }
	delivered := registry.publish(&domain.Notification{UserID: "u1", Message: "late"})
	assert.Equal(t, 0, delivered)

	_, open := <-sub.C
	assert.False(t, open, "expired subscription channel must be closed")

	registry.mu.Lock()
	_, present := registry.subs["u1"]
	registry.mu.Unlock()
	assert.False(t, present)
}

func TestRegistry_CloseDeregisters(t *testing.T) {
	registry := newSubscriberRegistry()
	sub := registry.subscribe("u1")
	keep := registry.subscribe("u1")

	sub.Close()

	delivered := registry.publish(&domain.Notification{UserID: "u1", Message: "still here"})
	assert.Equal(t, 1, delivered)
	select {
	case n := <-keep.C:
		assert.Equal(t, "still here", n.Message)
	default:
		t.Fatal("remaining subscription should still receive")
	}
}

func TestDrain_ClosesEverySubscription(t *testing.T) {
	env := newTestEnv(t)

	sub1 := env.NotifySvc.Subscribe("u1")
	sub2 := env.NotifySvc.Subscribe("u2")

	env.NotifySvc.Drain()

	_, open1 := <-sub1.C
	_, open2 := <-sub2.C
	assert.False(t, open1)
	assert.False(t, open2)

	// Closing an already-drained subscription is a no-op.
	sub1.Close()
}

func TestMarkRead_Flow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	n, err := env.NotifySvc.Notify(ctx, "u1", domain.NotifyInfo, "a", nil, nil)
	require.NoError(t, err)
	_, err = env.NotifySvc.Notify(ctx, "u1", domain.NotifyInfo, "b", nil, nil)
	require.NoError(t, err)

	require.NoError(t, env.NotifySvc.MarkRead(ctx, n.ID))
	count, err := env.NotifySvc.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, env.NotifySvc.MarkAllRead(ctx, "u1"))
	count, err = env.NotifySvc.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
