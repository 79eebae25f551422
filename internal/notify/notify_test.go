package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recv(t *testing.T, s *Subscriber) Event {
	t.Helper()
	select {
	case ev, ok := <-s.C:
		require.True(t, ok, "channel closed")
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestHub_DeliversToTenantOnly(t *testing.T) {
	h := NewHub(nil)
	alice := h.Subscribe("alice")
	bob := h.Subscribe("bob")
	defer h.Unsubscribe(alice)
	defer h.Unsubscribe(bob)

	ev := Event{Tenant: "alice", Collection: CollectionBlocks, Op: OpReplace}
	require.NoError(t, h.Publish(context.Background(), ev))

	assert.Equal(t, ev, recv(t, alice))
	select {
	case got := <-bob.C:
		t.Fatalf("bob received %+v", got)
	default:
	}
}

func TestHub_FansOutToAllSubscribers(t *testing.T) {
	h := NewHub(nil)
	a := h.Subscribe("t")
	b := h.Subscribe("t")
	assert.Equal(t, 2, h.Subscribers("t"))

	ev := Event{Tenant: "t", Collection: CollectionSubjects, Op: OpAdd, ID: "s1"}
	require.NoError(t, h.Publish(context.Background(), ev))
	assert.Equal(t, ev, recv(t, a))
	assert.Equal(t, ev, recv(t, b))
}

func TestHub_PublishNeverBlocks(t *testing.T) {
	h := NewHub(nil)
	s := h.Subscribe("t")

	done := make(chan struct{})
	go func() {
		for i := 0; i < DefaultBuffer*3; i++ {
			_ = h.Publish(context.Background(), Event{Tenant: "t", Op: OpUpdate})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
	assert.Len(t, s.C, DefaultBuffer)
}

func TestHub_Unsubscribe(t *testing.T) {
	h := NewHub(nil)
	s := h.Subscribe("t")
	h.Unsubscribe(s)
	h.Unsubscribe(s)

	_, ok := <-s.C
	assert.False(t, ok, "channel should be closed")
	assert.Zero(t, h.Subscribers("t"))
	assert.NoError(t, h.Publish(context.Background(), Event{Tenant: "t"}))
}

func TestHub_ConcurrentUse(t *testing.T) {
	h := NewHub(nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s := h.Subscribe("t")
			h.Unsubscribe(s)
		}()
		go func() {
			defer wg.Done()
			_ = h.Publish(context.Background(), Event{Tenant: "t"})
		}()
	}
	wg.Wait()
	assert.Zero(t, h.Subscribers("t"))
}

type recordingPublisher struct {
	events []Event
	err    error
}

func (r *recordingPublisher) Publish(_ context.Context, ev Event) error {
	r.events = append(r.events, ev)
	return r.err
}

func TestMulti(t *testing.T) {
	boom := errors.New("boom")
	first := &recordingPublisher{err: boom}
	second := &recordingPublisher{}

	err := Multi{first, nil, second, Nop{}}.Publish(context.Background(), Event{Tenant: "t"})
	assert.ErrorIs(t, err, boom)
	assert.Len(t, first.events, 1)
	assert.Len(t, second.events, 1, "later publishers still run")
}

func TestRedisBus_DecodeSkipsOwnOrigin(t *testing.T) {
	b := newRedisBus(nil, DefaultRedisChannel, nil)

	own, err := json.Marshal(Event{Tenant: "t", Origin: b.origin})
	require.NoError(t, err)
	_, forward := b.decode(string(own))
	assert.False(t, forward)

	foreign, err := json.Marshal(Event{Tenant: "t", Collection: CollectionAlerts, Op: OpAdd, Origin: "other"})
	require.NoError(t, err)
	ev, forward := b.decode(string(foreign))
	assert.True(t, forward)
	assert.Equal(t, CollectionAlerts, ev.Collection)

	_, forward = b.decode("{not json")
	assert.False(t, forward)
}

func TestRedisBus_Uninitialized(t *testing.T) {
	var b *RedisBus
	assert.Error(t, b.Publish(context.Background(), Event{}))
	assert.Error(t, b.StartForwarder(context.Background(), func(Event) {}))
	assert.NoError(t, b.Close())
}
