package users

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedisNotifierPublishesJSON(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	sub := client.Subscribe(context.Background(), EventChannel)
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(context.Background())
	require.NoError(t, err)

	notifier := NewRedisNotifier(client)
	err = notifier.Notify(context.Background(), Event{
		Type:   EventApproved,
		UserID: 7,
		Email:  "ana@winside.example",
		Brand:  "insole",
		At:     time.Now().UTC(),
	})
	require.NoError(t, err)

	select {
	case msg := <-sub.Channel():
		var event Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
		require.Equal(t, EventApproved, event.Type)
		require.Equal(t, int64(7), event.UserID)
		require.Equal(t, "insole", event.Brand)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a published event")
	}
}
