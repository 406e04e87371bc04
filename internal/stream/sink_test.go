package stream

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"smarthome-panel/internal/controller"
	"smarthome-panel/internal/models"
	"smarthome-panel/internal/notify"
)

func newSink(t *testing.T) (*Sink, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	s := NewSink(client, "smarthome:events", 8, zap.NewNop())
	s.now = func() time.Time { return time.Unix(1767225600, 0) }
	return s, mr
}

// drain runs the writer with a cancelled context, which flushes the queue
func drain(s *Sink) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.Run(ctx)
}

func TestSinkPublishAndRecent(t *testing.T) {
	s, _ := newSink(t)
	ctx := context.Background()

	bus := notify.NewBus[controller.AuthEvent]("auth", nil)
	notify.Forward(bus, s)
	bus.Notify(controller.UserAdded{User: models.AuthUser{Username: "olga", Password: "secret", Role: "user"}})
	drain(s)

	_, err := s.Publish(ctx, "device", controller.DeviceDeleted{DeviceID: "d1"})
	require.NoError(t, err)

	msgs, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, controller.KindDeviceDeleted, msgs[0].Kind)
	assert.Equal(t, "device", msgs[0].Controller)
	assert.JSONEq(t, `{"DeviceID":"d1"}`, msgs[0].Data)
	assert.Equal(t, int64(1767225600), msgs[0].Timestamp.Unix())

	assert.Equal(t, controller.KindUserAdded, msgs[1].Kind)
	assert.Equal(t, "auth", msgs[1].Controller)
	assert.NotContains(t, msgs[1].Data, "secret")
	assert.Contains(t, msgs[1].Data, "olga")
}

func TestSinkPublishError(t *testing.T) {
	s, mr := newSink(t)
	mr.Close()

	_, err := s.Publish(context.Background(), "device", controller.DeviceDeleted{DeviceID: "d1"})
	assert.Error(t, err)

	// the write fails and is only logged
	s.Record("device", controller.DeviceDeleted{DeviceID: "d1"})
	drain(s)
}

func TestSinkRecordDoesNotWait(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	s := NewSink(client, "smarthome:events", 2, zap.NewNop())

	start := time.Now()
	for i := 0; i < 5; i++ {
		s.Record("device", controller.DeviceDeleted{DeviceID: "d1"})
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
	assert.Len(t, s.queue, 2, "overflow is dropped")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx)
	}()
	require.Eventually(t, func() bool {
		msgs, err := s.Recent(context.Background(), 10)
		return err == nil && len(msgs) == 2
	}, time.Second, 10*time.Millisecond)
	cancel()
	<-done
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	client, err := Connect(context.Background(), addr, "")
	require.NoError(t, err)
	require.NoError(t, client.Close())

	mr.Close()
	_, err = Connect(context.Background(), addr, "")
	assert.ErrorContains(t, err, addr)
}
