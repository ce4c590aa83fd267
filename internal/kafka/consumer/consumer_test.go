package consumer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"fotoladuViewer/internal/lib/logger/handlers/slogdiscard"
)

// fakeReader hands out queued messages, then blocks until ctx is done.
type fakeReader struct {
	msgs   chan kafka.Message
	errs   chan error
	closed bool
}

func newFakeReader() *fakeReader {
	return &fakeReader{
		msgs: make(chan kafka.Message, 8),
		errs: make(chan error, 8),
	}
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	case err := <-r.errs:
		return kafka.Message{}, err
	case m := <-r.msgs:
		return m, nil
	}
}

func (r *fakeReader) Close() error {
	r.closed = true
	return nil
}

func TestReadMessagesSurvivesHandlerError(t *testing.T) {
	reader := newFakeReader()
	reader.msgs <- kafka.Message{Topic: "jobs", Value: []byte("first")}
	reader.msgs <- kafka.Message{Topic: "jobs", Value: []byte("second")}

	c := newConsumer(reader, "jobs", slogdiscard.NewDiscardLogger())

	var (
		mu   sync.Mutex
		seen []string
	)
	handler := func(_ context.Context, msg []byte) error {
		mu.Lock()
		defer mu.Unlock()

		seen = append(seen, string(msg))
		if string(msg) == "first" {
			return errors.New("bad job")
		}
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.ReadMessages(ctx, handler) }()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 2
	}, 2*time.Second, 10*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop after cancel")
	}

	require.Equal(t, []string{"first", "second"}, seen)
}

func TestReadMessagesSurvivesReadError(t *testing.T) {
	reader := newFakeReader()
	reader.errs <- errors.New("broker unavailable")
	reader.msgs <- kafka.Message{Value: []byte("after error")}

	c := newConsumer(reader, "jobs", slogdiscard.NewDiscardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan string, 1)
	done := make(chan error, 1)
	go func() {
		done <- c.ReadMessages(ctx, func(_ context.Context, msg []byte) error {
			got <- string(msg)
			return nil
		})
	}()

	select {
	case msg := <-got:
		require.Equal(t, "after error", msg)
	case <-time.After(2 * time.Second):
		t.Fatal("message after read error was not handled")
	}

	cancel()
	require.NoError(t, <-done)
}

func TestReadMessagesStopsOnCancelledContext(t *testing.T) {
	c := newConsumer(newFakeReader(), "jobs", slogdiscard.NewDiscardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.ReadMessages(ctx, func(context.Context, []byte) error {
		t.Fatal("handler must not run")
		return nil
	})
	require.NoError(t, err)
}

func TestClose(t *testing.T) {
	reader := newFakeReader()
	c := newConsumer(reader, "jobs", slogdiscard.NewDiscardLogger())

	require.NoError(t, c.Close())
	require.True(t, reader.closed)
}
