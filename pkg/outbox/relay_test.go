package outbox

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProducer struct{ mock.Mock }

func (m *mockProducer) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(msgs[0].Key)
	return args.Error(0)
}

type fakeStore struct {
	batch  []Event
	sent   []uint64
	failed map[uint64]string
}

func (s *fakeStore) LockBatch(context.Context, int) ([]Event, error) {
	b := s.batch
	s.batch = nil
	return b, nil
}

func (s *fakeStore) MarkSent(_ context.Context, ids []uint64) error {
	s.sent = append(s.sent, ids...)
	return nil
}

func (s *fakeStore) MarkFailed(_ context.Context, id uint64, msg string) error {
	s.failed[id] = msg
	return nil
}

func TestFlushMarksSentAndFailed(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	prod := new(mockProducer)
	prod.On("WriteMessages", []byte("1")).Return(nil)
	prod.On("WriteMessages", []byte("2")).Return(errors.New("broker down"))

	store := &fakeStore{
		batch: []Event{
			{ID: 10, AggregateType: "order", AggregateID: "1", Type: "OrderCreated", Payload: []byte(`{}`)},
			{ID: 11, AggregateType: "order", AggregateID: "2", Type: "OrderCreated", Payload: []byte(`{}`)},
		},
		failed: map[uint64]string{},
	}
	relay := NewRelay(log, store, NewDispatcher(log, prod, "orders"))

	n, err := relay.Flush(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []uint64{10}, store.sent)
	assert.Equal(t, "broker down", store.failed[11])
	prod.AssertExpectations(t)
}

func TestFlushEmptyBatch(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	prod := new(mockProducer)
	relay := NewRelay(log, &fakeStore{failed: map[uint64]string{}}, NewDispatcher(log, prod, "orders"))

	n, err := relay.Flush(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	prod.AssertNotCalled(t, "WriteMessages", mock.Anything)
}
