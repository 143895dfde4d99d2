package messaging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventKeyAndHeaders(t *testing.T) {
	e := Event{Resource: "store", Action: ActionDeleted, ID: "abc"}

	assert.Equal(t, []byte("store:abc"), e.Key())
	assert.Equal(t, map[string]string{"resource": "store", "action": "deleted"}, e.Headers())
}

func TestDecodeEvent(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	raw, err := Event{Resource: "order", Action: ActionCreated, ID: "42", Name: "Pedido #001", OccurredAt: at}.Encode()
	require.NoError(t, err)

	e, err := DecodeEvent(Message{Value: raw})
	require.NoError(t, err)
	assert.Equal(t, "order", e.Resource)
	assert.Equal(t, ActionCreated, e.Action)
	assert.Equal(t, "42", e.ID)
	assert.Equal(t, "Pedido #001", e.Name)
	assert.True(t, at.Equal(e.OccurredAt))
}

func TestDecodeEventFallsBackToHeaders(t *testing.T) {
	e, err := DecodeEvent(Message{
		Value:   []byte(`{"id":"7"}`),
		Headers: map[string]string{"resource": "user", "action": "updated"},
	})
	require.NoError(t, err)
	assert.Equal(t, "user", e.Resource)
	assert.Equal(t, ActionUpdated, e.Action)
}

func TestDecodeEventRejectsGarbage(t *testing.T) {
	_, err := DecodeEvent(Message{Value: []byte("not json"), Offset: 9})
	assert.ErrorContains(t, err, "offset 9")
}
