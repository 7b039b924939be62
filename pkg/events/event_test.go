package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	evt := New("LOGIN_SUCCEEDED", map[string]interface{}{"client_id": "c1"})

	raw, err := Encode(evt)
	require.NoError(t, err)

	got, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "LOGIN_SUCCEEDED", got.EventType())
	assert.Equal(t, "c1", got.Payload()["client_id"])
	assert.True(t, evt.Timestamp().Equal(got.Timestamp()))
}

func TestDecodeRejectsUntypedPayload(t *testing.T) {
	_, err := Decode([]byte(`{"data":{}}`))
	assert.ErrorIs(t, err, ErrInvalidEvent)

	_, err = Decode([]byte(`nope`))
	assert.ErrorIs(t, err, ErrInvalidEvent)
}
