package nats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubjectIsCoveredByStream(t *testing.T) {
	assert.Equal(t, "events.LOGIN_SUCCEEDED", Subject("LOGIN_SUCCEEDED"))
}
