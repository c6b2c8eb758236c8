package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRedisClientFailsWhenUnreachable(t *testing.T) {
	client, err := NewRedisClient(&Config{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
	assert.Nil(t, client)
}
