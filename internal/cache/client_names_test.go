package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRedisClient_DisabledWithoutServer(t *testing.T) {
	ctx := context.Background()

	assert.Nil(t, NewRedisClient(ctx, ""))
	// porta fechada: ping falha e o cache fica desligado
	assert.Nil(t, NewRedisClient(ctx, "127.0.0.1:1"))
}
