package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/fms-dashboard-api/pkg/config"
)

func TestAddr(t *testing.T) {
	assert.Equal(t, "localhost:6379", Addr(config.RedisConfig{Host: "localhost", Port: 6379}))
	assert.Equal(t, "[::1]:6380", Addr(config.RedisConfig{Host: "::1", Port: 6380}))
}
