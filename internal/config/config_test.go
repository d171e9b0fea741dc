package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, 5432, cfg.PostgresPort)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092")
	t.Setenv("POSTGRES_PORT", "5433")

	cfg := Load()

	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 5433, cfg.PostgresPort)
}

func TestLoad_BadIntFallsBack(t *testing.T) {
	t.Setenv("POSTGRES_PORT", "not-a-port")

	cfg := Load()

	assert.Equal(t, 5432, cfg.PostgresPort)
}

func TestSplitList_DropsEmptyEntries(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList("a,, b ,"))
	assert.Nil(t, splitList(""))
}
