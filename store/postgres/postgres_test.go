package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigDSN(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=postgres dbname=taskpipe sslmode=disable",
		cfg.DSN())
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	assert.Nil(t, cfg.Validate())

	cfg.Port = 0
	assert.NotNil(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.SSLMode = "sometimes"
	assert.NotNil(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.SSLMode = ""
	assert.Nil(t, cfg.Validate())
	assert.Equal(t, "disable", cfg.SSLMode)
}

func TestParseDSN(t *testing.T) {
	cfg, err := ParseDSN("host=db.internal port=5433 user=pipe password=secret dbname=reports sslmode=require")
	assert.Nil(t, err)
	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, 5433, cfg.Port)
	assert.Equal(t, "pipe", cfg.User)
	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, "reports", cfg.Database)
	assert.Equal(t, "require", cfg.SSLMode)
}

func TestParseDSNDefaults(t *testing.T) {
	cfg, err := ParseDSN("host=pg.local")
	assert.Nil(t, err)
	assert.Equal(t, "pg.local", cfg.Host)
	assert.Equal(t, 5432, cfg.Port)
	assert.Equal(t, "taskpipe", cfg.Database)
}

func TestParseDSNInvalid(t *testing.T) {
	_, err := ParseDSN("host=ok sslmode=nope")
	assert.NotNil(t, err)
}

// needs a reachable server; set TASKPIPE_PG_DSN to run
func TestPostgresStoreRoundTrip(t *testing.T) {
	dsn := os.Getenv("TASKPIPE_PG_DSN")
	if dsn == "" {
		t.Skip("TASKPIPE_PG_DSN not set")
	}

	cfg, err := ParseDSN(dsn)
	assert.Nil(t, err)
	s, err := NewPostgresStore(cfg)
	assert.Nil(t, err)

	ctx := context.Background()
	assert.Nil(t, s.Set(ctx, "/test/", "key", []byte("value")))

	v, err := s.Get(ctx, "/test/", "key")
	assert.Nil(t, err)
	assert.Equal(t, []byte("value"), v)

	assert.Nil(t, s.Remove(ctx, "/test/", "key"))
}
