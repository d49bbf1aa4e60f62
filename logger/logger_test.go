package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitizeRedactsSecrets(t *testing.T) {
	out := sanitizeKVs([]interface{}{"username", "admin", "password", "hunter2", "JWT_Token", "abc", "dangling"})
	assert.Equal(t, []interface{}{"username", "admin", "password", "[REDACTED]", "JWT_Token", "[REDACTED]", "dangling"}, out)
}

func TestWithCarriesFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.With("service", "LedgerService").Info("count recorded", "item_id", 7)

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "LedgerService", fields["service"])
		assert.EqualValues(t, 7, fields["item_id"])
	}
}

func TestNopIsSafe(t *testing.T) {
	l := NewNop()
	l.Info("ignored", "k", "v")
	l.With("a", 1).Error("ignored")
	l.Sync()
}
