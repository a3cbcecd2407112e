package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	Use(zap.New(core))
	t.Cleanup(func() {
		Use(zap.NewNop())
		SetRedactPII(true)
	})
	return logs
}

func TestInfo_RedactsRespondentNames(t *testing.T) {
	logs := observe(t)

	Info("respondent created", "respondent_name", "Jane Nakato", "district", "mbale", "group_name", "bugisu growers")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "J*** N***", fields["respondent_name"])
	assert.Equal(t, "mbale", fields["district"])
	assert.Equal(t, "bugisu growers", fields["group_name"])
}

func TestWarn_RedactsEmbeddedContacts(t *testing.T) {
	logs := observe(t)

	Warn("bad row", "detail", "contact jane@example.com or +256 772 123456", "phone", "0772123456")

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "contact ja***@example.com or ***", fields["detail"])
	assert.Equal(t, "***", fields["phone"])
}

func TestSetRedactPII_Off(t *testing.T) {
	logs := observe(t)
	SetRedactPII(false)

	Error("failed", "respondent_name", "Jane Nakato")

	assert.Equal(t, "Jane Nakato", logs.All()[0].ContextMap()["respondent_name"])
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[0].Level)
}

func TestWith_AddsFields(t *testing.T) {
	logs := observe(t)

	With("component", "import").Info("started", "rows", 3)

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "import", fields["component"])
	assert.EqualValues(t, 3, fields["rows"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("DEBUG"))
	assert.Equal(t, WARN, ParseLevel("warning"))
	assert.Equal(t, ERROR, ParseLevel("error"))
	assert.Equal(t, INFO, ParseLevel(""))
}

func TestRedactEmail(t *testing.T) {
	assert.Equal(t, "jo***@example.com", RedactEmail("john.doe@example.com"))
	assert.Equal(t, "***@example.com", RedactEmail("ab@example.com"))
	assert.Equal(t, "***@***", RedactEmail("nope"))
}
