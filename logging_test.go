package conc

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/joeycumines/stumpy"
	"github.com/stretchr/testify/require"
)

func TestLogger_WritesStructuredJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewJSONLogger(stumpy.WithWriter(&buf))

	l.info("hello", F("n", 1))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "hello", decoded["msg"])
}

func TestLogger_WarnIsRateLimited(t *testing.T) {
	var buf bytes.Buffer
	l := NewJSONLogger(stumpy.WithWriter(&buf))

	for i := 0; i < 50; i++ {
		l.warn("spam", "repeated warning")
	}

	lines := bytes.Count(buf.Bytes(), []byte("\n"))
	require.Less(t, lines, 50, "rate limiting should suppress most repeats")
}

func TestSetLogger_OverridesDefault(t *testing.T) {
	original := defaultLogger()
	defer SetLogger(original)

	var buf bytes.Buffer
	SetLogger(NewJSONLogger(stumpy.WithWriter(&buf)))

	defaultLogger().info("via default")
	require.Contains(t, buf.String(), "via default")
}
