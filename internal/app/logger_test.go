package app

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerFormats(t *testing.T) {
	buf := new(bytes.Buffer)
	newLogger(buf, &Config{LogFormat: "json", AppEnv: "production"}).Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "production", entry["env"])

	buf.Reset()
	newLogger(buf, nil).Info("plain")
	assert.True(t, strings.Contains(buf.String(), "msg=plain"))
}
