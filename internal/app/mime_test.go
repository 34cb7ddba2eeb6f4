package app

import (
	"bytes"
	"log/slog"
	"mime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssetTypesRegistered(t *testing.T) {
	buf := new(bytes.Buffer)
	registerAssetTypes(slog.New(slog.NewTextHandler(buf, nil)))

	assert.True(t, strings.HasPrefix(mime.TypeByExtension(".css"), "text/css"))
	assert.Equal(t, "image/svg+xml", mime.TypeByExtension(".svg"))
	assert.Empty(t, buf.String())
}

func TestInTestModeFromEnv(t *testing.T) {
	assert.True(t, InTestMode())
}
