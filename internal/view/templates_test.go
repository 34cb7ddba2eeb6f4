package view

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngine(t *testing.T) {
	engine, err := NewEngine()
	assert.NoError(t, err, "Templates should parse without error")
	assert.NotNil(t, engine)
}

func TestRenderUnknownTemplate(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	err = engine.Render(rec, "pages/missing.html", TemplateData{})
	assert.Error(t, err)
}

func TestRenderNilEngine(t *testing.T) {
	var engine *Engine
	err := engine.Render(httptest.NewRecorder(), "pages/dashboard.html", TemplateData{})
	assert.Error(t, err)
}
