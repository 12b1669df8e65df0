package config_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apiconfig "investor_dashboard/pkg/api/config"
	coreconfig "investor_dashboard/pkg/core/config"
	"investor_dashboard/pkg/core/logging"
	"investor_dashboard/pkg/core/pipeline"
	"investor_dashboard/pkg/core/store"
	"investor_dashboard/pkg/core/testutil"
)

func TestMain(m *testing.M) {
	logging.SetLogger(nil)
	os.Exit(m.Run())
}

type MockLoaderSetter struct {
	Set []pipeline.WorkbookLoader
}

func (m *MockLoaderSetter) SetLoader(l pipeline.WorkbookLoader) { m.Set = append(m.Set, l) }

type MockInvalidator struct {
	Calls int
}

func (m *MockInvalidator) Invalidate() { m.Calls++ }

func TestHandleConfig(t *testing.T) {
	h := apiconfig.NewHandler(coreconfig.Defaults(), &MockLoaderSetter{}, &MockInvalidator{})

	rec := httptest.NewRecorder()
	h.HandleConfig(rec, httptest.NewRequest(http.MethodGet, "/api/config", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp apiconfig.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "excelize", resp.ActiveReader)
	assert.Equal(t, []string{"excelize", "stream"}, resp.Available)
	assert.Equal(t, ":8080", resp.Settings.Addr)
	assert.Equal(t, "excelize", resp.Settings.Reader)
}

func TestHandleSwitch(t *testing.T) {
	loader := &MockLoaderSetter{}
	cache := &MockInvalidator{}
	h := apiconfig.NewHandler(coreconfig.Defaults(), loader, cache)

	rec := httptest.NewRecorder()
	h.HandleSwitch(rec, httptest.NewRequest(http.MethodPost, "/api/config/reader", strings.NewReader(`{"reader":"stream"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Success: Switched to stream", rec.Body.String())
	assert.Equal(t, "stream", h.ActiveReader())
	require.Len(t, loader.Set, 1)
	assert.Equal(t, 1, cache.Calls)
}

func TestHandleSwitch_Errors(t *testing.T) {
	loader := &MockLoaderSetter{}
	cache := &MockInvalidator{}
	h := apiconfig.NewHandler(coreconfig.Defaults(), loader, cache)

	tests := []struct {
		name   string
		method string
		body   string
		code   int
	}{
		{"unknown reader", http.MethodPost, `{"reader":"csv"}`, http.StatusBadRequest},
		{"bad json", http.MethodPost, `{reader`, http.StatusBadRequest},
		{"wrong method", http.MethodGet, ``, http.StatusMethodNotAllowed},
		{"preflight", http.MethodOptions, ``, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.HandleSwitch(rec, httptest.NewRequest(tt.method, "/api/config/reader", strings.NewReader(tt.body)))
			assert.Equal(t, tt.code, rec.Code)
		})
	}
	assert.Empty(t, loader.Set)
	assert.Zero(t, cache.Calls)
	assert.Equal(t, "excelize", h.ActiveReader())
}

func TestHandleSwitch_RerunsWithNewReader(t *testing.T) {
	orch := pipeline.NewOrchestrator(nil)
	sessions := store.NewSessionStore(orch, time.Hour)
	sessions.SetDefaultDocument(&pipeline.Document{Name: "model.xlsx", Data: testutil.BowlWorkbook(t)})

	before := sessions.DefaultResult()
	require.True(t, before.HasFinancials())

	mux := http.NewServeMux()
	apiconfig.NewHandler(coreconfig.Defaults(), orch, sessions).Register(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/config/reader", strings.NewReader(`{"reader":"stream"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	after := sessions.DefaultResult()
	assert.NotSame(t, before, after)
	require.True(t, after.HasFinancials())
	assert.Equal(t, before.Digest, after.Digest)
	_, ok := after.Workbook.Sheet("Assumptions")
	assert.True(t, ok)
}
