package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// These cover the request-validation branches that return before touching
// the orchestrator or the store, since the rest of each handler requires a
// live Postgres connection this package has no way to fake.

func TestHandleRetriggerRejectsMissingFields(t *testing.T) {
	h := &Handlers{}
	body, _ := json.Marshal(retriggerRequest{DebateID: "", FromStage: ""})
	req := httptest.NewRequest(http.MethodPost, "/api/retrigger", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.HandleRetrigger(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleRetriggerRejectsMalformedBody(t *testing.T) {
	h := &Handlers{}
	req := httptest.NewRequest(http.MethodPost, "/api/retrigger", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()

	h.HandleRetrigger(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleTestDebateRejectsMissingVideoURL(t *testing.T) {
	h := &Handlers{}
	body, _ := json.Marshal(testDebateRequest{Title: "no url"})
	req := httptest.NewRequest(http.MethodPost, "/api/test-debate", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.HandleTestDebate(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleTestHansardRejectsBadDate(t *testing.T) {
	h := &Handlers{}
	body, _ := json.Marshal(testHansardRequest{SittingDate: "not-a-date"})
	req := httptest.NewRequest(http.MethodPost, "/api/test-hansard", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.HandleTestHansard(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWriteJSONSetsContentTypeAndStatus(t *testing.T) {
	rec := httptest.NewRecorder()

	writeJSON(rec, http.StatusCreated, map[string]string{"ok": "yes"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"ok":"yes"}`, rec.Body.String())
}
