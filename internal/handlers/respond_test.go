package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/Zh4nibek/LinguaLink/pkg/apperr"
	"github.com/Zh4nibek/LinguaLink/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.InitLogger()
	os.Exit(m.Run())
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{apperr.New(apperr.KindValidation, "bad"), http.StatusBadRequest},
		{apperr.New(apperr.KindConflict, "dup"), http.StatusBadRequest},
		{apperr.New(apperr.KindUnauthorized, "who"), http.StatusUnauthorized},
		{apperr.New(apperr.KindForbidden, "no"), http.StatusForbidden},
		{apperr.New(apperr.KindNotFound, "gone"), http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, statusFor(tc.err))
	}
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body["message"]
}

func TestWriteErrorClassified(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, apperr.New(apperr.KindForbidden, "only the admin can delete the group"), true)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "only the admin can delete the group", decodeMessage(t, rec))
}

func TestWriteErrorInternalSuppressedInProduction(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New("mongo: connection refused"), true)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", decodeMessage(t, rec))
}

func TestWriteErrorInternalExposedInDevelopment(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New("mongo: connection refused"), false)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decodeMessage(t, rec), "connection refused")
}
