package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"tedp_backend/internal/runner"
	"tedp_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runFlowError(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	flowError(ctx, err)
	return w
}

func TestFlowErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"session expired", util.ErrSessionNotFound, http.StatusNotFound},
		{"malformed pin", util.ErrInvalidPinFormat, http.StatusBadRequest},
		{"unknown pin", util.ErrPinUnknown, http.StatusNotFound},
		{"used pin", util.ErrPinAlreadyUsed, http.StatusConflict},
		{"passation closed", util.ErrPassationNotActive, http.StatusConflict},
		{"not last page", runner.ErrNotLastPage, http.StatusBadRequest},
		{"transient submit failure", &runner.SubmitError{Err: errors.New("connection reset")}, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := runFlowError(tt.err)
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

// A PIN consumed by a concurrent submit comes back wrapped in SubmitError;
// it must still map to the terminal 409, not the retryable 502.
func TestFlowErrorUsedPinInsideSubmitError(t *testing.T) {
	w := runFlowError(&runner.SubmitError{Err: util.ErrPinAlreadyUsed})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestFlowErrorValidationCarriesQuestionIDs(t *testing.T) {
	w := runFlowError(&runner.ValidationError{QuestionIDs: []uint{3, 5}})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Data struct {
			QuestionIDs []uint `json:"questionIds"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []uint{3, 5}, resp.Data.QuestionIDs)
}
