package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/duckrace/internal/model"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{model.ErrRoomNotFound, CodeRoomNotFound},
		{model.ErrAlreadyStarted, CodeAlreadyStarted},
		{model.ErrRoomFull, CodeRoomFull},
		{model.ErrDuplicateName, CodeDuplicateName},
		{model.ErrNotHost, CodeNotHost},
		{model.ErrInsufficientPlayers, CodeInsufficientPlayers},
		{model.ErrAlreadyInRoom, CodeAlreadyInRoom},
		{fmt.Errorf("%w: bad payload", model.ErrInvalidRequest), CodeInvalidRequest},
		{errors.New("boom"), CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got := FromError(tt.err)
			assert.Equal(t, tt.code, got.Code)
			assert.NotEmpty(t, got.Message)
		})
	}
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()

	WriteError(w, model.ErrRoomNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, CodeRoomNotFound, resp.Error.Code)
}

func TestWriteErrorKeepsExplicitErrors(t *testing.T) {
	w := httptest.NewRecorder()

	WriteError(w, NewInvalidRequestError("bad thing"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "bad thing", resp.Error.Message)
}
