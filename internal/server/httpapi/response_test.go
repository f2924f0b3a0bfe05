package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vyacheslafka/cloudstorage-server/internal/common"
)

func TestWriteServiceError_Mapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{common.ErrEmptyFile, http.StatusBadRequest},
		{common.ErrDuplicateName, http.StatusBadRequest},
		{common.ErrAlreadyExists, http.StatusBadRequest},
		{common.ErrUnauthorized, http.StatusUnauthorized},
		{common.ErrInvalidToken, http.StatusUnauthorized},
		{common.ErrSessionExpired, http.StatusUnauthorized},
		{common.ErrNotFound, http.StatusNotFound},
		{common.ErrCipher, http.StatusInternalServerError},
		{common.ErrInternal, http.StatusInternalServerError},
		// Wrapped errors must map the same as bare sentinels.
		{fmt.Errorf("checking existing file: %w", common.ErrDuplicateName), http.StatusBadRequest},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		writeServiceError(rec, tt.err)
		assert.Equal(t, tt.want, rec.Code, "error %v", tt.err)

		var envelope Envelope
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
		assert.False(t, envelope.Success)
		assert.NotEmpty(t, envelope.Message)
		// Internal error text never leaks to the client.
		assert.NotContains(t, envelope.Message, "checking existing file")
	}
}
