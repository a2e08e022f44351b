package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCarriesCode(t *testing.T) {
	err := New(CodeDuplicateArea, "area taken")
	assert.True(t, HasCode(err, CodeDuplicateArea))
	assert.False(t, HasCode(err, CodeNotFound))
	assert.Equal(t, CodeDuplicateArea, CodeOf(err))
	assert.Contains(t, err.Error(), "area taken")
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeInternal, "read owner")

	require.Error(t, err)
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, CodeInternal, CodeOf(err))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestWrapNilIsNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, CodeInternal, "ignored"))
}

func TestCodeOfUntypedError(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
}

func TestHasCodeThroughWrapping(t *testing.T) {
	inner := New(CodeNotOwner, "caller does not own this token")
	outer := fmt.Errorf("transfer: %w", inner)
	assert.True(t, HasCode(outer, CodeNotOwner))
	assert.True(t, Is(outer, CodeNotOwner))
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		code Code
		want int
	}{
		{CodeUnauthorized, http.StatusForbidden},
		{CodeNotOwner, http.StatusForbidden},
		{CodeContractPaused, http.StatusServiceUnavailable},
		{CodeNotFound, http.StatusNotFound},
		{CodeDuplicateArea, http.StatusConflict},
		{CodeAlreadyRegistered, http.StatusConflict},
		{CodeInvalidAreaID, http.StatusUnprocessableEntity},
		{CodeInvalidMetadata, http.StatusUnprocessableEntity},
		{CodeInvalidRecipient, http.StatusUnprocessableEntity},
		{CodeInvalidMinter, http.StatusUnprocessableEntity},
		{CodeInvalidGPS, http.StatusUnprocessableEntity},
		{CodeInvalidGoals, http.StatusUnprocessableEntity},
		{CodeInvalidRoyalty, http.StatusUnprocessableEntity},
		{CodeInvalidStatus, http.StatusUnprocessableEntity},
		{CodeBadRequest, http.StatusUnprocessableEntity},
		{CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.code), "code %s", tc.code)
	}
}
