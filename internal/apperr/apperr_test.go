package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err    *Error
		status int
	}{
		{Validationf("bad"), http.StatusBadRequest},
		{Authf("nope"), http.StatusUnauthorized},
		{Forbiddenf("denied"), http.StatusForbidden},
		{NotFoundf("gone"), http.StatusNotFound},
		{Databasef("boom"), http.StatusInternalServerError},
		{Internalf("bug"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.err.Status(), tc.err.Error())
	}
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusOf(NotFoundf("gone")))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("untyped")))

	wrapped := fmt.Errorf("outer: %w", Forbiddenf("denied"))
	assert.Equal(t, http.StatusForbidden, StatusOf(wrapped))
}

func TestIsKindThroughWrap(t *testing.T) {
	cause := errors.New("row scan failed")
	err := Databasef("query failed").Wrap(cause)

	assert.True(t, IsKind(err, KindDatabase))
	assert.False(t, IsKind(err, KindNotFound))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "query failed", err.Error())
}
