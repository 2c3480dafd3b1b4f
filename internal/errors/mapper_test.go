package errors_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	svcErr "github.com/oggyb/filmorate/internal/errors"
)

func TestKindsSurviveWrapping(t *testing.T) {
	err := fmt.Errorf("add film: %w", svcErr.NotFound("genre with id = %d not found", 9))

	assert.True(t, svcErr.IsNotFound(err))
	assert.False(t, svcErr.IsValidation(err))
	assert.Equal(t, "add film: genre with id = 9 not found", err.Error())
}

func TestMapToGRPCStatus(t *testing.T) {
	cases := []struct {
		err  error
		code codes.Code
	}{
		{svcErr.NotFound("film with id = 1 not found"), codes.NotFound},
		{svcErr.Validation("count must be positive"), codes.InvalidArgument},
		{context.DeadlineExceeded, codes.DeadlineExceeded},
		{context.Canceled, codes.Canceled},
		{errors.New("disk on fire"), codes.Internal},
	}
	for _, tc := range cases {
		st, ok := status.FromError(svcErr.Map(tc.err))
		assert.True(t, ok)
		assert.Equal(t, tc.code, st.Code(), tc.err.Error())
	}
	assert.NoError(t, svcErr.Map(nil))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, svcErr.HTTPStatus(svcErr.NotFound("x")))
	assert.Equal(t, http.StatusBadRequest, svcErr.HTTPStatus(svcErr.Validation("x")))
	assert.Equal(t, http.StatusInternalServerError, svcErr.HTTPStatus(errors.New("boom")))
	assert.Equal(t, http.StatusOK, svcErr.HTTPStatus(nil))
}
