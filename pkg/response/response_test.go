package response_test

import (
	"errors"
	"fmt"
	"testing"

	"ArdenGolang/pkg/response"

	"github.com/stretchr/testify/assert"
)

func TestError_Is(t *testing.T) {
	errNotFound := response.NewError(404, "not found")

	assert.True(t, errors.Is(fmt.Errorf("lookup: %w", errNotFound), errNotFound))
	assert.True(t, errors.Is(errNotFound, response.NewError(404, "not found")))
	assert.False(t, errors.Is(errNotFound, response.NewError(409, "not found")))
}

func TestError_Unwrap(t *testing.T) {
	err := response.NewError(429, "rate limit exceeded")

	var respErr *response.Error
	assert.True(t, errors.As(err, &respErr))
	assert.Equal(t, 429, respErr.Code)
	assert.EqualError(t, errors.Unwrap(err), "rate limit exceeded")
}
