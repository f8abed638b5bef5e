package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromRegistry(t *testing.T) {
	err := New(CodeRouteNotFound)
	require.NotNil(t, err)
	assert.Equal(t, CodeRouteNotFound, err.Code)
	assert.Equal(t, CategoryNavigation, err.Category)
	assert.Contains(t, err.Error(), "ROUTE_NOT_FOUND")
}

func TestNewUnknownCode(t *testing.T) {
	err := New("NOPE")
	assert.Equal(t, "NOPE", err.Code)
	assert.Equal(t, "unknown error", err.Message)
}

func TestWithSegment(t *testing.T) {
	err := New(CodeCannotActivate).WithSegment("admin.users")
	assert.Equal(t, "admin.users", err.Segment)
	assert.Contains(t, err.Error(), `"admin.users"`)
}

func TestWithRedirect(t *testing.T) {
	err := New(CodeCannotActivate).WithRedirect("login", map[string]string{"from": "admin"})

	redirect := RedirectOf(err)
	require.NotNil(t, redirect)
	assert.Equal(t, "login", redirect.Name)
	assert.Equal(t, "admin", redirect.Params["from"])

	assert.Nil(t, RedirectOf(stderrors.New("plain")))
}

func TestWrapAndUnwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := New(CodeTransitionErr).Wrap(cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, IsCode(err, CodeTransitionErr))
}

func TestIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeSameStates))
	assert.ErrorIs(t, err, New(CodeSameStates))
	assert.NotErrorIs(t, err, New(CodeRouteNotFound))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeNotStarted, CodeOf(New(CodeNotStarted)))
	assert.Equal(t, "", CodeOf(stderrors.New("plain")))
	assert.Equal(t, "", CodeOf(nil))
}

func TestFromError(t *testing.T) {
	cause := stderrors.New("boom")
	err := FromError(cause, CodeTransitionErr)
	require.NotNil(t, err)
	assert.Equal(t, CodeTransitionErr, err.Code)
	assert.ErrorIs(t, err, cause)

	// Structured errors pass through untouched.
	orig := New(CodeCannotDeactivate).WithSegment("a.b")
	assert.Same(t, orig, FromError(fmt.Errorf("wrap: %w", orig), CodeTransitionErr))

	assert.Nil(t, FromError(nil, CodeTransitionErr))
}
