package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Format(t *testing.T) {
	err := New(ErrCodeRoleUnknown, "role 'engineer' not found", nil)
	assert.Equal(t, "[ERR_201_ROLE_UNKNOWN] role 'engineer' not found", err.Error())
	assert.Equal(t, CategoryQuery, err.Category)
}

func TestError_CategoryFromCode(t *testing.T) {
	assert.Equal(t, CategoryBuild, New(ErrCodeThesaurusBuild, "x", nil).Category)
	assert.Equal(t, CategoryQuery, New(ErrCodeQueryInvalid, "x", nil).Category)
	assert.Equal(t, CategorySource, New(ErrCodeConfigInvalid, "x", nil).Category)
	assert.Equal(t, CategoryInternal, New("bogus", "x", nil).Category)
}

func TestError_Unwrap(t *testing.T) {
	cause := stderrors.New("disk on fire")
	err := Wrap(ErrCodeSourceUnavailable, cause)
	require.NotNil(t, err)
	assert.ErrorIs(t, err, cause)
}

func TestError_Is_MatchesByCode(t *testing.T) {
	err := fmt.Errorf("search failed: %w", QueryError(ErrCodeRoleUnknown, "no such role"))
	assert.True(t, stderrors.Is(err, New(ErrCodeRoleUnknown, "", nil)))
	assert.False(t, stderrors.Is(err, New(ErrCodeQueryInvalid, "", nil)))
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(ErrCodeSourceUnavailable, nil))
}

func TestIsCategory(t *testing.T) {
	err := fmt.Errorf("activating role: %w",
		BuildError(ErrCodeAutomataCompile, "compile failed", nil))
	assert.True(t, IsCategory(err, CategoryBuild))
	assert.False(t, IsCategory(err, CategoryQuery))
	assert.False(t, IsCategory(stderrors.New("plain"), CategoryBuild))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrCodeSourceUnavailable, "fetch failed", nil).
		WithDetail("url", "https://example.com/thesaurus.json")
	assert.Equal(t, "https://example.com/thesaurus.json", err.Details["url"])
}
