package docbind_test

import (
	"errors"
	"testing"

	"github.com/fwojciec/docbind"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := docbind.Errorf(docbind.ENOTFOUND, "chapter %d not found", 42)

	assert.Equal(t, docbind.ENOTFOUND, docbind.ErrorCode(err))
	assert.Equal(t, "chapter 42 not found", docbind.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, docbind.ErrorCode(nil))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, docbind.EINTERNAL, docbind.ErrorCode(errors.New("boom")))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, docbind.ErrorMessage(nil))
}

func TestWarnf(t *testing.T) {
	t.Parallel()

	w := docbind.Warnf(docbind.ECONFLICT, "docs/a.md", "chapter %d taken", 7)

	assert.Equal(t, docbind.ECONFLICT, w.Code)
	assert.Equal(t, "docs/a.md", w.Path)
	assert.Equal(t, "chapter 7 taken", w.Message)
	assert.Equal(t, "[conflict] docs/a.md: chapter 7 taken", w.String())
}
