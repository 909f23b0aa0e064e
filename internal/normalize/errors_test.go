package normalize

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	err := NewMissingInfoError("Could not determine program name")
	assert.Equal(t, "MISSING_INFO: Could not determine program name", err.Error())
	assert.True(t, IsMissingInfo(err))

	wrapped := fmt.Errorf("normalize lib.rs: %w", err)
	assert.True(t, IsMissingInfo(wrapped))
	assert.False(t, IsKind(wrapped, KindValidation))
	assert.False(t, IsMissingInfo(fmt.Errorf("plain")))
}
