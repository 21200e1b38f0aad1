package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashToken(t *testing.T) {
	h := HashToken("secret")
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashToken("secret"))
	assert.True(t, TokenMatches("secret", h))
	assert.False(t, TokenMatches("Secret", h))
	assert.False(t, TokenMatches("", h))
}
