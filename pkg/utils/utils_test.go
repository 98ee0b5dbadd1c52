package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomString(t *testing.T) {
	s := RandomString(16)
	assert.Len(t, s, 16)
	assert.NotEqual(t, s, RandomString(16))
	assert.Empty(t, RandomString(0))
}
