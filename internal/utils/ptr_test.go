package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringOrNil(t *testing.T) {
	assert.Nil(t, StringOrNil(""))
	assert.Nil(t, StringOrNil(" \t\n"))
	if got := StringOrNil("  ann, Ann "); assert.NotNil(t, got) {
		assert.Equal(t, "ann, Ann", *got)
	}
}

func TestOrZero(t *testing.T) {
	assert.Equal(t, "", OrZero[string](nil))
	assert.Equal(t, 3, OrZero(Ptr(3)))
}
