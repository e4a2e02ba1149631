package cfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseByteSizePlain(t *testing.T) {
	n, err := parseByteSize("4096")
	require.NoError(t, err)
	assert.EqualValues(t, 4096, n)
}

func TestParseByteSizeKi(t *testing.T) {
	n, err := parseByteSize("4Ki")
	require.NoError(t, err)
	assert.EqualValues(t, 4096, n)
}

func TestParseByteSizeMi(t *testing.T) {
	n, err := parseByteSize("1Mi")
	require.NoError(t, err)
	assert.EqualValues(t, 1024*1024, n)
}

func TestParseByteSizeInvalid(t *testing.T) {
	_, err := parseByteSize("not-a-size")
	assert.Error(t, err)
}
