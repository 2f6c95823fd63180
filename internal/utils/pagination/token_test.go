package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeSequenceToken(t *testing.T) {
	for _, seq := range []int64{0, 1, 42, 1 << 40} {
		token := EncodeSequenceToken(seq)
		assert.NotEmpty(t, token, "Token should not be empty")

		decoded, err := DecodeSequenceToken(token)
		require.NoError(t, err)
		assert.Equal(t, seq, decoded)
	}
}

func TestDecodeSequenceTokenError(t *testing.T) {
	_, err := DecodeSequenceToken("this is not base64!")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	_, err = DecodeSequenceToken(EncodeKeyToken("OIL-FILTER-01"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	_, err = DecodeSequenceToken(EncodeMultiFieldToken("seq", "abc"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sequence parse")
}

func TestEncodeDecodeKeyToken(t *testing.T) {
	for _, key := range []string{"OIL-FILTER-01", "A|B", ""} {
		decoded, err := DecodeKeyToken(EncodeKeyToken(key))
		require.NoError(t, err)
		assert.Equal(t, key, decoded)
	}

	_, err := DecodeKeyToken(EncodeSequenceToken(3))
	assert.Error(t, err)
}

func TestEncodeDecodeMultiFieldToken(t *testing.T) {
	token := EncodeMultiFieldToken("a", "b", "c")
	parts, err := DecodeMultiFieldToken(token)
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, parts)
}
