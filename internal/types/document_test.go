package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRawDocument_BaseMediaType(t *testing.T) {
	d := RawDocument{MediaType: " Text/Plain; charset=utf-8"}
	assert.Equal(t, MediaTypeText, d.BaseMediaType())

	d = RawDocument{MediaType: MediaTypePDF}
	assert.Equal(t, MediaTypePDF, d.BaseMediaType())
}

func TestRawDocument_Size(t *testing.T) {
	assert.Equal(t, int64(3), RawDocument{Data: []byte("abc")}.Size())
	assert.Equal(t, int64(0), RawDocument{}.Size())
}

func TestIsSupportedMediaType(t *testing.T) {
	for _, mt := range SupportedMediaTypes {
		assert.True(t, IsSupportedMediaType(mt), mt)
	}
	assert.False(t, IsSupportedMediaType("image/png"))
	assert.False(t, IsSupportedMediaType(""))
}
