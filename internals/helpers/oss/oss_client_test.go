package oss

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractKeyFromPublicURL(t *testing.T) {
	key, err := ExtractKeyFromPublicURL("https://bucket.oss-ap-southeast-1.aliyuncs.com/materials/abc.pdf")
	require.NoError(t, err)
	assert.Equal(t, "materials/abc.pdf", key)
}

func TestExtractKeyFromPublicURLNoScheme(t *testing.T) {
	key, err := ExtractKeyFromPublicURL("bucket.example.com/materials/abc.pdf")
	require.NoError(t, err)
	assert.Equal(t, "materials/abc.pdf", key)
}

func TestExtractKeyFromPublicURLRejectsBadInput(t *testing.T) {
	_, err := ExtractKeyFromPublicURL("")
	assert.Error(t, err)

	_, err = ExtractKeyFromPublicURL("https://host-without-path")
	assert.Error(t, err)
}

func TestBuildObjectKeyKeepsExtensionAndPrefix(t *testing.T) {
	s := &Service{Prefix: "materials"}

	key := s.BuildObjectKey("Lecture Notes.PDF")
	assert.True(t, strings.HasPrefix(key, "materials/"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))

	other := s.BuildObjectKey("Lecture Notes.PDF")
	assert.NotEqual(t, key, other, "keys must not collide across uploads")
}

func TestBuildObjectKeyNoPrefix(t *testing.T) {
	s := &Service{}
	key := s.BuildObjectKey("a.txt")
	assert.False(t, strings.Contains(key, "/"))
}
