package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_PutDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, "/uploads/")
	require.NoError(t, err)

	obj, err := s.Put(context.Background(), "catalogo/abc.png", strings.NewReader("png"), 3, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/catalogo/abc.png", obj.URL)

	data, err := os.ReadFile(filepath.Join(dir, "catalogo", "abc.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	require.NoError(t, s.Delete(context.Background(), obj.PublicID, "image/png"))
	require.NoError(t, s.Delete(context.Background(), obj.PublicID, "image/png"), "borrar dos veces no falla")
}

func TestLocalStorage_NoEscapaDelDirectorio(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(filepath.Join(dir, "media"), "/uploads")
	require.NoError(t, err)

	_, err = s.Put(context.Background(), "../../fuera.txt", strings.NewReader("x"), 1, "text/plain")
	require.NoError(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "media", "fuera.txt"))
	assert.NoError(t, statErr)
}

func TestResourceType(t *testing.T) {
	assert.Equal(t, "image", resourceType("image/jpeg"))
	assert.Equal(t, "video", resourceType("video/mp4"))
	assert.Equal(t, "raw", resourceType("application/pdf"))
}
