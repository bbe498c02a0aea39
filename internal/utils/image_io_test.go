package utils

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSupportedImage(t *testing.T) {
	assert.True(t, IsSupportedImage("photo.jpg"))
	assert.True(t, IsSupportedImage("PHOTO.JPEG"))
	assert.True(t, IsSupportedImage("scan.png"))
	assert.True(t, IsSupportedImage("old.bmp"))
	assert.False(t, IsSupportedImage("doc.pdf"))
	assert.False(t, IsSupportedImage("archive.tar.gz"))
	assert.False(t, IsSupportedImage("noext"))
}

func TestSaveAndLoadPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	img := grayImage(6, 4, 99)

	require.NoError(t, SavePNG(path, img))

	back, err := LoadImage(path)
	require.NoError(t, err)
	b := back.Bounds()
	assert.Equal(t, 6, b.Dx())
	assert.Equal(t, 4, b.Dy())

	r, g, bl, _ := back.At(3, 2).RGBA()
	assert.EqualValues(t, 99, r>>8)
	assert.EqualValues(t, 99, g>>8)
	assert.EqualValues(t, 99, bl>>8)
}

func TestLoadImage_Errors(t *testing.T) {
	_, err := LoadImage("")
	assert.Error(t, err)

	_, err = LoadImage("missing.tiff")
	assert.Error(t, err)

	_, err = LoadImage(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}
