package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terra/loader"
)

func TestShrinkKeepsAspect(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 200))
	out := shrink(src, 100)
	assert.Equal(t, image.Rect(0, 0, 100, 50), out.Bounds())

	small := image.NewRGBA(image.Rect(0, 0, 80, 40))
	assert.Same(t, small, shrink(small, 100))
}

func TestShrinkFileWritesDecodableImage(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "hq", "earth", "glow.png")
	require.NoError(t, os.MkdirAll(filepath.Dir(in), 0o755))

	src := image.NewRGBA(image.Rect(0, 0, 64, 32))
	for i := range src.Pix {
		src.Pix[i] = 0xff
	}
	src.SetRGBA(0, 0, color.RGBA{R: 1, A: 255})
	f, err := os.Create(in)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, src))
	require.NoError(t, f.Close())

	out := filepath.Join(dir, "lq", "earth", "glow.png")
	require.NoError(t, shrinkFile(in, out, 16, 80))

	r, err := os.Open(out)
	require.NoError(t, err)
	defer r.Close()
	img, err := loader.DecodeImage(r)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, 8, img.Bounds().Dy())
}

func TestShrinkFileRejectsUnknownExtension(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "a.png")
	f, err := os.Create(in)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	require.NoError(t, f.Close())

	assert.Error(t, shrinkFile(in, filepath.Join(dir, "a.bmp"), 16, 80))
}
