package bmp

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_AllPixelsBlack(t *testing.T) {
	img := New(3, 2)

	require.Equal(t, 3, img.Width())
	require.Equal(t, 2, img.Height())
	require.Equal(t, 3, img.padding)
	require.Len(t, img.data, 6)

	it := img.Coordinates()
	for {
		x, y, ok := it.Next()
		if !ok {
			break
		}
		require.Equal(t, Black, img.GetPixel(x, y))
	}
}

func TestSetPixel_DoesNotGrowData(t *testing.T) {
	img := New(2, 1)
	img.SetPixel(1, 0, White)
	img.SetPixel(0, 0, White)

	require.Len(t, img.data, 2)
	require.Equal(t, White, img.GetPixel(0, 0))
	require.Equal(t, White, img.GetPixel(1, 0))
}

func TestCoordinates_RowMajorOrder(t *testing.T) {
	it := New(2, 3).Coordinates()

	want := [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0, 2}, {1, 2}}
	for _, w := range want {
		x, y, ok := it.Next()
		require.True(t, ok)
		require.Equal(t, w[0], x)
		require.Equal(t, w[1], y)
	}

	_, _, ok := it.Next()
	require.False(t, ok)
}

func TestSaveOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rgbw.bmp")

	img := New(2, 2)
	img.SetPixel(0, 0, Red)
	img.SetPixel(1, 0, Lime)
	img.SetPixel(0, 1, Blue)
	img.SetPixel(1, 1, White)
	require.NoError(t, img.Save(path))

	loaded, err := Open(path)
	require.NoError(t, err)

	require.Equal(t, Red, loaded.GetPixel(0, 0))
	require.Equal(t, Lime, loaded.GetPixel(1, 0))
	require.Equal(t, Blue, loaded.GetPixel(0, 1))
	require.Equal(t, White, loaded.GetPixel(1, 1))
	require.Equal(t, uint32(70), loaded.header.FileSize)
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "no_img.bmp"))
	require.Error(t, err)
}

func TestPixelString(t *testing.T) {
	require.Equal(t, "rgb(255, 128, 0)", RGB(255, 128, 0).String())
}
