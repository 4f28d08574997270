package receipt

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderProducesPDF(t *testing.T) {
	in := testInput(t, sampleTransaction())
	in.Logo = testImage(t, "logo", 40, 40)
	in.Stamp = testImage(t, "stamp", 120, 60)
	qr, err := NewQRCode(128).Encode("FT24065ABC")
	require.NoError(t, err)
	in.QR = qr

	doc := compose(t, testLayout(t, "letter"), in)

	var buf bytes.Buffer
	require.NoError(t, NewRenderer("receipt-service").Render(doc, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Contains(t, buf.String(), "%%EOF")
}

func TestRenderIsDeterministic(t *testing.T) {
	layout := testLayout(t, "a4")
	render := func() []byte {
		var buf bytes.Buffer
		require.NoError(t, NewRenderer("receipt-service").Render(compose(t, layout, testInput(t, sampleTransaction())), &buf))
		return buf.Bytes()
	}
	assert.Equal(t, render(), render())
}

func TestRenderNilDocument(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, NewRenderer("x").Render(nil, &buf))
}

func TestQRCodeEncode(t *testing.T) {
	img, err := NewQRCode(0).Encode("FT24065ABC")
	require.NoError(t, err)
	assert.Equal(t, "qr", img.Name)
	assert.Equal(t, 256, img.Width)
	assert.Equal(t, 256, img.Height)

	decoded, err := imaging.Decode(bytes.NewReader(img.Data))
	require.NoError(t, err)
	assert.Equal(t, 256, decoded.Bounds().Dx())
}

func TestLoadImage(t *testing.T) {
	dir := t.TempDir()

	img, err := LoadImage("logo", filepath.Join(dir, "missing.png"))
	require.NoError(t, err)
	assert.Nil(t, img)

	img, err = LoadImage("logo", "")
	require.NoError(t, err)
	assert.Nil(t, img)

	small := filepath.Join(dir, "small.png")
	require.NoError(t, imaging.Save(imaging.New(30, 20, color.White), small))
	img, err = LoadImage("logo", small)
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.Equal(t, 30, img.Width)
	assert.Equal(t, 20, img.Height)

	large := filepath.Join(dir, "large.jpg")
	require.NoError(t, imaging.Save(imaging.New(1200, 300, color.Black), large))
	img, err = LoadImage("stamp", large)
	require.NoError(t, err)
	assert.Equal(t, maxAssetSide, img.Width)
	assert.Equal(t, 150, img.Height)

	corrupt := filepath.Join(dir, "corrupt.png")
	require.NoError(t, os.WriteFile(corrupt, []byte("not an image"), 0o644))
	_, err = LoadImage("stamp", corrupt)
	assert.Error(t, err)
}

func TestEncodeImageKeepsSmallImages(t *testing.T) {
	img, err := EncodeImage("x", image.NewGray(image.Rect(0, 0, 8, 4)))
	require.NoError(t, err)
	assert.Equal(t, 8, img.Width)
	assert.Equal(t, 4, img.Height)
	assert.NotEmpty(t, img.Data)
}

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "public")
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	assert.DirExists(t, dir)
	assert.Equal(t, dir, store.Dir())

	name := FileName("TX1")
	assert.Equal(t, "receipt_TX1.pdf", name)

	ok, err := store.Exists(name)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Write(name, []byte("first")))
	require.NoError(t, store.Write(name, []byte("second")))
	ok, err = store.Exists(name)
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	_, err = NewFileStore(" ")
	assert.Error(t, err)
}

func TestValidID(t *testing.T) {
	assert.True(t, ValidID("FT24065ABC"))
	assert.True(t, ValidID("tx-1.2"))
	assert.False(t, ValidID(""))
	assert.False(t, ValidID(".."))
	assert.False(t, ValidID("../etc/passwd"))
	assert.False(t, ValidID(`a\b`))
}
