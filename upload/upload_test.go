package upload

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaselBoulos/la-maison-privee/apperrors"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type fakeUploader struct {
	got []byte
}

func (f *fakeUploader) Upload(_ context.Context, file io.Reader, filename string) (Result, error) {
	f.got, _ = io.ReadAll(file)
	return Result{URL: "https://cdn.example.com/" + filename, PublicID: "p1", Filename: filename}, nil
}

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	return form.File["image"][0]
}

func TestStoreAcceptsImages(t *testing.T) {
	u := &fakeUploader{}
	res, err := Store(context.Background(), u, fileHeader(t, "a.png", pngHeader))
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/a.png", res.URL)
	assert.Equal(t, int64(len(pngHeader)), res.Size)
	assert.Equal(t, pngHeader, u.got)
}

func TestCheckRejectsOtherTypes(t *testing.T) {
	err := Check(fileHeader(t, "notes.png", []byte("just some text pretending to be a picture")))
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))
}

func TestCheckRejectsLargeFiles(t *testing.T) {
	fh := fileHeader(t, "a.png", pngHeader)
	fh.Size = MaxFileSize + 1
	err := Check(fh)
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))
}
