// Package upload validates images and stores them with Cloudinary.
package upload

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"

	"github.com/BaselBoulos/la-maison-privee/apperrors"
)

// Limits of a single upload request
const (
	MaxFileSize = 5 << 20
	MaxFiles    = 10
)

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Result describes a stored image
type Result struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// Uploader stores image bytes and returns where they can be fetched
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, filename string) (Result, error)
}

// Cloudinary stores images in a Cloudinary folder
type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinary builds an uploader from a cloudinary:// URL
func NewCloudinary(url, folder string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to configure cloudinary: %w", err)
	}
	return &Cloudinary{cld: cld, folder: folder}, nil
}

// Upload sends file to Cloudinary under a random public id
func (c *Cloudinary) Upload(ctx context.Context, file io.Reader, filename string) (Result, error) {
	resp, err := c.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID: uuid.New().String(),
		Folder:   c.folder,
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to upload %s: %w", filename, err)
	}
	if resp.Error.Message != "" {
		return Result{}, fmt.Errorf("failed to upload %s: %s", filename, resp.Error.Message)
	}
	return Result{URL: resp.SecureURL, PublicID: resp.PublicID, Filename: filename, Size: int64(resp.Bytes)}, nil
}

// Check rejects files that are too large or not one of the accepted image
// types. The type is sniffed from the content, not taken from the client.
func Check(fh *multipart.FileHeader) error {
	if fh.Size > MaxFileSize {
		return apperrors.InvalidInput("file %s is larger than 5MB", fh.Filename)
	}
	f, err := fh.Open()
	if err != nil {
		return apperrors.Wrap(apperrors.KindInvalidInput, err, "failed to read upload")
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return apperrors.Wrap(apperrors.KindInvalidInput, err, "failed to read upload")
	}
	if ct := http.DetectContentType(head[:n]); !allowedTypes[ct] {
		return apperrors.InvalidInput("only JPEG, PNG, GIF and WebP images are allowed, got %s", ct)
	}
	return nil
}

// Store checks fh and hands it to u
func Store(ctx context.Context, u Uploader, fh *multipart.FileHeader) (Result, error) {
	if err := Check(fh); err != nil {
		return Result{}, err
	}
	f, err := fh.Open()
	if err != nil {
		return Result{}, err
	}
	defer f.Close()

	res, err := u.Upload(ctx, f, fh.Filename)
	if err != nil {
		return Result{}, err
	}
	if res.Size == 0 {
		res.Size = fh.Size
	}
	return res, nil
}
