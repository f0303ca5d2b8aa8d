package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/BaselBoulos/la-maison-privee/apperrors"
	"github.com/BaselBoulos/la-maison-privee/upload"
)

// Upload exported for testing purposes
type Upload struct {
	Uploader upload.Uploader
}

type uploadsResponse struct {
	Success bool            `json:"success"`
	Files   []upload.Result `json:"files"`
}

// UploadImageHandler stores the multipart "image" file
func (u Upload) UploadImageHandler(w http.ResponseWriter, r *http.Request) {
	if !u.parse(w, r) {
		return
	}
	_, fh, err := r.FormFile("image")
	if err != nil {
		writeError(w, apperrors.InvalidInput("no file uploaded"))
		return
	}
	res, err := upload.Store(r.Context(), u.Uploader, fh)
	if err != nil {
		writeError(w, err)
		return
	}
	zap.S().Infow("image uploaded", "publicId", res.PublicID, "size", res.Size)
	writeJSON(w, http.StatusOK, res)
}

// UploadImagesHandler stores up to ten multipart "images" files
func (u Upload) UploadImagesHandler(w http.ResponseWriter, r *http.Request) {
	if !u.parse(w, r) {
		return
	}
	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		writeError(w, apperrors.InvalidInput("no files uploaded"))
		return
	}
	if len(files) > upload.MaxFiles {
		writeError(w, apperrors.InvalidInput("at most %d files can be uploaded at once", upload.MaxFiles))
		return
	}
	for _, fh := range files {
		if err := upload.Check(fh); err != nil {
			writeError(w, err)
			return
		}
	}

	out := make([]upload.Result, 0, len(files))
	for _, fh := range files {
		res, err := upload.Store(r.Context(), u.Uploader, fh)
		if err != nil {
			writeError(w, err)
			return
		}
		out = append(out, res)
	}
	writeJSON(w, http.StatusOK, uploadsResponse{Success: true, Files: out})
}

func (u Upload) parse(w http.ResponseWriter, r *http.Request) bool {
	if u.Uploader == nil {
		writeError(w, apperrors.Wrap(apperrors.KindInternal, nil, "image uploads are not configured"))
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, upload.MaxFiles*upload.MaxFileSize+1<<20)
	if err := r.ParseMultipartForm(upload.MaxFileSize); err != nil {
		writeError(w, apperrors.Wrap(apperrors.KindInvalidInput, err, "invalid multipart form"))
		return false
	}
	return true
}
