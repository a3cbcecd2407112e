package api

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ignite/survey-tracker/internal/pkg/httputil"
	"github.com/ignite/survey-tracker/internal/surveyimport"
)

// ImportRespondents loads a survey CSV export. The body is either a
// multipart upload (field "file") or JSON naming an S3 object.
//
//	POST /api/import                      multipart/form-data; file=<csv>
//	POST /api/import {"source": "s3://bucket/key.csv"}
func (h *Handlers) ImportRespondents(w http.ResponseWriter, r *http.Request) {
	if h.importer == nil {
		httputil.Error(w, http.StatusServiceUnavailable, "import is not configured")
		return
	}

	var (
		body   io.ReadCloser
		source string
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
		file, header, err := r.FormFile("file")
		if err != nil {
			httputil.BadRequest(w, fmt.Sprintf("file upload required (max %d MB)", h.maxUploadBytes>>20))
			return
		}
		body, source = file, header.Filename
	} else {
		var req struct {
			Source string `json:"source"`
		}
		if !httputil.Decode(w, r, &req) {
			return
		}
		if h.opener == nil {
			httputil.Error(w, http.StatusServiceUnavailable, "S3 import is not configured")
			return
		}
		if _, _, ok := surveyimport.ParseS3URI(req.Source); !ok {
			httputil.BadRequest(w, "source must be an s3://bucket/key URI")
			return
		}
		rc, err := h.opener.Open(r.Context(), req.Source)
		if err != nil {
			respondServiceError(w, err, "failed to open import source")
			return
		}
		body, source = rc, req.Source
	}
	defer body.Close()

	res, err := h.importer.Import(r.Context(), body, source)
	if err != nil {
		respondServiceError(w, err, "import failed")
		return
	}
	httputil.OK(w, res)
}
