package main

import (
	"net/http"
	"strings"
)

// POST /api/admin/upload
// Image fields in the admin UI take either an external URL or a file. Both
// arrive here and resolve to a single stored URL: a multipart "file" part is
// pushed to object storage, a "url" form value is passed through as-is.
func (a *api) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeError(w, 400, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		if u := strings.TrimSpace(r.FormValue("url")); u != "" {
			writeJSON(w, 200, map[string]any{"url": u})
			return
		}
		writeError(w, 400, "no file provided")
		return
	}
	defer file.Close()

	url, err := a.uploader.Upload(r.Context(), storageKey(header.Filename), header.Header.Get("Content-Type"), file)
	if err != nil {
		a.log.Error("upload", "err", err)
		writeError(w, 500, "failed to upload file")
		return
	}
	writeJSON(w, 200, map[string]any{"url": url})
}
