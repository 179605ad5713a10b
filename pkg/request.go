package pkg

import (
	"errors"
	"mime"
	"net/http"
)

// maxFormMemory is kept in memory by ParseFormBody, larger multipart parts spill to disk.
const maxFormMemory = 1 << 20

// IsJSONRequest reports whether the request body is declared as JSON.
// Media type matching is case-insensitive and ignores parameters like charset.
func IsJSONRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/json"
}

// ParseFormBody parses urlencoded and multipart bodies, values are then
// available through r.PostFormValue / r.FormValue.
func ParseFormBody(r *http.Request) error {
	err := r.ParseMultipartForm(maxFormMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}
