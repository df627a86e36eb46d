package http

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

// multipartUpload builds a POST with content under field. Extra form values
// are written before the file.
func multipartUpload(t *testing.T, field, filename string, content []byte, values map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range values {
		require.NoError(t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/FreeArch/thumbnails", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestThumbnails_UploadAndGet(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.registerArchaeologist("mary@dig.org")

	req := multipartUpload(t, "file", "face.png", pngBytes, nil)
	req.Header.Set("x-access-token", token)
	w := api.serve(req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	filename := body["filename"].(string)
	assert.True(t, strings.HasSuffix(filename, ".png"))
	assert.NotContains(t, filename, "face")
	assert.Equal(t, float64(len(pngBytes)), body["size"])

	w = api.do(http.MethodGet, "/FreeArch/thumbnails/"+filename, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, pngBytes, w.Body.Bytes())
}

func TestThumbnails_TokenInFormField(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.registerArchaeologist("mary@dig.org")

	w := api.serve(multipartUpload(t, "file", "face.png", pngBytes, map[string]string{"token": token}))
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestThumbnails_UploadRejections(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.registerArchaeologist("mary@dig.org")

	tests := []struct {
		name    string
		field   string
		content []byte
		status  int
	}{
		{"not an image", "file", []byte("<html><script>alert(1)</script></html>"), http.StatusUnsupportedMediaType},
		{"wrong field", "upload", pngBytes, http.StatusBadRequest},
		{"empty file", "file", nil, http.StatusBadRequest},
		{"over the limit", "file", append(append([]byte{}, pngBytes...), make([]byte, 2048)...), http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := multipartUpload(t, tt.field, "x.png", tt.content, nil)
			req.Header.Set("x-access-token", token)
			w := api.serve(req)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, false, decode(t, w)["success"])
		})
	}
}

func TestThumbnails_UploadRequiresToken(t *testing.T) {
	api := newTestAPI(t)

	w := api.serve(multipartUpload(t, "file", "face.png", pngBytes, nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestThumbnails_GetUnknown(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.registerArchaeologist("mary@dig.org")

	w := api.do(http.MethodGet, "/FreeArch/thumbnails/0b7e8a1e-0000-4000-8000-000000000000.png", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Thumbnail not found", decode(t, w)["message"])
}
