package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func newUploadHandler(t *testing.T) *UploadHandler {
	t.Helper()
	return &UploadHandler{
		UploadDir: t.TempDir(),
		BaseURL:   "http://localhost:8080/images/products",
	}
}

func multipartContext(t *testing.T, fields map[string]string, files map[string][]byte, contentType string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, w.WriteField(key, value))
	}
	for name, data := range files {
		header := make(map[string][]string)
		header["Content-Disposition"] = []string{`form-data; name="file"; filename="` + name + `"`}
		header["Content-Type"] = []string{contentType}
		part, err := w.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/upload/image", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	return rec, e.NewContext(req, rec)
}

func TestUploadImage(t *testing.T) {
	h := newUploadHandler(t)

	rec, c := multipartContext(t, nil, map[string][]byte{"photo.png": []byte("fake png bytes")}, "image/png")
	require.NoError(t, h.UploadImage(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Success bool   `json:"success"`
		URL     string `json:"url"`
	}
	decodeBody(t, rec, &resp)
	require.True(t, resp.Success)
	require.True(t, strings.HasPrefix(resp.URL, h.BaseURL+"/"))
	require.True(t, strings.HasSuffix(resp.URL, ".png"))

	entries, err := os.ReadDir(h.UploadDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	// stored under a generated name, not the client's
	require.NotEqual(t, "photo.png", entries[0].Name())
}

func TestUploadImageIntoProductDir(t *testing.T) {
	h := newUploadHandler(t)

	rec, c := multipartContext(t, map[string]string{"productId": "7"},
		map[string][]byte{"photo.jpg": []byte("jpeg")}, "image/jpeg")
	require.NoError(t, h.UploadImage(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	entries, err := os.ReadDir(filepath.Join(h.UploadDir, "7"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestUploadImageRejectsNonNumericProductID(t *testing.T) {
	h := newUploadHandler(t)

	for _, productID := range []string{"../outside", "7/../..", "abc"} {
		_, c := multipartContext(t, map[string]string{"productId": productID},
			map[string][]byte{"photo.png": []byte("png")}, "image/png")
		requireHTTPError(t, h.UploadImage(c), http.StatusBadRequest)
	}

	// nothing may be written next to the upload dir
	parent := filepath.Dir(h.UploadDir)
	entries, err := os.ReadDir(parent)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, filepath.Base(h.UploadDir), entries[0].Name())
}

func TestUploadImageRejectsNonImage(t *testing.T) {
	h := newUploadHandler(t)

	_, c := multipartContext(t, nil, map[string][]byte{"notes.txt": []byte("text")}, "text/plain")
	requireHTTPError(t, h.UploadImage(c), http.StatusBadRequest)
}

func TestDeleteImage(t *testing.T) {
	h := newUploadHandler(t)

	name := "stored.png"
	require.NoError(t, os.WriteFile(filepath.Join(h.UploadDir, name), []byte("png"), 0o644))

	rec, c := doJSONRequest(t, http.MethodDelete, "/upload/image/"+name, nil)
	c.SetParamNames("filename")
	c.SetParamValues(name)
	require.NoError(t, h.DeleteImage(c))
	require.Equal(t, http.StatusOK, rec.Code)

	_, err := os.Stat(filepath.Join(h.UploadDir, name))
	require.True(t, os.IsNotExist(err))

	_, c = doJSONRequest(t, http.MethodDelete, "/upload/image/"+name, nil)
	c.SetParamNames("filename")
	c.SetParamValues(name)
	requireHTTPError(t, h.DeleteImage(c), http.StatusNotFound)
}

func TestDeleteImageBlocksTraversal(t *testing.T) {
	h := newUploadHandler(t)

	for _, name := range []string{"../secret", "a/b.png", `a\b.png`, ""} {
		_, c := doJSONRequest(t, http.MethodDelete, "/upload/image/x", nil)
		c.SetParamNames("filename")
		c.SetParamValues(name)
		requireHTTPError(t, h.DeleteImage(c), http.StatusBadRequest)
	}
}
