package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/zelora/backend/internal/logging"
)

type UploadHandler struct {
	UploadDir string
	BaseURL   string
}

// productDir reads the optional productId form value. Only a plain integer is
// accepted; anything else would let the value steer the write path.
func productDir(c echo.Context) (string, error) {
	productID := c.FormValue("productId")
	if productID == "" {
		return "", nil
	}
	if _, err := strconv.Atoi(productID); err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "productId must be an integer")
	}
	return productID, nil
}

// saveFile writes one multipart file under the upload dir, optionally inside
// a per-product subdirectory, and returns the public URL.
func (h *UploadHandler) saveFile(file *multipart.FileHeader, productID string) (string, error) {
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", echo.NewHTTPError(http.StatusBadRequest, "only image files are allowed")
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("cannot open upload: %w", err)
	}
	defer src.Close()

	ext := filepath.Ext(file.Filename)
	name := uuid.NewString() + ext

	dir := h.UploadDir
	urlPath := name
	if productID != "" {
		dir = filepath.Join(dir, productID)
		urlPath = productID + "/" + name
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create upload dir: %w", err)
	}

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("cannot create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("cannot write file: %w", err)
	}

	return h.BaseURL + "/" + urlPath, nil
}

func (h *UploadHandler) UploadImage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "upload.image")

	file, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}

	productID, err := productDir(c)
	if err != nil {
		return err
	}

	url, err := h.saveFile(file, productID)
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he
		}
		l.Error("upload_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot save file")
	}

	l.Info("upload_success", "url", url)
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success": true,
		"url":     url,
	})
}

func (h *UploadHandler) UploadImages(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "upload.images")

	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "multipart form is required")
	}
	files := form.File["files"]
	if len(files) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "files are required")
	}

	productID, err := productDir(c)
	if err != nil {
		return err
	}

	urls := make([]string, 0, len(files))
	for _, file := range files {
		url, err := h.saveFile(file, productID)
		if err != nil {
			var he *echo.HTTPError
			if errors.As(err, &he) {
				return he
			}
			l.Error("upload_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot save file")
		}
		urls = append(urls, url)
	}

	l.Info("upload_success", "count", len(urls))
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success": true,
		"urls":    urls,
	})
}

// DeleteImage removes a stored file by name. The name must not escape the
// upload directory.
func (h *UploadHandler) DeleteImage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "upload.delete")

	filename := c.Param("filename")
	if filename == "" || strings.Contains(filename, "..") || strings.ContainsAny(filename, "/\\") {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid filename")
	}

	path := filepath.Join(h.UploadDir, filename)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return echo.NewHTTPError(http.StatusNotFound, "file not found")
		}
		l.Error("delete_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete file")
	}

	l.Info("delete_success", "filename", filename)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Image deleted",
	})
}
