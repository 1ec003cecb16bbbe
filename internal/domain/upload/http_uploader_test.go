package upload

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
)

func newHTTPUploader(t *testing.T, url string) *HTTPUploader {
	t.Helper()
	cfg := &config.Config{}
	cfg.Gateway.UploadURL = url
	cfg.Gateway.UploadTimeout = 5 * time.Second
	uploader := NewHTTPUploader(cfg)
	require.NotNil(t, uploader)
	return uploader
}

func TestNewHTTPUploader_NilWithoutEndpoint(t *testing.T) {
	cfg := &config.Config{}
	assert.Nil(t, NewHTTPUploader(cfg))
}

func TestHTTPUpload_PostsMultipartAndReturnsURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		assert.Equal(t, "proof.jpg", header.Filename)
		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "proof bytes", string(content))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"url":"https://cdn.example.com/abc.jpg"}`))
	}))
	defer server.Close()

	var reported []int
	ref, err := newHTTPUploader(t, server.URL).Upload(
		context.Background(),
		"proof.jpg",
		11,
		bytes.NewReader([]byte("proof bytes")),
		func(pct int) { reported = append(reported, pct) },
	)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/abc.jpg", ref)

	// 100 is reported once the server accepts the file
	require.NotEmpty(t, reported)
	assert.Equal(t, 100, reported[len(reported)-1])
	for _, pct := range reported[:len(reported)-1] {
		assert.Less(t, pct, 100)
	}
}

func TestHTTPUpload_ServerRejectionSurfacesMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"file corrupted"}`))
	}))
	defer server.Close()

	_, err := newHTTPUploader(t, server.URL).Upload(
		context.Background(), "proof.jpg", 11, bytes.NewReader([]byte("proof bytes")), func(int) {},
	)
	require.ErrorContains(t, err, "file corrupted")
}

func TestHTTPUpload_MissingURLInResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	_, err := newHTTPUploader(t, server.URL).Upload(
		context.Background(), "proof.jpg", 11, bytes.NewReader([]byte("proof bytes")), func(int) {},
	)
	require.ErrorContains(t, err, "missing url")
}
