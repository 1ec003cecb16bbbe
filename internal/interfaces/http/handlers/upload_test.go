package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/upload"
	storage "github.com/your-org/storefront-backend/internal/infrastructure/database/redis"
)

func newUploadRouter(t *testing.T) (*gin.Engine, *checkoutFixture) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	cfg := testConfig()
	cfg.Upload.MaxSize = 10 << 20
	cfg.Upload.AllowedTypes = []string{"image/*", "application/pdf"}
	cfg.Upload.LocalPath = t.TempDir()

	logger := logrus.New()
	carts := cart.NewManager(storage.NewCartRepository(client, cfg.Session.TTL), logger)
	gateway := &stubGateway{}
	signal := &stubSignal{active: true}
	checkouts := checkout.NewManager(carts, storage.NewCheckoutRepository(client, cfg.Session.CheckoutTTL), gateway, signal, logger)
	uploads := upload.NewService(cfg, nil, logger)

	cartHandler := NewCartHandler(carts, cfg)
	checkoutHandler := NewCheckoutHandler(checkouts, cfg)
	uploadHandler := NewUploadHandler(uploads, checkouts, cfg)

	router := gin.New()
	router.POST("/cart/items", cartHandler.AddItem)
	router.POST("/checkout", checkoutHandler.Begin)
	router.POST("/checkout/shipping", checkoutHandler.SubmitShipping)
	router.GET("/checkout", checkoutHandler.Get)
	router.POST("/checkout/proof", uploadHandler.UploadProof)
	router.DELETE("/checkout/proof", uploadHandler.RemoveProof)
	return router, &checkoutFixture{router: router, gateway: gateway, signal: signal}
}

func doMultipart(t *testing.T, router *gin.Engine, filename, contentType, content string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/checkout/proof", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "test-session"})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUploadProof_OutsidePaymentStepConflicts(t *testing.T) {
	router, _ := newUploadRouter(t)

	w := doMultipart(t, router, "proof.jpg", "image/jpeg", "proof bytes")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUploadProof_LocalFallbackAttachesRef(t *testing.T) {
	router, f := newUploadRouter(t)
	f.toPaymentStep(t)

	w := doMultipart(t, router, "proof.jpg", "image/jpeg", "proof bytes")
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, w)
	ref := data["proof_ref"].(string)
	assert.Contains(t, ref, "local://")
	assert.Equal(t, true, data["local"])

	// The session carries the reference
	w = doJSON(t, router, http.MethodGet, "/checkout", nil)
	assert.Equal(t, ref, decodeData(t, w)["proof_ref"])
}

func TestUploadProof_UnsupportedTypeRejected(t *testing.T) {
	router, f := newUploadRouter(t)
	f.toPaymentStep(t)

	w := doMultipart(t, router, "proof.exe", "application/octet-stream", "binary")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unsupported_type")
}

func TestRemoveProof_ClearsReference(t *testing.T) {
	router, f := newUploadRouter(t)
	f.toPaymentStep(t)

	w := doMultipart(t, router, "proof.jpg", "image/jpeg", "proof bytes")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/checkout/proof", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/checkout", nil)
	assert.Nil(t, decodeData(t, w)["proof_ref"])
}
