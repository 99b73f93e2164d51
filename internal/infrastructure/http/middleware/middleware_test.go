package middleware

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func okHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	})
}

func TestRequestID(t *testing.T) {
	t.Run("MissingHeader_ShouldGenerateID", func(t *testing.T) {
		// Arrange
		var seen string
		handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = GetRequestID(r.Context())
		}))
		rec := httptest.NewRecorder()

		// Act
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		// Assert
		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
	})

	t.Run("IncomingHeader_ShouldBeKept", func(t *testing.T) {
		handler := RequestID()(okHandler("{}"))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	})

	t.Run("OversizedHeader_ShouldBeReplaced", func(t *testing.T) {
		handler := RequestID()(okHandler("{}"))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		oversized := strings.Repeat("x", 129)
		req.Header.Set(RequestIDHeader, oversized)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		id := rec.Header().Get(RequestIDHeader)
		assert.NotEmpty(t, id)
		assert.NotEqual(t, oversized, id)
		assert.Equal(t, oversized, req.Header.Get(RequestIDHeader))
	})

	t.Run("ChiContext_ShouldShareID", func(t *testing.T) {
		var fromChi, fromHelper string
		handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fromChi = chimiddleware.GetReqID(r.Context())
			fromHelper = GetRequestID(r.Context())
		}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, fromChi, fromHelper)
	})
}

func TestLogger(t *testing.T) {
	t.Run("ClientError_ShouldLogWarn", func(t *testing.T) {
		// Arrange
		core, logs := observer.New(zap.InfoLevel)
		handler := Logger(zap.New(core), "/health")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))

		// Act
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/ingredients", nil))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

		// Assert
		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, zap.WarnLevel, entry.Level)
		assert.Equal(t, int64(http.StatusBadRequest), entry.ContextMap()["status"])
	})
}

func TestRecovery(t *testing.T) {
	t.Run("Panic_ShouldReturnJSON500", func(t *testing.T) {
		handler := RequestID()(Recovery(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		})))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "INTERNAL_ERROR", body["code"])
		assert.NotEmpty(t, body["request_id"])
	})
}

func TestSecurityAndCORS(t *testing.T) {
	t.Run("Headers_ShouldBeSet", func(t *testing.T) {
		rec := httptest.NewRecorder()

		Security(false)(okHandler("{}")).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
		assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
	})

	t.Run("Preflight_ShouldShortCircuit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/ingredient-similarity", nil)
		req.Header.Set("Origin", "https://kitchen.example")
		req.Header.Set("Access-Control-Request-Method", "POST")
		rec := httptest.NewRecorder()

		CORS([]string{"https://kitchen.example"})(okHandler("{}")).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "https://kitchen.example", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("UnknownOrigin_ShouldNotBeAllowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://evil.example")
		rec := httptest.NewRecorder()

		CORS([]string{"https://kitchen.example"})(okHandler("{}")).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRateLimiter(t *testing.T) {
	t.Run("Burst_ShouldBeEnforcedPerClient", func(t *testing.T) {
		// Arrange
		limiter := NewRateLimiter(60, 2)
		now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		limiter.now = func() time.Time { return now }
		handler := limiter.Handler(okHandler("{}"))

		request := func(addr string) int {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = addr
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			return rec.Code
		}

		// Act & Assert
		assert.Equal(t, http.StatusOK, request("10.0.0.1:1000"))
		assert.Equal(t, http.StatusOK, request("10.0.0.1:1001"))
		assert.Equal(t, http.StatusTooManyRequests, request("10.0.0.1:1002"))
		assert.Equal(t, http.StatusOK, request("10.0.0.2:1000"))

		now = now.Add(time.Second)
		assert.Equal(t, http.StatusOK, request("10.0.0.1:1003"))
	})

	t.Run("Cleanup_ShouldForgetIdleClients", func(t *testing.T) {
		limiter := NewRateLimiter(60, 1)
		now := time.Now()
		limiter.now = func() time.Time { return now }
		limiter.allow("10.0.0.1")

		now = now.Add(2 * time.Minute)

		assert.Equal(t, 1, limiter.Cleanup(time.Minute))
		assert.Empty(t, limiter.clients)
	})
}

func TestCompression(t *testing.T) {
	large := `{"data":"` + strings.Repeat("tomato basil ", 200) + `"}`

	serve := func(accept, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Encoding", accept)
		rec := httptest.NewRecorder()
		Compression(DefaultCompressionConfig())(okHandler(body)).ServeHTTP(rec, req)
		return rec
	}

	t.Run("Brotli_ShouldBePreferred", func(t *testing.T) {
		rec := serve("gzip, br", large)

		require.Equal(t, "br", rec.Header().Get("Content-Encoding"))
		decoded, err := io.ReadAll(brotli.NewReader(bytes.NewReader(rec.Body.Bytes())))
		require.NoError(t, err)
		assert.Equal(t, large, string(decoded))
	})

	t.Run("Gzip_ShouldBeUsedWithoutBrotli", func(t *testing.T) {
		rec := serve("gzip, br;q=0", large)

		require.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
		reader, err := gzip.NewReader(bytes.NewReader(rec.Body.Bytes()))
		require.NoError(t, err)
		decoded, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.Equal(t, large, string(decoded))
	})

	t.Run("SmallBody_ShouldPassThrough", func(t *testing.T) {
		rec := serve("br", `{"ok":true}`)

		assert.Empty(t, rec.Header().Get("Content-Encoding"))
		assert.Equal(t, `{"ok":true}`, rec.Body.String())
	})

	t.Run("NoAcceptEncoding_ShouldPassThrough", func(t *testing.T) {
		rec := serve("", large)

		assert.Empty(t, rec.Header().Get("Content-Encoding"))
		assert.Equal(t, large, rec.Body.String())
	})
}
