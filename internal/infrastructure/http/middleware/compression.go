package middleware

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/andybalholm/brotli"
)

// CompressionConfig configures response compression
type CompressionConfig struct {
	BrotliLevel  int
	GzipLevel    int
	MinSizeBytes int
}

// DefaultCompressionConfig returns the levels used by the server
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		BrotliLevel:  5,
		GzipLevel:    gzip.DefaultCompression,
		MinSizeBytes: 1024,
	}
}

// Compression buffers JSON responses and compresses them with brotli or
// gzip, preferring brotli. Responses under MinSizeBytes are sent as is.
func Compression(cfg CompressionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			encoding := negotiateEncoding(r.Header.Get("Accept-Encoding"))
			if encoding == "" {
				next.ServeHTTP(w, r)
				return
			}

			buf := &bufferedWriter{header: w.Header(), status: http.StatusOK}
			next.ServeHTTP(buf, r)

			w.Header().Add("Vary", "Accept-Encoding")
			body := buf.body.Bytes()
			if len(body) < cfg.MinSizeBytes || !compressible(w.Header().Get("Content-Type")) {
				w.WriteHeader(buf.status)
				_, _ = w.Write(body)
				return
			}

			compressed, err := compress(encoding, body, cfg)
			if err != nil {
				w.WriteHeader(buf.status)
				_, _ = w.Write(body)
				return
			}

			w.Header().Set("Content-Encoding", encoding)
			w.Header().Set("Content-Length", strconv.Itoa(len(compressed)))
			w.WriteHeader(buf.status)
			_, _ = w.Write(compressed)
		})
	}
}

func negotiateEncoding(accept string) string {
	var gz bool
	for _, part := range strings.Split(accept, ",") {
		fields := strings.Split(part, ";")
		name := strings.ToLower(strings.TrimSpace(fields[0]))
		if rejected(fields[1:]) {
			continue
		}
		switch name {
		case "br":
			return "br"
		case "gzip":
			gz = true
		}
	}
	if gz {
		return "gzip"
	}
	return ""
}

// rejected reports whether the parameters carry q=0
func rejected(params []string) bool {
	for _, p := range params {
		key, value, ok := strings.Cut(strings.TrimSpace(p), "=")
		if !ok || key != "q" {
			continue
		}
		if q, err := strconv.ParseFloat(value, 64); err == nil && q == 0 {
			return true
		}
	}
	return false
}

func compressible(contentType string) bool {
	return strings.HasPrefix(contentType, "application/json") ||
		strings.HasPrefix(contentType, "text/")
}

func compress(encoding string, body []byte, cfg CompressionConfig) ([]byte, error) {
	var out bytes.Buffer
	var writer io.WriteCloser

	switch encoding {
	case "br":
		writer = brotli.NewWriterLevel(&out, cfg.BrotliLevel)
	default:
		gz, err := gzip.NewWriterLevel(&out, cfg.GzipLevel)
		if err != nil {
			return nil, err
		}
		writer = gz
	}

	if _, err := writer.Write(body); err != nil {
		writer.Close()
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// bufferedWriter holds the response until the handler returns
type bufferedWriter struct {
	header http.Header
	body   bytes.Buffer
	status int
	wrote  bool
}

func (b *bufferedWriter) Header() http.Header { return b.header }

func (b *bufferedWriter) WriteHeader(code int) {
	if !b.wrote {
		b.status = code
		b.wrote = true
	}
}

func (b *bufferedWriter) Write(p []byte) (int, error) {
	b.wrote = true
	return b.body.Write(p)
}
