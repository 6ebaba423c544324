package server

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"taskmanager/internal/domain/models"
	"taskmanager/internal/logging"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipped(t *testing.T, s string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	return &buf
}

func TestGzipRequestDecompress(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(GzipRequestDecompress())
	router.POST("/echo", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.String(http.StatusOK, string(body))
	})

	tests := []struct {
		name     string
		body     func(t *testing.T) io.Reader
		encoding string
		want     struct {
			statusCode int
			body       string
		}
	}{
		{
			name:     "plain body",
			body:     func(t *testing.T) io.Reader { return strings.NewReader(`{"title":"plain"}`) },
			encoding: "",
			want: struct {
				statusCode int
				body       string
			}{statusCode: http.StatusOK, body: `{"title":"plain"}`},
		},
		{
			name:     "gzip body",
			body:     func(t *testing.T) io.Reader { return gzipped(t, `{"title":"packed"}`) },
			encoding: "gzip",
			want: struct {
				statusCode int
				body       string
			}{statusCode: http.StatusOK, body: `{"title":"packed"}`},
		},
		{
			name:     "gzip header with plain body",
			body:     func(t *testing.T) io.Reader { return strings.NewReader("not gzip at all") },
			encoding: "GZIP",
			want: struct {
				statusCode int
				body       string
			}{statusCode: http.StatusBadRequest, body: "invalid gzip request body"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodPost, "/echo", tt.body(t))
			if tt.encoding != "" {
				req.Header.Set("Content-Encoding", tt.encoding)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want.statusCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.want.body)
		})
	}
}

func TestGzipResponseCompress(t *testing.T) {
	large := strings.Repeat("task checklist item ", 100)

	tests := []struct {
		name           string
		method         string
		acceptEncoding string
		handler        gin.HandlerFunc
		want           struct {
			statusCode      int
			contentEncoding string
			body            string
		}
	}{
		{
			name:           "small json stays plain",
			method:         http.MethodGet,
			acceptEncoding: "gzip",
			handler:        func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "ok"}) },
			want: struct {
				statusCode      int
				contentEncoding string
				body            string
			}{statusCode: http.StatusOK, body: `"message":"ok"`},
		},
		{
			name:           "large text is compressed",
			method:         http.MethodGet,
			acceptEncoding: "gzip, deflate",
			handler:        func(c *gin.Context) { c.String(http.StatusOK, large) },
			want: struct {
				statusCode      int
				contentEncoding string
				body            string
			}{statusCode: http.StatusOK, contentEncoding: "gzip", body: large},
		},
		{
			name:           "gzip refused with q=0",
			method:         http.MethodGet,
			acceptEncoding: "gzip;q=0, deflate",
			handler:        func(c *gin.Context) { c.String(http.StatusOK, large) },
			want: struct {
				statusCode      int
				contentEncoding string
				body            string
			}{statusCode: http.StatusOK, body: large},
		},
		{
			name:           "client without gzip",
			method:         http.MethodGet,
			acceptEncoding: "",
			handler:        func(c *gin.Context) { c.String(http.StatusOK, large) },
			want: struct {
				statusCode      int
				contentEncoding string
				body            string
			}{statusCode: http.StatusOK, body: large},
		},
		{
			name:           "binary content is passed through",
			method:         http.MethodGet,
			acceptEncoding: "gzip",
			handler: func(c *gin.Context) {
				c.Data(http.StatusOK, "application/octet-stream", []byte(large))
			},
			want: struct {
				statusCode      int
				contentEncoding string
				body            string
			}{statusCode: http.StatusOK, body: large},
		},
		{
			name:           "no content",
			method:         http.MethodGet,
			acceptEncoding: "gzip",
			handler:        func(c *gin.Context) { c.Status(http.StatusNoContent) },
			want: struct {
				statusCode      int
				contentEncoding string
				body            string
			}{statusCode: http.StatusNoContent},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			router := gin.New()
			router.Use(GzipResponseCompress())
			router.Handle(tt.method, "/test", tt.handler)

			req, _ := http.NewRequest(tt.method, "/test", nil)
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want.statusCode, w.Code)
			assert.Equal(t, tt.want.contentEncoding, w.Header().Get("Content-Encoding"))

			body := w.Body.Bytes()
			if tt.want.contentEncoding == "gzip" {
				gr, err := gzip.NewReader(bytes.NewReader(body))
				require.NoError(t, err)
				body, err = io.ReadAll(gr)
				require.NoError(t, err)
				assert.Less(t, w.Body.Len(), len(tt.want.body))
			}
			assert.Contains(t, string(body), tt.want.body)
		})
	}
}

func TestAcceptsGzip(t *testing.T) {
	tests := []struct {
		header string
		want   bool
	}{
		{header: "", want: false},
		{header: "gzip", want: true},
		{header: "deflate, br", want: false},
		{header: "br, GZIP;q=0.8", want: true},
		{header: "gzip;q=0", want: false},
		{header: "gzip; q=0.000", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, acceptsGzip(tt.header))
		})
	}
}

func TestIsCompressibleContentType(t *testing.T) {
	tests := []struct {
		contentType string
		want        bool
	}{
		{contentType: "application/json; charset=utf-8", want: true},
		{contentType: "text/plain", want: true},
		{contentType: "text/event-stream", want: false},
		{contentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", want: false},
		{contentType: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.want, isCompressibleContentType(tt.contentType))
		})
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Options{Level: "info"})
	logger.SetOutput(&buf)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestLogger(logger))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		path  string
		level string
	}{
		{path: "/ok", level: "Event Type: INFO"},
		{path: "/missing", level: "Event Type: WARNING"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			buf.Reset()
			req, _ := http.NewRequest(http.MethodGet, tt.path, nil)
			router.ServeHTTP(httptest.NewRecorder(), req)

			assert.Contains(t, buf.String(), "Event ID: HTTP_REQUEST")
			assert.Contains(t, buf.String(), tt.level)
			assert.Contains(t, buf.String(), "path="+tt.path)
		})
	}
}

func TestAdminOnlyWithoutActor(t *testing.T) {
	api := newTestAPI(&MockUserRepository{}, &MockTaskRepository{})

	tests := []struct {
		name  string
		actor *models.Actor
		want  int
	}{
		{name: "no actor", want: http.StatusUnauthorized},
		{name: "unknown role", actor: &models.Actor{ID: "x", Role: "owner"}, want: http.StatusForbidden},
		{name: "admin", actor: &models.Actor{ID: "a", Role: models.RoleAdmin}, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/x", func(c *gin.Context) {
				if tt.actor != nil {
					c.Set(actorKey, *tt.actor)
				}
				c.Next()
			}, api.adminOnly(), func(c *gin.Context) { c.Status(http.StatusOK) })

			req, _ := http.NewRequest(http.MethodGet, "/x", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
