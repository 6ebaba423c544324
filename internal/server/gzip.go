package server

import (
	"compress/gzip"
	stderrors "errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"taskmanager/internal/domain/errors"

	"github.com/gin-gonic/gin"
)

// minCompressSize is the body size below which responses are sent as is.
const minCompressSize = 1024

var gzipWriters = sync.Pool{
	New: func() any { return gzip.NewWriter(io.Discard) },
}

var compressibleTypes = []string{
	"application/json",
	"application/xml",
	"application/javascript",
	"text/html",
	"text/css",
	"text/plain",
	"text/xml",
	"text/javascript",
}

var uncompressedStatuses = map[int]bool{
	http.StatusNoContent:         true,
	http.StatusNotModified:       true,
	http.StatusPartialContent:    true,
	http.StatusMultipleChoices:   true,
	http.StatusMovedPermanently:  true,
	http.StatusFound:             true,
	http.StatusSeeOther:          true,
	http.StatusTemporaryRedirect: true,
	http.StatusPermanentRedirect: true,
}

type gzipBody struct {
	*gzip.Reader
	body io.ReadCloser
}

func (b *gzipBody) Close() error {
	return stderrors.Join(b.Reader.Close(), b.body.Close())
}

// GzipRequestDecompress transparently inflates gzip encoded request bodies.
func GzipRequestDecompress() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !strings.Contains(strings.ToLower(ctx.GetHeader("Content-Encoding")), "gzip") {
			ctx.Next()
			return
		}

		gr, err := gzip.NewReader(ctx.Request.Body)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"message": errors.ErrInvalidGzipRequest.Error(),
				"error":   errors.ErrBadRequest.Error(),
			})
			return
		}
		ctx.Request.Body = &gzipBody{Reader: gr, body: ctx.Request.Body}
		ctx.Request.Header.Del("Content-Encoding")
		ctx.Request.Header.Del("Content-Length")
		ctx.Request.ContentLength = -1
		ctx.Next()
	}
}

// compressWriter holds back the first minCompressSize bytes to decide
// whether the response is worth compressing.
type compressWriter struct {
	gin.ResponseWriter
	gz          *gzip.Writer
	pending     []byte
	passthrough bool
}

func (w *compressWriter) Write(data []byte) (int, error) {
	switch {
	case w.gz != nil:
		if _, err := w.gz.Write(data); err != nil {
			return 0, errors.ErrGzipCompressionFailed
		}
		return len(data), nil
	case w.passthrough:
		return w.ResponseWriter.Write(data)
	}

	w.pending = append(w.pending, data...)
	if len(w.pending) < minCompressSize {
		return len(data), nil
	}
	if !w.compressible() {
		w.passthrough = true
		return len(data), w.flushPending()
	}

	w.start()
	if _, err := w.gz.Write(w.pending); err != nil {
		return 0, errors.ErrGzipCompressionFailed
	}
	w.pending = nil
	return len(data), nil
}

func (w *compressWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

func (w *compressWriter) Flush() {
	if w.gz != nil {
		_ = w.gz.Flush()
	} else {
		_ = w.flushPending()
	}
	w.ResponseWriter.Flush()
}

func (w *compressWriter) compressible() bool {
	if uncompressedStatuses[w.Status()] {
		return false
	}
	if w.Header().Get("Content-Encoding") != "" {
		return false
	}
	return isCompressibleContentType(w.Header().Get("Content-Type"))
}

func (w *compressWriter) start() {
	h := w.Header()
	h.Del("Content-Length")
	h.Set("Content-Encoding", "gzip")
	addVary(h)

	gz := gzipWriters.Get().(*gzip.Writer)
	gz.Reset(w.ResponseWriter)
	w.gz = gz
}

func (w *compressWriter) flushPending() error {
	if len(w.pending) == 0 {
		return nil
	}
	_, err := w.ResponseWriter.Write(w.pending)
	w.pending = nil
	return err
}

// finish closes the gzip stream or sends whatever is still buffered.
func (w *compressWriter) finish() error {
	if w.gz == nil {
		return w.flushPending()
	}
	err := w.gz.Close()
	gzipWriters.Put(w.gz)
	w.gz = nil
	if err != nil {
		return errors.ErrGzipCompressionFailed
	}
	return nil
}

// GzipResponseCompress gzips compressible responses of at least
// minCompressSize bytes for clients that accept it.
func GzipResponseCompress() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.Request.Method == http.MethodHead || !acceptsGzip(ctx.GetHeader("Accept-Encoding")) {
			ctx.Next()
			return
		}

		addVary(ctx.Writer.Header())
		cw := &compressWriter{ResponseWriter: ctx.Writer}
		ctx.Writer = cw

		ctx.Next()

		if err := cw.finish(); err != nil {
			_ = ctx.Error(err)
		}
	}
}

// acceptsGzip reports whether an Accept-Encoding value allows gzip.
// "gzip;q=0" is a refusal.
func acceptsGzip(header string) bool {
	for _, part := range strings.Split(header, ",") {
		coding, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if !strings.EqualFold(strings.TrimSpace(coding), "gzip") {
			continue
		}
		q := strings.ReplaceAll(strings.TrimSpace(params), " ", "")
		return q != "q=0" && q != "q=0.0" && q != "q=0.00" && q != "q=0.000"
	}
	return false
}

func addVary(h http.Header) {
	vary := h.Get("Vary")
	switch {
	case vary == "":
		h.Set("Vary", "Accept-Encoding")
	case !strings.Contains(vary, "Accept-Encoding"):
		h.Set("Vary", vary+", Accept-Encoding")
	}
}

func isCompressibleContentType(ct string) bool {
	lower := strings.ToLower(ct)
	for _, prefix := range compressibleTypes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
