package middleware

import (
	"bytes"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/crucial707/todoism/internal/db"
	"github.com/crucial707/todoism/internal/respond"
)

// bufferedWriter holds the response until the transaction outcome is known.
type bufferedWriter struct {
	header      http.Header
	status      int
	wroteHeader bool
	body        bytes.Buffer
}

func newBufferedWriter() *bufferedWriter {
	return &bufferedWriter{header: make(http.Header), status: http.StatusOK}
}

func (b *bufferedWriter) Header() http.Header { return b.header }

func (b *bufferedWriter) WriteHeader(code int) {
	if b.wroteHeader {
		return
	}
	b.status = code
	b.wroteHeader = true
}

func (b *bufferedWriter) Write(p []byte) (int, error) {
	b.wroteHeader = true
	return b.body.Write(p)
}

func (b *bufferedWriter) flushTo(w http.ResponseWriter) {
	dst := w.Header()
	for k, v := range b.header {
		dst[k] = v
	}
	w.WriteHeader(b.status)
	_, _ = b.body.WriteTo(w)
}

// Tx runs each request inside one database transaction. The response is
// buffered; it is committed when the handler answered below 400 and rolled
// back otherwise. A panic rolls back and propagates to the recoverer. A failed
// commit discards the buffered response and answers 500.
func Tx(pool *sql.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tx, err := pool.BeginTx(r.Context(), nil)
			if err != nil {
				respond.Internal(w, r, fmt.Errorf("begin tx: %w", err))
				return
			}

			finished := false
			defer func() {
				if !finished {
					_ = tx.Rollback()
				}
			}()

			buf := newBufferedWriter()
			next.ServeHTTP(buf, r.WithContext(db.WithTx(r.Context(), tx)))
			finished = true

			if buf.status >= http.StatusBadRequest {
				_ = tx.Rollback()
				buf.flushTo(w)
				return
			}
			if err := tx.Commit(); err != nil {
				respond.Internal(w, r, fmt.Errorf("commit tx: %w", err))
				return
			}
			buf.flushTo(w)
		})
	}
}
