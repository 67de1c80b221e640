package middlewares

import (
	"bytes"
	"context"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/dompetku/dompetku/internal/logger"
)

// TxMiddleware wraps an HTTP handler with a database transaction.
// The transaction is stored in the request context and picked up by
// repositories; it is committed only when the handler finishes with a
// status below 400 and rolled back otherwise, so a multi-step mutation
// is never half-applied. The response body is buffered until the commit
// outcome is known.
func TxMiddleware(db *sqlx.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tx, err := db.Beginx()
			if err != nil {
				logger.Log.Errorw("failed to begin transaction", "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				return
			}

			defer func() {
				if rec := recover(); rec != nil {
					tx.Rollback()
					panic(rec)
				}
			}()

			rw := &txResponseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			ctx := setTxToContext(r.Context(), tx)
			next.ServeHTTP(rw, r.WithContext(ctx))

			if rw.statusCode >= http.StatusBadRequest {
				if err := tx.Rollback(); err != nil {
					logger.Log.Errorw("failed to roll back transaction", "error", err)
				}
				rw.flush()
				return
			}

			if err := tx.Commit(); err != nil {
				logger.Log.Errorw("failed to commit transaction", "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				return
			}

			rw.flush()
		})
	}
}

// txResponseWriter buffers the handler's response so the middleware can
// replace it when the commit fails.
type txResponseWriter struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

func (rw *txResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
}

func (rw *txResponseWriter) Write(b []byte) (int, error) {
	return rw.body.Write(b)
}

func (rw *txResponseWriter) flush() {
	rw.ResponseWriter.WriteHeader(rw.statusCode)
	if rw.body.Len() > 0 {
		rw.ResponseWriter.Write(rw.body.Bytes())
	}
}

// contextKey is an unexported type for keys in context
type contextKey struct{}

var txKey = contextKey{}

// setTxToContext stores a transaction in the context
func setTxToContext(ctx context.Context, tx *sqlx.Tx) context.Context {
	return context.WithValue(ctx, txKey, tx)
}

// GetTxFromContext retrieves the transaction from the context. Returns nil if not present.
func GetTxFromContext(ctx context.Context) *sqlx.Tx {
	tx, _ := ctx.Value(txKey).(*sqlx.Tx)
	return tx
}
