package middlewares

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/PabloUrbano2000/little-lemon-api/pkg/idempotency"
	"github.com/PabloUrbano2000/little-lemon-api/pkg/resp"

	"github.com/gin-gonic/gin"
)

const (
	idempotencyHeader = "Idempotency-Key"
	replayedHeader    = "Idempotent-Replayed"
	maxKeyLen         = 255
)

type bodyRecorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency replays the stored response when an authenticated caller
// repeats a request with the same Idempotency-Key. Only 2xx responses are
// stored; anything else frees the key for a retry.
func Idempotency(store *idempotency.Store, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(idempotencyHeader)
		caller := CallerFrom(c)
		if store == nil || key == "" || !caller.Authenticated {
			c.Next()
			return
		}
		if len(key) > maxKeyLen {
			resp.Abort(c, http.StatusBadRequest, "Idempotency-Key is too long")
			return
		}

		ctx := c.Request.Context()
		log := LoggerFrom(c)
		storeKey := store.Key(scope, caller.ID, key)

		prev, err := store.Reserve(ctx, storeKey)
		switch {
		case errors.Is(err, idempotency.ErrInFlight):
			resp.Abort(c, http.StatusConflict, err.Error())
			return
		case err != nil:
			log.Warn("idempotency reserve failed", "err", err)
			c.Next()
			return
		case prev != nil:
			c.Header(replayedHeader, "true")
			c.Data(prev.Status, "application/json; charset=utf-8", prev.Body)
			c.Abort()
			return
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec

		// Finalize on client disconnect or handler panic too.
		finished := false
		defer func() {
			fctx := context.WithoutCancel(ctx)
			status := rec.Status()
			var err error
			if finished && status >= 200 && status < 300 {
				err = store.Complete(fctx, storeKey, idempotency.Result{Status: status, Body: rec.buf.Bytes()})
			} else {
				err = store.Release(fctx, storeKey)
			}
			if err != nil {
				log.Warn("idempotency finalize failed", "status", status, "err", err)
			}
		}()

		c.Next()
		finished = true
	}
}
