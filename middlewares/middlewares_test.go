package middlewares

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PabloUrbano2000/little-lemon-api/pkg/idempotency"
	"github.com/PabloUrbano2000/little-lemon-api/pkg/logging"
	"github.com/PabloUrbano2000/little-lemon-api/pkg/throttle"
	"github.com/PabloUrbano2000/little-lemon-api/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

type fakeAuth map[string]services.Caller

func (f fakeAuth) Authenticate(_ context.Context, token string) (services.Caller, error) {
	if c, ok := f[token]; ok {
		return c, nil
	}
	return services.Anonymous, services.ErrUnauthorized
}

var (
	alice   = services.Caller{ID: 1, Authenticated: true}
	manager = services.Caller{ID: 2, Authenticated: true, IsManager: true}
	auth    = fakeAuth{"alice": alice, "boss": manager}
)

func get(r http.Handler, path, token string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticateAndRequire(t *testing.T) {
	r := gin.New()
	r.Use(Authenticate(auth))
	r.GET("/whoami", func(c *gin.Context) { c.JSON(200, CallerFrom(c)) })
	r.GET("/private", RequireAuth(), func(c *gin.Context) { c.Status(200) })
	r.GET("/admin", RequireManager(), func(c *gin.Context) { c.Status(200) })

	w := get(r, "/whoami", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var got services.Caller
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, services.Anonymous, got)

	assert.Equal(t, http.StatusUnauthorized, get(r, "/whoami", "forged").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/private", "").Code)
	assert.Equal(t, http.StatusOK, get(r, "/private", "alice").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/admin", "").Code)
	assert.Equal(t, http.StatusForbidden, get(r, "/admin", "alice").Code)
	assert.Equal(t, http.StatusOK, get(r, "/admin", "boss").Code)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Token alice")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Basic abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestThrottleSeparatesUsersAndAnonymous(t *testing.T) {
	r := gin.New()
	r.Use(Authenticate(auth), Throttle(throttle.NewMemoryLimiter(time.Minute), 1, 2))
	r.GET("/menu-items", func(c *gin.Context) { c.Status(200) })

	assert.Equal(t, http.StatusOK, get(r, "/menu-items", "").Code)
	w := get(r, "/menu-items", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, get(r, "/menu-items", "alice").Code)
	assert.Equal(t, http.StatusOK, get(r, "/menu-items", "alice").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "/menu-items", "alice").Code)
	assert.Equal(t, http.StatusOK, get(r, "/menu-items", "boss").Code)
}

func TestIdempotencyReplaysSuccess(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := idempotency.NewStore(rdb, time.Hour)

	var calls atomic.Int32
	r := gin.New()
	r.Use(Authenticate(auth))
	r.GET("/orders", Idempotency(store, "checkout"), func(c *gin.Context) {
		n := calls.Add(1)
		c.JSON(http.StatusCreated, gin.H{"ok": true, "data": gin.H{"id": n}})
	})

	first := get(r, "/orders", "alice", "Idempotency-Key", "k1")
	second := get(r, "/orders", "alice", "Idempotency-Key", "k1")
	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))
	assert.EqualValues(t, 1, calls.Load())

	get(r, "/orders", "alice", "Idempotency-Key", "k2")
	get(r, "/orders", "boss", "Idempotency-Key", "k1")
	get(r, "/orders", "alice")
	assert.EqualValues(t, 4, calls.Load(), "keys are scoped per user; no key means no dedup")
}

func TestIdempotencyReleasesOnFailureAndBlocksInFlight(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := idempotency.NewStore(rdb, time.Hour)

	var fail atomic.Bool
	fail.Store(true)
	r := gin.New()
	r.Use(Authenticate(auth))
	r.GET("/orders", Idempotency(store, "checkout"), func(c *gin.Context) {
		if fail.Load() {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "cart is empty"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})

	assert.Equal(t, http.StatusBadRequest, get(r, "/orders", "alice", "Idempotency-Key", "k").Code)
	fail.Store(false)
	assert.Equal(t, http.StatusCreated, get(r, "/orders", "alice", "Idempotency-Key", "k").Code)

	pendingKey := store.Key("checkout", alice.ID, "busy")
	_, err := store.Reserve(context.Background(), pendingKey)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, get(r, "/orders", "alice", "Idempotency-Key", "busy").Code)
}

func TestIdempotencyFinalizesAfterCancelAndPanic(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := idempotency.NewStore(rdb, time.Hour)

	r := gin.New()
	r.Use(gin.Recovery(), Authenticate(auth))
	r.GET("/orders", Idempotency(store, "checkout"), func(c *gin.Context) {
		if c.Query("boom") != "" {
			panic("handler blew up")
		}
		if cancel, ok := c.Request.Context().Value(cancelKey{}).(context.CancelFunc); ok {
			cancel()
		}
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})

	// client disconnects while the handler runs
	ctx, cancel := context.WithCancel(context.Background())
	ctx = context.WithValue(ctx, cancelKey{}, cancel)
	req := httptest.NewRequest(http.MethodGet, "/orders", nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer alice")
	req.Header.Set("Idempotency-Key", "gone")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	stored, err := mr.Get(store.Key("checkout", alice.ID, "gone"))
	require.NoError(t, err)
	assert.NotEqual(t, "pending", stored)
	replay := get(r, "/orders", "alice", "Idempotency-Key", "gone")
	assert.Equal(t, http.StatusCreated, replay.Code)
	assert.Equal(t, "true", replay.Header().Get("Idempotent-Replayed"))

	assert.Equal(t, http.StatusInternalServerError, get(r, "/orders?boom=1", "alice", "Idempotency-Key", "crash").Code)
	assert.False(t, mr.Exists(store.Key("checkout", alice.ID, "crash")))
	assert.Equal(t, http.StatusCreated, get(r, "/orders", "alice", "Idempotency-Key", "crash").Code)
}

type cancelKey struct{}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	var buf bytes.Buffer
	r := gin.New()
	r.Use(RequestLogger(logging.NewWithWriter(&buf, "info")))
	r.GET("/ping", func(c *gin.Context) {
		LoggerFrom(c).Info("inside")
		c.Status(http.StatusTeapot)
	})

	w := get(r, "/ping", "")
	id := w.Header().Get("X-Request-ID")
	assert.NotEmpty(t, id)
	assert.Contains(t, buf.String(), `"request_id":"`+id+`"`)
	assert.Contains(t, buf.String(), `"status":418`)

	w = get(r, "/ping", "", "X-Request-ID", "abc-123")
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}
