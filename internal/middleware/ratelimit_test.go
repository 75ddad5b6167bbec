package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"medfinder/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func TestProperty_RateLimitingBlocksExcessiveRequests(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("excessive requests are blocked with 429", prop.ForAll(
		func(requestsPerWindow int, excessRequests int) bool {
			// Create a mock Redis server using miniredis
			mr, err := miniredis.Run()
			if err != nil {
				t.Fatalf("Failed to start miniredis: %v", err)
				return false
			}
			defer mr.Close()

			// Create Redis client connected to miniredis
			redisClient := redis.NewClient(&redis.Options{
				Addr: mr.Addr(),
			})
			defer redisClient.Close()

			logger := zap.NewNop()

			config := RateLimitConfig{
				RequestsPerWindow: requestsPerWindow,
				Window:            1 * time.Second,
				KeyPrefix:         "search",
			}

			middleware := RateLimitMiddleware(redisClient, config, logger)

			handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			// Make requests up to the limit
			clientIP := "192.168.1.100"
			successCount := 0
			blockedCount := 0

			totalRequests := requestsPerWindow + excessRequests

			for i := 0; i < totalRequests; i++ {
				req := httptest.NewRequest("GET", "/test", nil)
				req.RemoteAddr = clientIP
				w := httptest.NewRecorder()

				handler.ServeHTTP(w, req)

				if w.Code == http.StatusOK {
					successCount++
				} else if w.Code == http.StatusTooManyRequests {
					blockedCount++
				}
			}

			// Should allow exactly requestsPerWindow requests and block the rest
			return successCount == requestsPerWindow && blockedCount == excessRequests
		},
		gen.IntRange(5, 20),
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_RateLimitHeadersAreSet(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("rate limit headers are present in responses", prop.ForAll(
		func(requestsPerWindow int) bool {
			// Create a mock Redis server using miniredis
			mr, err := miniredis.Run()
			if err != nil {
				t.Fatalf("Failed to start miniredis: %v", err)
				return false
			}
			defer mr.Close()

			redisClient := redis.NewClient(&redis.Options{
				Addr: mr.Addr(),
			})
			defer redisClient.Close()

			logger := zap.NewNop()

			config := RateLimitConfig{
				RequestsPerWindow: requestsPerWindow,
				Window:            1 * time.Second,
				KeyPrefix:         "search",
			}

			middleware := RateLimitMiddleware(redisClient, config, logger)

			handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			clientIP := "192.168.1.101"
			req := httptest.NewRequest("GET", "/test", nil)
			req.RemoteAddr = clientIP
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			// Check that rate limit headers are present
			hasLimit := w.Header().Get("X-RateLimit-Limit") != ""
			hasRemaining := w.Header().Get("X-RateLimit-Remaining") != ""

			return hasLimit && hasRemaining
		},
		gen.IntRange(5, 50),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestRateLimitMiddleware_FailsOpenWithoutRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer redisClient.Close()
	mr.Close()

	handler := RateLimitMiddleware(redisClient, RateLimitConfig{
		RequestsPerWindow: 1,
		Window:            time.Minute,
		KeyPrefix:         "search",
	}, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/medicine/search", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200 while redis is down, got %d", i, w.Code)
		}
	}
}

func TestRateLimitMiddleware_KeysByCaller(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer redisClient.Close()

	handler := RateLimitMiddleware(redisClient, RateLimitConfig{
		RequestsPerWindow: 1,
		Window:            time.Minute,
		KeyPrefix:         "search",
	}, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// two callers behind the same address have separate budgets
	for _, caller := range []domain.Caller{
		{ID: uuid.New(), Role: domain.RoleClient},
		{ID: uuid.New(), Role: domain.RoleClient},
	} {
		req := httptest.NewRequest("GET", "/api/medicine/search", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		req = req.WithContext(WithCaller(req.Context(), caller))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 for caller %s, got %d", caller.ID, w.Code)
		}
		if !mr.Exists("search:" + caller.ID.String()) {
			t.Errorf("expected counter for caller %s", caller.ID)
		}
	}

	req := httptest.NewRequest("GET", "/api/medicine/search", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 for anonymous client over budget, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"success":false`) {
		t.Errorf("expected failed envelope, got %s", w.Body.String())
	}
}
