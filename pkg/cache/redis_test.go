package cache

import (
	"context"
	"os"
	"testing"

	"github.com/ghuser/itemchain/pkg/config"
)

func TestOptionsFromConfig(t *testing.T) {
	got := OptionsFromConfig(&config.Config{RedisURL: "redis://cache:6379/2", RedisNamespace: "staging", RedisPoolSize: 4})
	want := RedisOptions{URL: "redis://cache:6379/2", Namespace: "staging", PoolSize: 4}
	if got != want {
		t.Fatalf("OptionsFromConfig() = %+v, want %+v", got, want)
	}
}

func TestNamespacedKey(t *testing.T) {
	tests := []struct {
		namespace string
		parts     []string
		want      string
	}{
		{"itemchain", []string{"item", "3"}, "itemchain:item:3"},
		{"itemchain", []string{"session", "abc"}, "itemchain:session:abc"},
		{"", []string{"item", "3"}, "item:3"},
	}
	for _, tt := range tests {
		if got := namespacedKey(tt.namespace, tt.parts...); got != tt.want {
			t.Errorf("namespacedKey(%q, %v) = %q, want %q", tt.namespace, tt.parts, got, tt.want)
		}
	}
}

func TestNewRedisClient_InvalidURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), RedisOptions{URL: "not-a-valid-url"})
	if err == nil {
		t.Fatal("expected error for invalid URL, got nil")
	}
}

func TestNewRedisClient_UnreachableHost(t *testing.T) {
	_, err := NewRedisClient(context.Background(), RedisOptions{URL: "redis://localhost:19999"})
	if err == nil {
		t.Fatal("expected error when Redis is unreachable, got nil")
	}
}

// Integration tests: skipped unless REDIS_URL is set.
func TestRedisIntegration(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set; skipping integration tests")
	}
	ctx := context.Background()

	t.Run("Ping", func(t *testing.T) {
		rc, err := NewRedisClient(ctx, RedisOptions{URL: redisURL})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer rc.Close() //nolint:errcheck

		if err := rc.Ping(ctx); err != nil {
			t.Fatalf("Ping failed: %v", err)
		}
	})

	t.Run("DefaultNamespace", func(t *testing.T) {
		rc, err := NewRedisClient(ctx, RedisOptions{URL: redisURL})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer rc.Close() //nolint:errcheck

		if got := rc.Key("item", "1"); got != "itemchain:item:1" {
			t.Fatalf("Key() = %q", got)
		}
	})

	t.Run("Close", func(t *testing.T) {
		rc, err := NewRedisClient(ctx, RedisOptions{URL: redisURL})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := rc.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	})
}
