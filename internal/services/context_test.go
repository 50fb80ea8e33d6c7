package services_test

import (
	"context"
	"testing"

	"annunciator/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithSessionID(ctx, "sess-1")
	ctx = services.WithAssetKind(ctx, "audio")
	ctx = services.WithRequestID(ctx, "req-123")

	if id, ok := services.SessionIDFromContext(ctx); !ok || id != "sess-1" {
		t.Fatalf("unexpected session id: %v %v", id, ok)
	}
	if kind, ok := services.AssetKindFromContext(ctx); !ok || kind != "audio" {
		t.Fatalf("unexpected asset kind: %v %v", kind, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithAssetKind(ctx, "")
	ctx = services.WithSessionID(ctx, "")
	if _, ok := services.AssetKindFromContext(ctx); ok {
		t.Fatal("expected no asset kind value")
	}
	if _, ok := services.SessionIDFromContext(ctx); ok {
		t.Fatal("expected no session id value")
	}
}
