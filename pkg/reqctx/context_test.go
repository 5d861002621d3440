package reqctx

import (
	"context"
	"log/slog"
	"testing"
)

func TestRequestMetaRoundTrip(t *testing.T) {
	ctx := context.Background()

	if _, ok := RequestMetaFromContext(ctx); ok {
		t.Fatal("expected no metadata on a bare context")
	}
	if got := RequestIDFromContext(ctx); got != "" {
		t.Errorf("RequestIDFromContext() = %q, want empty", got)
	}
	if attrs := LogAttrs(ctx); attrs != nil {
		t.Errorf("LogAttrs() = %v, want nil", attrs)
	}

	ctx = WithRequestMeta(ctx, &RequestMeta{RequestID: "rid-1", ClientIP: "10.0.0.1"})

	if got := RequestIDFromContext(ctx); got != "rid-1" {
		t.Errorf("RequestIDFromContext() = %q, want rid-1", got)
	}

	attrs := LogAttrs(ctx)
	if len(attrs) != 2 {
		t.Fatalf("LogAttrs() returned %d attrs, want 2", len(attrs))
	}
	if a := attrs[0].(slog.Attr); a.Key != "request_id" || a.Value.String() != "rid-1" {
		t.Errorf("first attr = %v", a)
	}
}

func TestRequestMetaFromContext_NilMeta(t *testing.T) {
	ctx := WithRequestMeta(context.Background(), nil)
	if _, ok := RequestMetaFromContext(ctx); ok {
		t.Error("nil metadata must not be reported as present")
	}
}
