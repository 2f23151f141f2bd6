package store

import (
	"context"
	"testing"
	"time"
)

func TestWithPrefix_KeysPrefixed(t *testing.T) {
	inner := NewMemory()
	wrapped := WithPrefix(inner, "fqc:")
	ctx := context.Background()

	if err := wrapped.Set(ctx, "abc", []byte("v"), time.Hour); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	// Visible through the wrapper under the bare key
	if _, ok := wrapped.Get(ctx, "abc"); !ok {
		t.Error("wrapped Get() miss, want hit")
	}

	// Stored in the inner store under the prefixed key only
	if _, ok := inner.Get(ctx, "fqc:abc"); !ok {
		t.Error("inner Get(prefixed) miss, want hit")
	}
	if _, ok := inner.Get(ctx, "abc"); ok {
		t.Error("inner Get(bare) hit, want miss")
	}
}

func TestWithPrefix_Isolation(t *testing.T) {
	inner := NewMemory()
	tenantA := WithPrefix(inner, "a:")
	tenantB := WithPrefix(inner, "b:")
	ctx := context.Background()

	_ = tenantA.Set(ctx, "k", []byte("for-a"), time.Hour)

	if _, ok := tenantB.Get(ctx, "k"); ok {
		t.Error("tenant b sees tenant a's entry")
	}
}

func TestWithPrefix_Composes(t *testing.T) {
	inner := NewMemory()
	wrapped := WithPrefix(WithPrefix(inner, "outer:"), "inner:")
	ctx := context.Background()

	_ = wrapped.Set(ctx, "k", []byte("v"), time.Hour)

	if _, ok := inner.Get(ctx, "outer:inner:k"); !ok {
		t.Error("composed prefixes should nest")
	}
}

func TestWithPrefix_Delete(t *testing.T) {
	inner := NewMemory()
	wrapped := WithPrefix(inner, "p:")
	ctx := context.Background()

	_ = wrapped.Set(ctx, "k", []byte("v"), time.Hour)
	if err := wrapped.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := inner.Get(ctx, "p:k"); ok {
		t.Error("inner entry should be gone after wrapped delete")
	}
}

func TestWithPrefix_EmptyPrefixIsIdentity(t *testing.T) {
	inner := NewMemory()
	if got := WithPrefix(inner, ""); got != Store(inner) {
		t.Error("empty prefix should return the store unchanged")
	}
}
