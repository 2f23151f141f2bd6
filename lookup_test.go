package fqcache

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jonwraymond/fqcache/key"
	"github.com/jonwraymond/fqcache/session"
)

func mustKey(t *testing.T, base key.BaseKey, mode key.Mode) string {
	t.Helper()
	k, err := key.NewBuilder().Build(base, mode)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return k
}

func mustPrivateKey(t *testing.T, base key.BaseKey, sessionID string) string {
	t.Helper()
	k, err := key.NewBuilder().BuildPrivate(base, sessionID)
	if err != nil {
		t.Fatalf("BuildPrivate() error = %v", err)
	}
	return k
}

func TestLookup_AnonymousPartition(t *testing.T) {
	st := newRecordingStore()
	cache, err := New(st)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	base := key.BaseKey{Document: "{ a }"}
	st.setRaw(mustKey(t, base, key.ModeNoSession), []byte(`{"data":{"a":1}}`))

	resp, hit, err := cache.Lookup(context.Background(), Request{Document: "{ a }"}, anonymousContext(t))
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if !hit {
		t.Fatal("Lookup() miss, want hit")
	}
	if string(resp.Data) != `{"a":1}` {
		t.Errorf("Lookup() data = %s, want {\"a\":1}", resp.Data)
	}
}

func TestLookup_PrivatePreferredOverPublic(t *testing.T) {
	st := newRecordingStore()
	cache, err := New(st)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	base := key.BaseKey{Document: "{ me }"}
	privateKey := mustPrivateKey(t, base, "u1")
	publicKey := mustKey(t, base, key.ModeAuthenticatedPublic)

	st.setRaw(privateKey, []byte(`{"data":{"me":"u1"}}`))
	st.setRaw(publicKey, []byte(`{"data":{"me":"shared"}}`))

	resp, hit, err := cache.Lookup(context.Background(), Request{Document: "{ me }"}, sessionContext(t, "u1"))
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if !hit {
		t.Fatal("Lookup() miss, want private hit")
	}
	if string(resp.Data) != `{"me":"u1"}` {
		t.Errorf("Lookup() data = %s, want the private entry", resp.Data)
	}

	// The public partition must never be probed on a private hit.
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, k := range st.gets {
		if k == publicKey {
			t.Error("public partition was probed despite a private hit")
		}
	}
}

func TestLookup_FallbackToPublic(t *testing.T) {
	st := newRecordingStore()
	cache, err := New(st)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	base := key.BaseKey{Document: "{ me }"}
	st.setRaw(mustKey(t, base, key.ModeAuthenticatedPublic), []byte(`{"data":{"me":"shared"}}`))

	resp, hit, err := cache.Lookup(context.Background(), Request{Document: "{ me }"}, sessionContext(t, "u1"))
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if !hit {
		t.Fatal("Lookup() miss, want public fallback hit")
	}
	if string(resp.Data) != `{"me":"shared"}` {
		t.Errorf("Lookup() data = %s, want the public entry", resp.Data)
	}

	// Private partition probed first, public second.
	st.mu.Lock()
	defer st.mu.Unlock()
	if len(st.gets) != 2 {
		t.Fatalf("store gets = %d, want 2", len(st.gets))
	}
	if st.gets[0] != mustPrivateKey(t, base, "u1") {
		t.Errorf("first probe = %s, want the private key", st.gets[0])
	}
}

func TestLookup_SessionsDoNotShareAnonymousEntries(t *testing.T) {
	st := newRecordingStore()
	cache, err := New(st)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	base := key.BaseKey{Document: "{ me }"}
	st.setRaw(mustKey(t, base, key.ModeNoSession), []byte(`{"data":{"me":"anon"}}`))

	_, hit, err := cache.Lookup(context.Background(), Request{Document: "{ me }"}, sessionContext(t, "u1"))
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if hit {
		t.Error("authenticated lookup must not hit the no-session partition")
	}
}

func TestLookup_UnclassifiedContext(t *testing.T) {
	cache, err := New(newRecordingStore())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		name string
		sc   *session.Context
	}{
		{"nil context", nil},
		{"zero context", &session.Context{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := cache.Lookup(context.Background(), Request{Document: "{ a }"}, tt.sc)
			if !errors.Is(err, ErrNotClassified) {
				t.Errorf("Lookup() error = %v, want ErrNotClassified", err)
			}
		})
	}
}

func TestLookup_UndecodableEntryIsMiss(t *testing.T) {
	st := newRecordingStore()
	cache, err := New(st)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	base := key.BaseKey{Document: "{ a }"}
	st.setRaw(mustKey(t, base, key.ModeNoSession), []byte("{corrupt"))

	_, hit, err := cache.Lookup(context.Background(), Request{Document: "{ a }"}, anonymousContext(t))
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if hit {
		t.Error("undecodable entry should read as a miss")
	}
}

func TestLookup_UnkeyableRequestIsMiss(t *testing.T) {
	st := newRecordingStore()
	cache, err := New(st)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	req := Request{
		Document:  "{ a }",
		Variables: map[string]any{"ch": make(chan int)},
	}

	_, hit, err := cache.Lookup(context.Background(), req, anonymousContext(t))
	if err != nil {
		t.Fatalf("Lookup() error = %v, unkeyable requests are served uncached", err)
	}
	if hit {
		t.Error("unkeyable request should read as a miss")
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if len(st.gets) != 0 {
		t.Errorf("store probed with an unkeyable request: %v", st.gets)
	}
}

func TestLookup_ExtraDataPartitionsEntries(t *testing.T) {
	st := newRecordingStore()
	cache, err := New(st)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// An entry written without extra data...
	st.setRaw(mustKey(t, key.BaseKey{Document: "{ a }"}, key.ModeNoSession), []byte(`{"data":{"a":1}}`))

	// ...is invisible to a request classified with extra data.
	classifier := session.NewClassifier(
		session.WithExtraDataHook(func(ctx context.Context) (any, error) {
			return map[string]any{"locale": "fi"}, nil
		}),
	)
	sc, err := classifier.Classify(context.Background())
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}

	_, hit, err := cache.Lookup(context.Background(), Request{Document: "{ a }"}, sc)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if hit {
		t.Error("extra cache key data must partition entries")
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	for _, k := range st.gets {
		if !strings.HasPrefix(k, "fqc:") {
			t.Errorf("store key %q lacks the fqc: namespace", k)
		}
	}
}
