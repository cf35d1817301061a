package bingx

import "testing"

func TestSignDeterministic(t *testing.T) {
	a := map[string]string{"symbol": "BTC-USDT", "timestamp": "1700000000000", "limit": "100"}
	b := map[string]string{"limit": "100", "symbol": "BTC-USDT", "timestamp": "1700000000000"}

	qa, sa := Sign(a, "secret")
	qb, sb := Sign(b, "secret")

	if qa != qb {
		t.Fatalf("query differs by insertion order: %q vs %q", qa, qb)
	}
	if sa != sb {
		t.Fatalf("signature differs by insertion order: %q vs %q", sa, sb)
	}
}

func TestSignCanonicalQuery(t *testing.T) {
	q, _ := Sign(map[string]string{"timestamp": "1", "limit": "100", "symbol": "BTC-USDT"}, "secret")
	want := "limit=100&symbol=BTC-USDT&timestamp=1"
	if q != want {
		t.Fatalf("query = %q, want %q", q, want)
	}
}

func TestSignHexDigest(t *testing.T) {
	_, sig := Sign(map[string]string{"timestamp": "1700000000000"}, "secret")
	if len(sig) != 64 {
		t.Fatalf("signature length = %d, want 64 hex chars", len(sig))
	}
	for _, r := range sig {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			t.Fatalf("signature contains non-hex rune %q", r)
		}
	}
}

func TestSignSecretSensitivity(t *testing.T) {
	params := map[string]string{"timestamp": "1700000000000"}
	_, s1 := Sign(params, "secret-one")
	_, s2 := Sign(params, "secret-two")
	if s1 == s2 {
		t.Fatal("different secrets produced the same signature")
	}
}
