package bingx

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Sign canonicalizes params by sorting keys lexicographically, joining
// key=value pairs with '&', and returns that query string together with
// its hex-encoded HMAC-SHA256 under secret. The result depends only on
// the parameter set, never on insertion order. The signature itself is
// appended to the outgoing query by the caller and is not signed over.
func Sign(params map[string]string, secret string) (query, signature string) {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}
	query = b.String()

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(query))
	return query, hex.EncodeToString(mac.Sum(nil))
}
