package billplz

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// signatureField carries the provider's HMAC in every callback.
const signatureField = "x_signature"

// ComputeSignature returns the X Signature Billplz would send for fields.
// The signature field itself is ignored if present.
func ComputeSignature(fields map[string]string, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(signatureSource(fields)))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether fields carry a valid x_signature for secret.
// A missing or empty signature is never valid.
func VerifySignature(fields map[string]string, secret string) bool {
	provided, ok := fields[signatureField]
	if !ok || provided == "" {
		return false
	}
	expected := ComputeSignature(fields, secret)
	return hmac.Equal([]byte(expected), []byte(provided))
}

// signatureSource joins name+value pairs with "|" after sorting names
// case-insensitively. Names differing only in case keep a stable order.
func signatureSource(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == signatureField {
			continue
		}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		li, lj := strings.ToLower(keys[i]), strings.ToLower(keys[j])
		if li != lj {
			return li < lj
		}
		return keys[i] < keys[j]
	})

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(k)
		b.WriteString(fields[k])
	}
	return b.String()
}
