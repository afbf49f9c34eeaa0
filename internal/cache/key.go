package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"strings"
)

// Kind names the type of artifact stored under a key
type Kind string

const (
	KindPriceHistory Kind = "history"
	KindFundamentals Kind = "fundamentals"
	KindExpirations  Kind = "expirations"
	KindOptionChain  Kind = "options"
)

// digestLen is the number of hex characters of the SHA-256 digest kept in a key.
const digestLen = 32

// ComputeKey derives the cache file name for one logical request.
//
// The readable prefix (source, kind, first param) only helps when browsing the
// directory. Uniqueness comes from the digest, which covers every component
// length-prefixed so ("AB", "C") and ("A", "BC") never collide.
func ComputeKey(source string, kind Kind, params ...string) string {
	h := sha256.New()
	var n [8]byte
	for _, part := range append([]string{source, string(kind)}, params...) {
		binary.BigEndian.PutUint64(n[:], uint64(len(part)))
		h.Write(n[:])
		h.Write([]byte(part))
	}
	digest := hex.EncodeToString(h.Sum(nil))[:digestLen]

	name := []string{sanitize(source), sanitize(string(kind))}
	if len(params) > 0 {
		name = append(name, sanitize(params[0]))
	}
	name = append(name, digest)
	return strings.Join(name, "_") + fileExt
}

// sanitize keeps a key component safe as part of a file name
func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
		if b.Len() >= 24 {
			break
		}
	}
	if b.Len() == 0 {
		return "-"
	}
	return b.String()
}
