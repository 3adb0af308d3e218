package crypto

const hexDigits = "0123456789abcdef"

// HasHexPrefix reports whether the lowercase hex encoding of digest starts with
// hexPrefix. Nibbles are compared directly so the full hex string is never built.
// A prefix longer than the encoded digest never matches.
func HasHexPrefix(digest []byte, hexPrefix []byte) bool {
	if len(hexPrefix) > 2*len(digest) {
		return false
	}
	for i, c := range hexPrefix {
		b := digest[i/2]
		if i%2 == 0 {
			b >>= 4
		}
		if hexDigits[b&0xf] != c {
			return false
		}
	}
	return true
}
