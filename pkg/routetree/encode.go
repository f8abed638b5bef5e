package routetree

import (
	"net/url"
	"strings"
)

// Encoding selects how URL parameter values are percent-encoded when paths
// are built and decoded when paths are matched.
type Encoding string

const (
	// EncodingDefault escapes characters that cannot appear in a path
	// segment and decodes any percent escape on match.
	EncodingDefault Encoding = "default"

	// EncodingURI escapes only characters that are invalid anywhere in a
	// URI (spaces, control characters, quotes).
	EncodingURI Encoding = "uri"

	// EncodingURIComponent escapes every reserved character, the way a
	// query component is escaped.
	EncodingURIComponent Encoding = "uriComponent"

	// EncodingNone performs no encoding or decoding.
	EncodingNone Encoding = "none"

	// EncodingLegacy reproduces the historical behavior: component
	// escaping on build, plain unescaping on match.
	EncodingLegacy Encoding = "legacy"
)

// uriUnescaped lists characters EncodingURI leaves untouched beyond the
// unreserved set.
const uriUnescaped = "!#$&'()*+,/:;=?@[]-._~"

func encodeParam(v string, e Encoding) string {
	switch e {
	case EncodingNone:
		return v
	case EncodingURIComponent, EncodingLegacy:
		return strings.ReplaceAll(url.QueryEscape(v), "+", "%20")
	case EncodingURI:
		return escapeExcept(v, uriUnescaped)
	default:
		return url.PathEscape(v)
	}
}

func decodeParam(v string, e Encoding) (string, error) {
	switch e {
	case EncodingNone:
		return v, nil
	case EncodingURIComponent:
		return url.QueryUnescape(v)
	default:
		return url.PathUnescape(v)
	}
}

const upperhex = "0123456789ABCDEF"

// escapeExcept percent-encodes every byte that is neither unreserved nor
// listed in keep.
func escapeExcept(s, keep string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) || strings.IndexByte(keep, c) >= 0 {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0xf])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	return c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' ||
		c == '-' || c == '.' || c == '_' || c == '~'
}
