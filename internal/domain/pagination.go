package domain

import (
	"encoding/base64"
	"strconv"
)

const (
	// DefaultMaxResults is the page size used when the client sends none.
	DefaultMaxResults = 50
	// MaxMaxResults caps the page size a client may ask for.
	MaxMaxResults = 500
)

// PageRequest carries list pagination. PageToken is an opaque encoded offset.
type PageRequest struct {
	MaxResults int
	PageToken  string
}

// Offset decodes the page token. Malformed tokens restart at the first page.
func (p PageRequest) Offset() int {
	if p.PageToken == "" {
		return 0
	}
	raw, err := base64.RawURLEncoding.DecodeString(p.PageToken)
	if err != nil {
		return 0
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Limit returns the page size clamped to [1, MaxMaxResults].
func (p PageRequest) Limit() int {
	switch {
	case p.MaxResults <= 0:
		return DefaultMaxResults
	case p.MaxResults > MaxMaxResults:
		return MaxMaxResults
	default:
		return p.MaxResults
	}
}

// EncodePageToken turns an offset into an opaque token. Offsets <= 0 encode
// to the empty string.
func EncodePageToken(offset int) string {
	if offset <= 0 {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}

// NextPageToken returns the token for the page after the current one, or ""
// when total has been reached.
func NextPageToken(offset, limit int, total int64) string {
	next := offset + limit
	if int64(next) >= total {
		return ""
	}
	return EncodePageToken(next)
}
