package httpeng

import (
	"strings"

	"uplink/pkg/request"
)

// ParseStatus extracts the status code from a captured response head.
// Two forms are recognized, tried in order:
//
//	"200 OK ..."          status code leads the capture
//	"HTTP/1.1 200 OK ..." status code is the 3 characters after the
//	                      first space
//
// A capture without a space, a first space past the usable capacity, or
// a head matching neither form yields StatusNone.
func ParseStatus(header string) request.Status {
	first := strings.IndexByte(header, ' ')
	if first < 0 || first > headerCap {
		return request.StatusNone
	}
	if code := leadingInt(header[:first]); code != 0 {
		return request.Status(code)
	}
	rest := header[first+1:]
	if len(rest) > 3 {
		rest = rest[:3]
	}
	return request.Status(leadingInt(rest))
}

// leadingInt parses the leading decimal digits of s, 0 when there are
// none. Trailing garbage is ignored, matching the device string-to-int
// primitive both parse forms were written against.
func leadingInt(s string) int {
	n := 0
	ok := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
		ok = true
	}
	if !ok {
		return 0
	}
	return n
}
