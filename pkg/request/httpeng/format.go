package httpeng

import (
	"strconv"
	"strings"
)

// FormatRequest builds the raw HTTP/1.1 request exactly as it goes on
// the wire, LF-framed. GET attaches the payload as a query string; any
// other method gets a Content-Length header and the payload as a body
// after a blank line. extraHeaders is inserted verbatim. A trailing
// newline terminates the request.
func FormatRequest(method, path, host, extraHeaders string, payload []byte) []byte {
	notGet := method != "GET"

	var b strings.Builder
	b.WriteString(method)
	b.WriteString(" /")
	b.WriteString(path)
	if !notGet {
		b.WriteString("?")
		b.Write(payload)
	}
	b.WriteString(" HTTP/1.1\n")
	b.WriteString("Host: ")
	b.WriteString(host)
	b.WriteString("\n")
	if notGet {
		b.WriteString("Content-Length: ")
		b.WriteString(strconv.Itoa(len(payload)))
		b.WriteString("\n")
	}
	if extraHeaders != "" {
		b.WriteString(extraHeaders)
	}
	if notGet {
		b.WriteString("\n")
		b.Write(payload)
	}
	b.WriteString("\n")
	return []byte(b.String())
}
