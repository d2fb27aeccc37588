package httpeng

import (
	"strings"
	"testing"

	"uplink/pkg/request"
)

func TestParseStatus(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   request.Status
	}{
		{"bare code", "200 OK\n", 200},
		{"full status line", "HTTP/1.1 404 Not Found\n", 404},
		{"full status line 200", "HTTP/1.1 200 OK\n", 200},
		{"empty", "", 0},
		{"no space", "garbage-without-spaces", 0},
		{"space beyond capacity", strings.Repeat("x", headerCap+1) + " 200", 0},
		{"neither form", "HTTP/1.1 xyz\n", 0},
		{"code only", "503", 0}, // no space at all
		{"truncated token", "HTTP/1.1", 0},
	}
	for _, c := range cases {
		if got := ParseStatus(c.header); got != c.want {
			t.Fatalf("%s: ParseStatus(%q) = %d, want %d", c.name, c.header, got, c.want)
		}
	}
}

func TestLeadingInt(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"200", 200},
		{"200 OK", 200},
		{"404x", 404},
		{"HTTP/1.1", 0},
		{"", 0},
		{"007", 7},
	}
	for _, c := range cases {
		if got := leadingInt(c.in); got != c.want {
			t.Fatalf("leadingInt(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestBoundedBufferDiscardPolicy(t *testing.T) {
	b := NewBoundedBuffer(4)
	for i, c := range []byte("abcdef") {
		kept := b.Append(c)
		if want := i < 4; kept != want {
			t.Fatalf("Append #%d kept=%v, want %v", i, kept, want)
		}
	}
	if b.String() != "abcd" {
		t.Fatalf("buffer = %q, want %q", b.String(), "abcd")
	}
	if b.Len() != 4 || b.Cap() != 4 || b.Discarded() != 2 {
		t.Fatalf("len=%d cap=%d discarded=%d", b.Len(), b.Cap(), b.Discarded())
	}
}
