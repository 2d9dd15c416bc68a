package headers

import (
	"errors"
	"fmt"
	"strings"
)

// Separator splits a header line into name and value.
const Separator = ": "

var ErrMalformedHeader = errors.New("malformed header")

type field struct {
	name  string
	value string
}

// Headers is an insertion-ordered set of header fields. Names are
// case-sensitive and hold a single value; setting an existing name
// replaces its value in place.
type Headers struct {
	fields []field
	index  map[string]int
}

func NewHeaders() *Headers {
	return &Headers{
		index: make(map[string]int),
	}
}

// Get returns the value for a header
func (h *Headers) Get(name string) (string, bool) {
	i, ok := h.index[name]
	if !ok {
		return "", false
	}
	return h.fields[i].value, true
}

// Has reports whether the header is present
func (h *Headers) Has(name string) bool {
	_, ok := h.index[name]
	return ok
}

// Set replaces the value for a header, appending it if new
func (h *Headers) Set(name, value string) {
	if i, ok := h.index[name]; ok {
		h.fields[i].value = value
		return
	}
	h.index[name] = len(h.fields)
	h.fields = append(h.fields, field{name: name, value: value})
}

// Each calls fn for every header in insertion order.
func (h *Headers) Each(fn func(name, value string)) {
	for _, f := range h.fields {
		fn(f.name, f.value)
	}
}

// ParseLine parses a single "Name: Value" line (without the trailing CRLF)
// and stores it. A repeated name overwrites the earlier value.
func (h *Headers) ParseLine(line string) error {
	name, value, err := parseHeader(line)
	if err != nil {
		return err
	}
	h.Set(name, value)
	return nil
}

func parseHeader(line string) (string, string, error) {
	name, value, ok := strings.Cut(line, Separator)
	if !ok {
		return "", "", fmt.Errorf("%w: no separator in %q", ErrMalformedHeader, truncate(line))
	}
	return name, value, nil
}

func truncate(s string) string {
	if len(s) > 64 {
		return s[:64] + "..."
	}
	return s
}
