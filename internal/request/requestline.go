package request

import (
	"fmt"
	"strings"
)

// parseRequestLine parses: METHOD PATH [VERSION]
// Query strings and fragments stay part of the path, nothing is decoded.
func parseRequestLine(line string) (string, string, string, error) {
	parts := strings.Fields(line)
	if len(parts) < 2 {
		return "", "", "", fmt.Errorf("%w: %q", ErrMalformedRequestLine, line)
	}

	method := parts[0]
	path := parts[1]

	version := ""
	if len(parts) > 2 {
		version = parts[2]
	}

	return method, path, version, nil
}
