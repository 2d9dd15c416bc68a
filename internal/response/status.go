package response

import "strconv"

// StatusCode represents HTTP status codes
type StatusCode int

const (
	StatusOK               StatusCode = 200
	StatusCreated          StatusCode = 201
	StatusNotFound         StatusCode = 404
	StatusMethodNotAllowed StatusCode = 405
)

// statusText maps status codes to reason phrases
var statusText = map[StatusCode]string{
	StatusOK:               "OK",
	StatusCreated:          "Created",
	StatusNotFound:         "Not Found",
	StatusMethodNotAllowed: "Method Not Allowed",
}

// StatusText returns the reason phrase for a status code
func StatusText(code StatusCode) string {
	if text, ok := statusText[code]; ok {
		return text
	}
	return "Unknown Status"
}

// String renders the code the way it appears on the status line, e.g. "200 OK".
func (code StatusCode) String() string {
	return strconv.Itoa(int(code)) + " " + StatusText(code)
}
