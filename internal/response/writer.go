package response

import (
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/Brownie44l1/httpserver/internal/request"
)

const EncodingGzip = "gzip"

var ErrAlreadyWritten = errors.New("response already written")

// Writer writes HTTP responses to an io.Writer
type Writer struct {
	w            io.Writer
	hadError     bool
	bytesWritten int64
}

// NewWriter creates a new response writer
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write finalizes resp against the request it answers and sends it. The
// header block and the body go out as two separate writes; an empty body is
// not written at all. req may be nil, in which case the connection is kept
// alive and no encoding is applied.
func (w *Writer) Write(resp *Response, req *request.Request) error {
	head, body, err := Encode(resp, req)
	if err != nil {
		return err
	}

	n, err := w.w.Write(head)
	w.bytesWritten += int64(n)
	if err != nil {
		w.hadError = true
		return fmt.Errorf("write headers: %w", err)
	}

	if len(body) == 0 {
		return nil
	}

	n, err = w.w.Write(body)
	w.bytesWritten += int64(n)
	if err != nil {
		w.hadError = true
		return fmt.Errorf("write body: %w", err)
	}
	return nil
}

// Encode computes the framing headers for resp and returns the serialized
// header block and the (possibly compressed) body. It marks resp as written.
func Encode(resp *Response, req *request.Request) ([]byte, []byte, error) {
	if resp.written {
		return nil, nil, ErrAlreadyWritten
	}
	resp.written = true

	connection := request.KeepAlive
	gzipOK := false
	if req != nil {
		connection = req.Connection
		gzipOK = req.AcceptsEncoding(EncodingGzip)
	}

	resp.Headers.Set("Connection", connection.String())

	body := resp.Body
	if gzipOK && len(body) > 0 {
		compressed, err := gzipBytes(body)
		if err != nil {
			return nil, nil, fmt.Errorf("gzip body: %w", err)
		}
		body = compressed
		resp.Headers.Set("Content-Encoding", EncodingGzip)
	}

	resp.Headers.Set("Content-Length", strconv.Itoa(len(body)))
	if !resp.Headers.Has("Content-Type") {
		resp.Headers.Set("Content-Type", ContentTypeText)
	}

	var head bytes.Buffer
	head.WriteString("HTTP/1.1 ")
	head.WriteString(resp.Status.String())
	head.WriteString("\r\n")
	resp.Headers.Each(func(name, value string) {
		head.WriteString(name)
		head.WriteString(": ")
		head.WriteString(value)
		head.WriteString("\r\n")
	})
	head.WriteString("\r\n")

	return head.Bytes(), body, nil
}

func gzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// State tracking methods for connection management

func (w *Writer) HadError() bool {
	return w.hadError
}

// BytesWritten is the total number of bytes sent through this writer.
func (w *Writer) BytesWritten() int64 {
	return w.bytesWritten
}
