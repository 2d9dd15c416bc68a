package request

import (
	"errors"
	"fmt"
	"io"
)

// readBody reads a fixed-length body. A missing or non-numeric Content-Length
// means there is nothing to read. Bodies declared on methods that do not
// carry one are consumed and dropped so the next request starts on a clean
// boundary.
func (r *Reader) readBody(req *Request) error {
	cl := req.ContentLength()
	if cl < 0 {
		return nil
	}

	if r.MaxBodyBytes > 0 && cl > r.MaxBodyBytes {
		return fmt.Errorf("%w: %d > %d", ErrBodyTooLarge, cl, r.MaxBodyBytes)
	}

	if !carriesBody(req.Method) {
		if _, err := io.CopyN(io.Discard, r.br, cl); err != nil {
			return fmt.Errorf("discard body: %w", unexpected(err))
		}
		return nil
	}

	body := make([]byte, cl)
	if _, err := io.ReadFull(r.br, body); err != nil {
		return fmt.Errorf("read body: %w", unexpected(err))
	}
	req.Body = body
	return nil
}

func unexpected(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
