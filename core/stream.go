package core

import (
	"context"
	"io"
	"strings"
)

// TextChunk is one increment of a streamed response body.
type TextChunk struct {
	Text string
}

// TextStream forwards a streamed response body as it arrives.
//
// Channel rules:
//   - Ch emits chunks in order and is closed when the stream ends
//   - Err emits at most one error, then all channels are closed
//   - Final emits the accumulated text exactly once on success
//
// The stream is single-pass and cannot be restarted.
type TextStream struct {
	Ch    <-chan TextChunk
	Err   <-chan error
	Final <-chan string
}

// streamBufSize is the read granularity for forwarding stream bodies.
const streamBufSize = 4096

// newTextStream forwards body through a TextStream, closing body when the
// stream ends or ctx is cancelled.
func newTextStream(ctx context.Context, body io.ReadCloser) *TextStream {
	chunkCh := make(chan TextChunk, 16)
	errCh := make(chan error, 1)
	finalCh := make(chan string, 1)

	go func() {
		defer body.Close()
		defer close(chunkCh)
		defer close(errCh)
		defer close(finalCh)

		var accumulated strings.Builder
		buf := make([]byte, streamBufSize)
		for {
			n, err := body.Read(buf)
			if n > 0 {
				text := string(buf[:n])
				accumulated.WriteString(text)
				select {
				case chunkCh <- TextChunk{Text: text}:
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				}
			}
			if err == io.EOF {
				finalCh <- accumulated.String()
				return
			}
			if err != nil {
				errCh <- &APIError{Message: err.Error(), Err: ErrNetwork}
				return
			}
		}
	}()

	return &TextStream{Ch: chunkCh, Err: errCh, Final: finalCh}
}

// DrainText consumes the stream and returns the full accumulated text.
// Blocks until the stream completes or ctx cancels.
func DrainText(ctx context.Context, s *TextStream) (string, error) {
	if s == nil {
		return "", ErrBadRequest
	}

	var accumulated strings.Builder
	ch := s.Ch
	for ch != nil {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case chunk, ok := <-ch:
			if !ok {
				ch = nil
				continue
			}
			accumulated.WriteString(chunk.Text)
		}
	}

	select {
	case err, ok := <-s.Err:
		if ok && err != nil {
			return "", err
		}
	default:
	}

	select {
	case final, ok := <-s.Final:
		if ok && final != "" {
			return final, nil
		}
	default:
	}

	return accumulated.String(), nil
}
