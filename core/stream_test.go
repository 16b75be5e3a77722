package core

import (
	"context"
	"errors"
	"io"
	"testing"
)

type chunkedReadCloser struct {
	chunks [][]byte
	err    error
	closed bool
}

func (r *chunkedReadCloser) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		return 0, io.EOF
	}
	n := copy(p, r.chunks[0])
	r.chunks = r.chunks[1:]
	return n, nil
}

func (r *chunkedReadCloser) Close() error {
	r.closed = true
	return nil
}

func TestTextStreamForwardsChunksInOrder(t *testing.T) {
	body := &chunkedReadCloser{chunks: [][]byte{[]byte("foo"), []byte("bar"), []byte("baz")}}
	s := newTextStream(context.Background(), body)

	var got string
	for chunk := range s.Ch {
		got += chunk.Text
	}
	if got != "foobarbaz" {
		t.Errorf("chunks = %q, want foobarbaz", got)
	}

	final, ok := <-s.Final
	if !ok || final != "foobarbaz" {
		t.Errorf("Final = %q (ok=%v), want foobarbaz", final, ok)
	}
	if !body.closed {
		t.Error("body not closed after stream end")
	}
}

func TestTextStreamForwardsError(t *testing.T) {
	body := &chunkedReadCloser{chunks: [][]byte{[]byte("partial")}, err: errors.New("reset by peer")}
	s := newTextStream(context.Background(), body)

	_, err := DrainText(context.Background(), s)
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("DrainText() error = %v, want ErrNetwork", err)
	}
}

func TestDrainTextNilStream(t *testing.T) {
	if _, err := DrainText(context.Background(), nil); !errors.Is(err, ErrBadRequest) {
		t.Fatalf("DrainText(nil) error = %v, want ErrBadRequest", err)
	}
}

func TestDrainTextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	body := &chunkedReadCloser{chunks: [][]byte{[]byte("x")}}
	s := newTextStream(context.Background(), body)

	if _, err := DrainText(ctx, s); !errors.Is(err, context.Canceled) {
		t.Fatalf("DrainText() error = %v, want context.Canceled", err)
	}
}
