package sim

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/san-kum/gravsnap/internal/dynamo"
)

// Sink receives finished frames. The frame buffer is reused by the
// sequencer, so a sink that keeps a frame past Emit must Clone it.
// Closed is polled at every frame boundary; once it reports true the run
// stops after the current frame.
type Sink interface {
	Emit(ctx context.Context, index int, frame *dynamo.Frame) error
	Closed() bool
}

type discard struct{}

func (discard) Emit(context.Context, int, *dynamo.Frame) error { return nil }
func (discard) Closed() bool                                    { return false }

// Discard accepts every frame and never closes.
var Discard Sink = discard{}

// FuncSink calls fn for every frame and reports closure once fn returns false.
type FuncSink struct {
	fn     func(index int, frame *dynamo.Frame) bool
	mu     sync.Mutex
	closed bool
}

func NewFuncSink(fn func(index int, frame *dynamo.Frame) bool) *FuncSink {
	return &FuncSink{fn: fn}
}

func (s *FuncSink) Emit(_ context.Context, index int, frame *dynamo.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return dynamo.ErrSinkClosed
	}
	if !s.fn(index, frame) {
		s.closed = true
	}
	return nil
}

func (s *FuncSink) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// MultiSink fans frames out to several sinks. It is closed as soon as any
// member is closed.
type MultiSink []Sink

func (m MultiSink) Emit(ctx context.Context, index int, frame *dynamo.Frame) error {
	for _, s := range m {
		if err := s.Emit(ctx, index, frame); err != nil {
			return err
		}
	}
	return nil
}

func (m MultiSink) Closed() bool {
	for _, s := range m {
		if s.Closed() {
			return true
		}
	}
	return false
}

// Close closes every member that implements io.Closer.
func (m MultiSink) Close() error {
	var errs []error
	for _, s := range m {
		if c, ok := s.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
