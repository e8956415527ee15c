package storage

import (
	"context"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/san-kum/gravsnap/internal/dynamo"
	"golang.org/x/sync/errgroup"
)

const (
	// UnboundedDigits pads frame numbers when the frame count is unknown.
	UnboundedDigits = 6
	// MaxGIFFrames caps how many frames a GIFSink keeps in memory.
	MaxGIFFrames = 500
	gifFile      = "output.gif"
)

// Digits returns the zero padding used for a run of the given length.
func Digits(frames int) int {
	if frames <= 0 {
		return UnboundedDigits
	}
	return int(math.Floor(math.Log10(float64(frames)))) + 1
}

// FrameName inserts a zero-padded frame number before the extension of
// name: "snap.png" becomes "snap_007.png" for index 7 and 3 digits.
func FrameName(name string, index, digits int) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	if ext == "" {
		ext = ".png"
	}
	return fmt.Sprintf("%s_%0*d%s", base, digits, index, ext)
}

// PNGSink writes every frame as a numbered PNG. Encoding runs in the
// background on copies of the frames; Close waits for all writes. The
// writes do not follow the run context, so a frame the sequencer finished
// before a cancellation still reaches disk.
type PNGSink struct {
	dir    string
	name   string
	digits int

	g     errgroup.Group
	mu    sync.Mutex
	paths []string
	err   error
}

func NewPNGSink(dir, name string, frames, workers int) *PNGSink {
	s := &PNGSink{
		dir:    dir,
		name:   name,
		digits: Digits(frames),
	}
	s.g.SetLimit(dynamo.Workers(workers))
	return s
}

func (s *PNGSink) Emit(_ context.Context, index int, frame *dynamo.Frame) error {
	// surface an earlier write failure instead of queueing more frames
	s.mu.Lock()
	err := s.err
	s.mu.Unlock()
	if err != nil {
		return err
	}

	path := filepath.Join(s.dir, FrameName(s.name, index, s.digits))
	img := frame.RGBA()
	s.g.Go(func() error {
		if err := writePNG(path, img); err != nil {
			s.mu.Lock()
			if s.err == nil {
				s.err = err
			}
			s.mu.Unlock()
			return err
		}
		return nil
	})

	s.mu.Lock()
	s.paths = append(s.paths, path)
	s.mu.Unlock()
	return nil
}

func (s *PNGSink) Closed() bool { return false }

// Close waits for pending writes and returns the first failure.
func (s *PNGSink) Close() error {
	return s.g.Wait()
}

// Paths lists the files scheduled so far, in emit order.
func (s *PNGSink) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.paths...)
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// SavePNG writes a single frame without numbering.
func SavePNG(path string, frame *dynamo.Frame) error {
	return writePNG(path, frame.RGBA())
}

// GIFSink collects dithered frames and writes output.gif on Close.
type GIFSink struct {
	path   string
	delay  int
	limit  int
	frames []*image.Paletted
}

func NewGIFSink(dir string, delay int) *GIFSink {
	return &GIFSink{
		path:  filepath.Join(dir, gifFile),
		delay: delay,
		limit: MaxGIFFrames,
	}
}

func (s *GIFSink) Path() string { return s.path }

func (s *GIFSink) Emit(_ context.Context, _ int, frame *dynamo.Frame) error {
	if len(s.frames) >= s.limit {
		return nil
	}
	s.frames = append(s.frames, toPaletted(frame))
	return nil
}

func (s *GIFSink) Closed() bool { return false }

func (s *GIFSink) Len() int { return len(s.frames) }

func (s *GIFSink) Close() error {
	if len(s.frames) == 0 {
		return nil
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range s.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, s.delay)
	}
	f, err := os.Create(s.path)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(f, &anim); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func toPaletted(frame *dynamo.Frame) *image.Paletted {
	bounds := frame.Bounds()
	img := image.NewPaletted(bounds, palette.Plan9)
	draw.FloydSteinberg.Draw(img, bounds, frame, image.Point{})
	return img
}
