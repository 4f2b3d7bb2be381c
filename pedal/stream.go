package pedal

import (
	"github.com/gopxl/beep"

	"github.com/cwbudde/algo-pedalfx/dsp/core"
)

// boardStreamer runs a beep stream through a Board.
type boardStreamer struct {
	board *Board
	src   beep.Streamer

	left, right []float64
	planes      [2][]float64
}

// Streamer wraps src so that every streamed frame passes through the board.
// A mono board processes the average of both sides and writes it to both.
func (b *Board) Streamer(src beep.Streamer) beep.Streamer {
	return &boardStreamer{
		board: b,
		src:   src,
		left:  make([]float64, b.cfg.BlockSize),
		right: make([]float64, b.cfg.BlockSize),
	}
}

func (s *boardStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = s.src.Stream(samples)
	if n == 0 {
		return n, ok
	}

	s.left = core.EnsureLen(s.left, n)
	s.right = core.EnsureLen(s.right, n)

	if s.board.Channels() == 1 {
		for i := range n {
			s.left[i] = 0.5 * (samples[i][0] + samples[i][1])
		}

		s.planes[0] = s.left
		s.board.ProcessBlock(s.planes[:1])

		for i := range n {
			samples[i][0] = s.left[i]
			samples[i][1] = s.left[i]
		}

		return n, ok
	}

	for i := range n {
		s.left[i] = samples[i][0]
		s.right[i] = samples[i][1]
	}

	s.planes[0], s.planes[1] = s.left, s.right
	s.board.ProcessBlock(s.planes[:])

	for i := range n {
		samples[i][0] = s.left[i]
		samples[i][1] = s.right[i]
	}

	return n, ok
}

func (s *boardStreamer) Err() error {
	return s.src.Err()
}
