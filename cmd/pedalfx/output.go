package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"golang.org/x/term"
)

const pcmFrames = 1024

var errTerminalOutput = errors.New("refusing to write raw audio to a terminal; redirect stdout or use -out file.wav")

// pcmReader encodes a beep stream as interleaved float32 little-endian
// frames with channels samples each.
type pcmReader struct {
	src      beep.Streamer
	channels int
	frames   [][2]float64
	pending  []byte
	buf      []byte
	done     bool
}

func newPCMReader(src beep.Streamer, channels int) *pcmReader {
	channels = min(max(channels, 1), 2)

	return &pcmReader{
		src:      src,
		channels: channels,
		frames:   make([][2]float64, pcmFrames),
		buf:      make([]byte, 0, pcmFrames*channels*4),
	}
}

func (r *pcmReader) Read(p []byte) (int, error) {
	for len(r.pending) == 0 {
		if r.done {
			return 0, io.EOF
		}

		r.fill()
	}

	n := copy(p, r.pending)
	r.pending = r.pending[n:]

	return n, nil
}

func (r *pcmReader) fill() {
	n, ok := r.src.Stream(r.frames)
	if !ok {
		r.done = true
	}

	out := r.buf[:0]
	for _, frame := range r.frames[:n] {
		for ch := range r.channels {
			out = binary.LittleEndian.AppendUint32(out, math.Float32bits(float32(frame[ch])))
		}
	}

	r.buf = out
	r.pending = out
}

// writeRaw streams float32 PCM to w unless w is a terminal.
func writeRaw(w io.Writer, stream beep.Streamer) error {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return errTerminalOutput
	}

	n, err := io.Copy(w, newPCMReader(stream, 2))
	if err != nil {
		return fmt.Errorf("raw output: %w", err)
	}

	cliDebug("wrote %d bytes of raw PCM", n)

	return stream.Err()
}

// writeWAV renders stream to a WAV file at path.
func writeWAV(path string, stream beep.Streamer, format beep.Format) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	err = wav.Encode(f, stream, format)
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}

	cliDebug("wrote %s (%d Hz, %d channels)", path, format.SampleRate, format.NumChannels)

	return f.Close()
}
