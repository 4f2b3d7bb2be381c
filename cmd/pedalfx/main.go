// Command pedalfx renders audio through the phaser/flanger pedal board.
//
// Usage:
//
//	pedalfx [flags]
//
// Without -in a sawtooth test tone is generated. The result is written to
// a WAV file (-out file.wav), streamed as raw float32 PCM to a pipe
// (-out -), or played on the default sound device (-play).
//
// Examples:
//
//	pedalfx -in guitar.wav -out jet.wav -set flanger.feedback=90
//	pedalfx -preset slow.json -play
//	pedalfx -response phaser -set phaser.intensity=0
//	pedalfx -list
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/GeoffreyPlitt/debuggo"

	"github.com/cwbudde/algo-pedalfx/dsp/core"
	"github.com/cwbudde/algo-pedalfx/pedal"
)

var cliDebug = debuggo.Debug("pedalfx:cli")

var errUsage = errors.New("nothing to do: use -out, -play, -response or -list")

// settings collects repeated -set name=value flags.
type settings []setting

type setting struct {
	id    pedal.ParamID
	value float64
}

func (s *settings) String() string {
	parts := make([]string, len(*s))
	for i, v := range *s {
		parts[i] = fmt.Sprintf("%s=%g", v.id, v.value)
	}

	return strings.Join(parts, ",")
}

func (s *settings) Set(raw string) error {
	name, value, ok := strings.Cut(raw, "=")
	if !ok {
		return fmt.Errorf("expected name=value, got %q", raw)
	}

	id, err := pedal.ParseParamID(name)
	if err != nil {
		return err
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fmt.Errorf("parameter %s: %w", id, err)
	}

	*s = append(*s, setting{id: id, value: v})

	return nil
}

type options struct {
	in         string
	out        string
	play       bool
	response   string
	preset     string
	savePreset string
	list       bool
	set        settings
	sampleRate float64
	toneHz     float64
	duration   time.Duration
	fftSize    int
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout io.Writer, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}

		return 2
	}

	err = execute(opts, stdout)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	return 0
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("pedalfx", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.in, "in", "", "input WAV file (default: generated sawtooth tone)")
	fs.StringVar(&opts.out, "out", "", "output WAV file, or - for raw float32 PCM on stdout")
	fs.BoolVar(&opts.play, "play", false, "play the result on the default sound device")
	fs.StringVar(&opts.response, "response", "", "print the notch table of phaser or flanger and exit")
	fs.StringVar(&opts.preset, "preset", "", "load parameter values from a JSON preset")
	fs.StringVar(&opts.savePreset, "save-preset", "", "write the final parameter values to a JSON preset")
	fs.BoolVar(&opts.list, "list", false, "list the board parameters and exit")
	fs.Var(&opts.set, "set", "set a parameter, name=value (repeatable)")
	fs.Float64Var(&opts.sampleRate, "rate", 44100, "sample rate of the generated tone and of -response")
	fs.Float64Var(&opts.toneHz, "tone", 110, "frequency of the generated sawtooth in Hz")
	fs.DurationVar(&opts.duration, "duration", 5*time.Second, "length of the generated tone")
	fs.IntVar(&opts.fftSize, "fft", 8192, "FFT size for -response")
	fs.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "Usage: pedalfx [flags]\n\n")
		_, _ = fmt.Fprintf(stderr, "Renders audio through a phaser and a flanger in series.\n\n")
		_, _ = fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
		_, _ = fmt.Fprintf(stderr, "\nExamples:\n")
		_, _ = fmt.Fprintf(stderr, "  pedalfx -in guitar.wav -out jet.wav -set flanger.feedback=90\n")
		_, _ = fmt.Fprintf(stderr, "  pedalfx -preset slow.json -play\n")
		_, _ = fmt.Fprintf(stderr, "  pedalfx -response phaser -set phaser.intensity=0\n")
		_, _ = fmt.Fprintf(stderr, "  pedalfx -list\n")
	}

	err := fs.Parse(args)
	if err != nil {
		return options{}, err
	}

	if fs.NArg() > 0 {
		_, _ = fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		fs.Usage()

		return options{}, errUsage
	}

	return opts, nil
}

func execute(opts options, stdout io.Writer) error {
	if opts.list {
		return printParams(stdout)
	}

	if opts.out != "" && opts.play {
		return errors.New("-out and -play are mutually exclusive")
	}

	if opts.out == "" && !opts.play && opts.response == "" && opts.savePreset == "" {
		return errUsage
	}

	src, format, closeSrc, err := openSource(opts)
	if err != nil {
		return err
	}
	defer closeSrc()

	sampleRate := float64(format.SampleRate)
	if opts.response != "" {
		sampleRate = opts.sampleRate
	}

	board, err := pedal.NewBoard(
		core.WithSampleRate(sampleRate),
		core.WithChannels(format.NumChannels),
	)
	if err != nil {
		return err
	}

	err = configureBoard(board, opts)
	if err != nil {
		return err
	}

	if opts.savePreset != "" {
		err = savePreset(board, opts.savePreset)
		if err != nil {
			return err
		}
	}

	if opts.response != "" {
		return printResponse(stdout, board, opts.response, opts.fftSize)
	}

	stream := board.Streamer(src)

	switch {
	case opts.play:
		return play(stream, format)
	case opts.out == "-":
		return writeRaw(stdout, stream)
	case opts.out != "":
		return writeWAV(opts.out, stream, format)
	}

	return nil
}

func configureBoard(board *pedal.Board, opts options) error {
	if opts.preset != "" {
		f, err := os.Open(opts.preset)
		if err != nil {
			return err
		}
		defer f.Close()

		p, err := pedal.LoadPreset(f)
		if err != nil {
			return fmt.Errorf("%s: %w", opts.preset, err)
		}

		err = p.Apply(board)
		if err != nil {
			return err
		}

		cliDebug("loaded preset %q from %s", p.Name, opts.preset)
	}

	for _, s := range opts.set {
		err := board.SetParam(s.id, s.value)
		if err != nil {
			return err
		}

		cliDebug("set %s=%g (stored %g)", s.id, s.value, board.Param(s.id))
	}

	return nil
}

func savePreset(board *pedal.Board, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	name := strings.TrimSuffix(filepath.Base(path), ".json")

	err = pedal.NewPreset(name, board).Save(f)
	if err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}
