package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-pedalfx/dsp/effects/modulation"
	"github.com/cwbudde/algo-pedalfx/measure/response"
	"github.com/cwbudde/algo-pedalfx/pedal"
)

const notchDepthDB = 20.0

func printParams(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "Name\tMin\tMax\tDefault\tUnit\n")
	_, _ = fmt.Fprintf(tw, "----\t---\t---\t-------\t----\n")

	for _, info := range pedal.Params() {
		unit := info.Unit
		if info.Toggle {
			unit = "on/off"
		}

		_, _ = fmt.Fprintf(tw, "%s\t%g\t%g\t%g\t%s\n", info.Name, info.Min, info.Max, info.Default, unit)
	}

	return tw.Flush()
}

// printResponse measures one engine of board with its LFO frozen at the
// start phase and prints the notches it produces.
func printResponse(w io.Writer, board *pedal.Board, kind string, size int) error {
	var (
		proc response.Processor
		err  error
	)

	sampleRate := board.SampleRate()

	switch strings.ToLower(kind) {
	case "phaser":
		params := board.Phaser().Parameters()
		params.RateHz = 0

		var p *modulation.Phaser

		p, err = modulation.NewPhaser(modulation.WithPhaserParameters(params))
		if err == nil {
			err = p.Reset(sampleRate, 1)
		}

		proc = p
	case "flanger":
		params := board.Flanger().Parameters()
		params.RateHz = 0

		var f *modulation.Flanger

		f, err = modulation.NewFlanger(modulation.WithFlangerParameters(params))
		if err == nil {
			err = f.Reset(sampleRate, 1)
		}

		proc = f
	default:
		return fmt.Errorf("unknown -response %q: want phaser or flanger", kind)
	}

	if err != nil {
		return err
	}

	resp, err := response.Measure(proc, sampleRate, size)
	if err != nil {
		return err
	}

	notches := response.Notches(resp, notchDepthDB)
	cliDebug("%s: %d notches deeper than %.0f dB", kind, len(notches), notchDepthDB)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "Notch\tFrequency [Hz]\tLevel [dB]\tDepth [dB]\n")
	_, _ = fmt.Fprintf(tw, "-----\t--------------\t----------\t----------\n")

	for i, n := range notches {
		_, _ = fmt.Fprintf(tw, "%d\t%.1f\t%.1f\t%.1f\n", i+1, n.FrequencyHz, n.LevelDB, n.DepthDB)
	}

	return tw.Flush()
}
