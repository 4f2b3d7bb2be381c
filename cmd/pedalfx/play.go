//go:build !headless

package main

import (
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/gopxl/beep"
)

const pollInterval = 50 * time.Millisecond

// play streams to the default output device and blocks until the stream
// ends.
func play(stream beep.Streamer, format beep.Format) error {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   int(format.SampleRate),
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return fmt.Errorf("audio device: %w", err)
	}
	<-ready

	player := ctx.NewPlayer(newPCMReader(stream, 2))
	defer player.Close()

	cliDebug("playing at %d Hz", format.SampleRate)
	player.Play()

	for player.IsPlaying() {
		time.Sleep(pollInterval)
	}

	if err := player.Err(); err != nil {
		return fmt.Errorf("playback: %w", err)
	}

	return stream.Err()
}
