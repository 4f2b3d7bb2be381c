//go:build headless

package main

import (
	"errors"

	"github.com/gopxl/beep"
)

func play(beep.Streamer, beep.Format) error {
	return errors.New("playback is not available in headless builds")
}
