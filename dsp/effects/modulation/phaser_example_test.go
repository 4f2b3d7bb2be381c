package modulation_test

import (
	"fmt"

	"github.com/cwbudde/algo-pedalfx/dsp/effects/modulation"
)

func ExamplePhaser_StageFrequency() {
	phaser, err := modulation.NewPhaser(
		modulation.WithPhaserRateHz(0),
		modulation.WithPhaserDepth(0),
	)
	if err != nil {
		fmt.Println("error")
		return
	}

	if err := phaser.Reset(44100, 2); err != nil {
		fmt.Println("error")
		return
	}

	// Without depth every stage settles at the centre of its band.
	phaser.Process(0, 0)

	for i := range modulation.PhaserStages {
		fmt.Printf("stage %d: %.1f Hz\n", i, phaser.StageFrequency(i))
	}
	// Output:
	// stage 0: 808.0 Hz
	// stage 1: 1666.5 Hz
	// stage 2: 2424.0 Hz
	// stage 3: 4949.0 Hz
}
