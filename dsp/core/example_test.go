package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-pedalfx/dsp/core"
)

func ExampleApplyProcessorOptions() {
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(48000),
		core.WithBlockSize(256),
	)

	fmt.Printf("sampleRate=%.0f blockSize=%d channels=%d\n", cfg.SampleRate, cfg.BlockSize, cfg.Channels)

	// Output:
	// sampleRate=48000 blockSize=256 channels=2
}

func ExampleBipolarModulation() {
	fmt.Println(core.BipolarModulation(-1, 16, 1600))
	fmt.Println(core.BipolarModulation(1, 16, 1600))

	// Output:
	// 16
	// 1600
}
