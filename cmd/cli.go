package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"spectro/internal/config"
)

// version is stamped with -ldflags "-X spectro/cmd.version=..." at
// release time.
var version = "dev"

// ParseArgs loads the YAML/env configuration, then parses command line
// flags on top of it. The returned Command field selects the run mode:
// "" for the live waterfall, "list" for device listing, "render" for
// offline WAV rendering.
func ParseArgs() (*config.Config, error) {
	// The config file must load before flag binding so flag defaults
	// (shown in --help) come from the loaded configuration.
	var configPath string
	for i, arg := range os.Args {
		if arg == "--config" && i+1 < len(os.Args) {
			configPath = os.Args[i+1]
		}
	}
	options, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	var serveAddr string

	rootCmd := &cobra.Command{
		Use:           "spectro",
		Short:         "Rolling log-frequency spectrogram for the terminal",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			options.Command = ""
			return nil
		},
	}
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List available audio input devices",
		Run: func(cmd *cobra.Command, args []string) {
			options.Command = "list"
		},
	}
	rootCmd.AddCommand(listCmd)

	renderCmd := &cobra.Command{
		Use:   "render <file.wav>",
		Short: "Render a WAV file as a one-shot spectrogram",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			options.Command = "render"
			options.RenderFile = args[0]
		},
	}
	rootCmd.AddCommand(renderCmd)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to a spectro.yaml configuration file")

	pf.IntVarP(&options.Audio.InputDevice, "device", "d", options.Audio.InputDevice,
		"Input device ID; use the 'list' command to see devices")
	pf.Float64VarP(&options.Audio.SampleRate, "sample-rate", "s", options.Audio.SampleRate,
		"Sample rate in Hertz (Hz)")
	pf.IntVarP(&options.Audio.Channels, "channels", "c", options.Audio.Channels,
		"Channels to capture (1=mono, 2=stereo)")
	pf.BoolVarP(&options.Audio.LowLatency, "low-latency", "l", options.Audio.LowLatency,
		"Request low latency from the input device")
	pf.Float64Var(&options.Audio.GateThreshold, "gate", options.Audio.GateThreshold,
		"Noise gate threshold in [0,1]; 0 disables")

	pf.IntVarP(&options.Spectrogram.FFTSize, "fft-size", "f", options.Spectrogram.FFTSize,
		"FFT size: 1024, 2048 or 4096")
	pf.Float64Var(&options.Spectrogram.MinFreq, "min-freq", options.Spectrogram.MinFreq,
		"Lower frequency bound of the axis (Hz)")
	pf.Float64Var(&options.Spectrogram.MaxFreq, "max-freq", options.Spectrogram.MaxFreq,
		"Upper frequency bound of the axis (Hz)")
	pf.IntVar(&options.Spectrogram.Capacity, "capacity", options.Spectrogram.Capacity,
		"Rolling window length, in slices")

	pf.StringVar(&serveAddr, "serve", "",
		"Also broadcast slices over websocket on this address")
	pf.BoolVarP(&options.Debug, "verbose", "v", options.Debug,
		"Show verbose output")

	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		return nil, err
	}

	if serveAddr != "" {
		options.Serve.Enabled = true
		options.Serve.Addr = serveAddr
	}
	if options.Debug {
		options.LogLevel = "debug"
	}

	// Flags may have moved values out of their validated ranges.
	if err := options.Validate(); err != nil {
		return nil, err
	}
	return options, nil
}
