package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"spectro/cmd"
	"spectro/internal/analysis"
	"spectro/internal/capture"
	"spectro/internal/config"
	applog "spectro/internal/log"
	"spectro/internal/spectro"
	"spectro/internal/transport"
	"spectro/internal/tui"
	"spectro/internal/wavein"
)

// main wires the pipeline: capture (or WAV file) into FFT analysis,
// into the spectrogram engine, into the terminal waterfall, with an
// optional websocket broadcast alongside.
// The engine's run goroutine is the only writer
// of the rolling buffer; the analysis tick path never blocks on it.
func main() {
	cfg, err := cmd.ParseArgs()
	if err != nil {
		applog.Fatalf("%v", err)
	}
	if level, ok := applog.ParseLevel(cfg.LogLevel); ok {
		applog.SetLevel(level)
	}

	switch cfg.Command {
	case "list":
		err = runList()
	case "render":
		err = runRender(cfg)
	default:
		err = runLive(cfg)
	}
	if err != nil {
		applog.Fatalf("%v", err)
	}
}

func runList() error {
	if err := capture.Initialize(); err != nil {
		return err
	}
	defer capture.Terminate()
	return capture.ListDevices(os.Stdout)
}

func runLive(cfg *config.Config) error {
	if err := capture.Initialize(); err != nil {
		return err
	}
	defer capture.Terminate()

	grad, err := cfg.ParseGradient()
	if err != nil {
		return err
	}

	var notify func(spectro.Slice)
	var broadcaster *transport.Broadcaster
	if cfg.Serve.Enabled {
		broadcaster = transport.NewBroadcaster(cfg.Serve.Addr)
		notify = broadcaster.Publish
	}

	engine, err := spectro.NewEngine(
		cfg.Spectrogram.Capacity,
		cfg.Spectrogram.SliceWidth,
		cfg.Spectrogram.SliceHeight,
		grad,
		notify,
	)
	if err != nil {
		return err
	}

	proc, err := analysis.NewProcessor(cfg.Metadata(), engine)
	if err != nil {
		return err
	}

	device, err := capture.InputDevice(cfg.Audio.InputDevice)
	if err != nil {
		return err
	}
	stream := capture.NewStream(device, cfg.Audio.Channels, cfg.Audio.SampleRate,
		cfg.Audio.LowLatency, cfg.Audio.GateThreshold, proc)
	if err := stream.Start(); err != nil {
		return err
	}

	// The waterfall owns the foreground; q or ctrl+c quits.
	_, teaErr := tea.NewProgram(
		tui.New(engine, cfg.Spectrogram.MinFreq, cfg.Spectrogram.MaxFreq),
		tea.WithAltScreen(),
	).Run()

	// Shutdown order matters: stop ticks, then the engine, then the
	// broadcaster the engine notifies.
	if err := stream.Stop(); err != nil {
		applog.Errorf("error stopping stream: %v", err)
	}
	if err := engine.Close(); err != nil {
		applog.Errorf("error closing engine: %v", err)
	}
	if broadcaster != nil {
		if err := broadcaster.Close(); err != nil {
			applog.Errorf("error closing broadcaster: %v", err)
		}
	}
	if dropped := engine.Dropped(); dropped > 0 {
		applog.Infof("dropped %d ticks during the session", dropped)
	}
	return teaErr
}

func runRender(cfg *config.Config) error {
	rate, channels, err := wavein.Info(cfg.RenderFile)
	if err != nil {
		return err
	}
	applog.Infof("render: %s (%.0f Hz, %d ch)", cfg.RenderFile, rate, channels)

	meta := cfg.Metadata()
	meta.SampleRate = rate

	grad, err := cfg.ParseGradient()
	if err != nil {
		return err
	}

	var notify func(spectro.Slice)
	var broadcaster *transport.Broadcaster
	if cfg.Serve.Enabled {
		broadcaster = transport.NewBroadcaster(cfg.Serve.Addr)
		notify = broadcaster.Publish
	}

	engine, err := spectro.NewEngine(
		cfg.Spectrogram.Capacity,
		cfg.Spectrogram.SliceWidth,
		cfg.Spectrogram.SliceHeight,
		grad,
		notify,
	)
	if err != nil {
		return err
	}

	proc, err := analysis.NewProcessor(meta, engine)
	if err != nil {
		return err
	}
	if err := wavein.Feed(cfg.RenderFile, proc); err != nil {
		return err
	}
	if err := engine.Close(); err != nil {
		return err
	}
	if broadcaster != nil {
		defer broadcaster.Close()
	}

	const rows = 40
	labels := engine.AxisLabels(meta.MinFreq, meta.MaxFreq, rows)
	fmt.Print(tui.RenderFrame(engine.Slices(), labels, cfg.Spectrogram.Capacity, rows))
	return nil
}
