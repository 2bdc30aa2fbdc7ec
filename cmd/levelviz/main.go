package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/soniq/levelviz/internal/audio"
	"github.com/soniq/levelviz/internal/config"
	"github.com/soniq/levelviz/internal/fileops"
	"github.com/soniq/levelviz/internal/level"
	"github.com/soniq/levelviz/internal/logger"
	"github.com/soniq/levelviz/internal/types"
	"github.com/soniq/levelviz/internal/ui"
	"golang.org/x/sync/errgroup"
)

func main() {
	record := flag.Bool("record", false, "Save the session to a WAV recording")
	output := flag.String("output", "", "Write the recording to this path instead of the recordings directory (implies --record)")
	style := flag.String("style", "bar", "Meter style to drive (from the styles section of the config)")
	noUI := flag.Bool("no-ui", false, "Log levels instead of drawing the meter")
	list := flag.Bool("list", false, "List saved recordings and exit")
	del := flag.String("delete", "", "Delete the named recording and exit")
	configPath := flag.String("config", "", "Load configuration from this file instead of the config directory")
	logLevel := flag.String("log-level", "info", "Set log level (debug|info|warn|error)")
	logFilename := flag.String("log-filename", "", "Log to file instead of stderr")
	flag.Parse()

	logger.SetLevel(*logLevel)
	if *logFilename != "" {
		if err := logger.SetOutputFile(*logFilename); err != nil {
			fmt.Printf("Error setting log file: %v\n", err)
			os.Exit(1)
		}
		defer logger.CloseLogFile()
	} else if !*noUI {
		// The meter owns the terminal; keep stderr quiet unless asked to
		// log to a file.
		logger.SetLevel("error")
	}

	if *list {
		if err := listRecordings(); err != nil {
			logger.Error("Failed to list recordings", err)
			os.Exit(1)
		}
		return
	}
	if *del != "" {
		if err := deleteRecording(*del); err != nil {
			logger.Error("Failed to delete recording", err)
			os.Exit(1)
		}
		return
	}

	var cfg *types.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadConfigPath(*configPath)
	} else {
		cfg, err = config.EnsureConfig()
	}
	if err != nil {
		logger.Error("Error loading config", err)
		os.Exit(1)
	}

	if _, ok := cfg.Styles[*style]; !ok {
		fmt.Printf("Unknown style %q; configured styles: %s\n", *style, strings.Join(styleNames(cfg), ", "))
		os.Exit(1)
	}

	if err := run(cfg, *style, *output, *record || *output != "", *noUI); err != nil {
		logger.Error("Session failed", err)
		os.Exit(1)
	}
}

func run(cfg *types.Config, style, output string, record, noUI bool) error {
	captureCfg := cfg.GetCaptureConfig()
	curve := cfg.GetCurveConfig()
	pipeline := level.NewPipeline(curve.Exponent, curve.Floor)

	var recorder *audio.Recorder
	var sink audio.BlockSink
	if record {
		var err error
		recorder, err = audio.NewRecorder(captureCfg.SampleRate, output)
		if err != nil {
			return err
		}
		recorder.Start()
		sink = recorder
	}

	capture := audio.NewCapture(captureCfg, pipeline, sink)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return capture.Run(ctx)
	})

	if noUI {
		g.Go(func() error {
			logMeter(ctx, pipeline.AddRenderer(config.TuningFor(cfg, style)))
			return nil
		})
	} else {
		model := ui.New(
			pipeline.AddRenderer(config.TuningFor(cfg, style)),
			pipeline.AddRenderer(config.TuningFor(cfg, "history")),
		)
		model.SetRecording(record)
		prog := tea.NewProgram(model, tea.WithAltScreen())

		g.Go(func() error {
			_, err := prog.Run()
			// Meter closed: wind the capture session down too.
			cancel()
			return err
		})
		g.Go(func() error {
			<-ctx.Done()
			prog.Quit()
			return nil
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if recorder != nil {
		result, err := recorder.Stop()
		if err != nil {
			return err
		}
		if result != nil {
			fmt.Printf("Saved %s (%.1fs)\n", result.Path, result.Duration.Seconds())
		}
	}
	return nil
}

// logMeter prints the smoothed level twice a second, for headless use.
func logMeter(ctx context.Context, r *level.Renderer) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			f := r.Query(now)
			logger.Infof("level %.3f peak %.3f", f.Value, f.Peak)
		}
	}
}

func listRecordings() error {
	fileOps, err := fileops.NewDefaultFileOps()
	if err != nil {
		return err
	}
	if err := fileOps.EnsureDirectories(); err != nil {
		return err
	}

	recordings, err := fileOps.ListRecordings()
	if err != nil {
		return err
	}
	if len(recordings) == 0 {
		fmt.Println("No recordings yet.")
		return nil
	}
	for _, name := range recordings {
		fmt.Println(name)
	}
	return nil
}

func deleteRecording(name string) error {
	fileOps, err := fileops.NewDefaultFileOps()
	if err != nil {
		return err
	}
	if err := fileOps.DeleteRecording(name); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", name)
	return nil
}

func styleNames(cfg *types.Config) []string {
	names := make([]string, 0, len(cfg.Styles))
	for name := range cfg.Styles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
