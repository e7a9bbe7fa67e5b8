package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rfidcam/camera"
	"rfidcam/console"
	"rfidcam/indicator"
	"rfidcam/ledger"
	"rfidcam/logging"
	"rfidcam/mqtt"
	"rfidcam/owners"
	"rfidcam/pipeline"
	"rfidcam/protocol"
	"rfidcam/reader"
)

var myBuild string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	run := func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cfgFile)
		if err != nil {
			return err
		}
		defer app.close()
		return app.run(cmd)
	}

	root := &cobra.Command{
		Use:           "rfidcam",
		Short:         "Photograph and log every RFID card scan",
		Version:       myBuild,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "rfidcam.yaml", "config file")

	root.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Read cards and capture a photo for each one (default)",
		Args:  cobra.NoArgs,
		RunE:  run,
	})

	root.AddCommand(&cobra.Command{
		Use:   "capture <uid>",
		Short: "Capture and log one photo as if the card had been scanned",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cfgFile)
			if err != nil {
				return err
			}
			defer app.close()
			return app.capture(cmd, strings.Join(args, " "))
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "lookup <uid>",
		Short: "Print the normalized UID and owner of a card",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(cfgFile)
			if err != nil {
				return err
			}
			dir, err := cfg.Directory()
			if err != nil {
				return err
			}
			uid := owners.Normalize(strings.Join(args, " "))
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", uid, dir.Lookup(uid))
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "log",
		Short: "Print the scan log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(cfgFile)
			if err != nil {
				return err
			}
			store, err := ledger.New(cfg.Log)
			if err != nil {
				return err
			}
			defer store.Close()

			rows, err := store.Rows()
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No scans logged in %s\n", cfg.Log.Path)
				return nil
			}
			return console.WriteRows(cmd.OutOrStdout(), rows)
		},
	})

	return root
}

// App holds the application state and dependencies.
type App struct {
	cfg    *Config
	log    *zap.Logger
	dir    *owners.Directory
	store  ledger.Store
	camera *camera.Service
}

func newApp(cfgFile string) (*App, error) {
	cfg, err := LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	app := &App{cfg: cfg, log: logger}

	app.dir, err = cfg.Directory()
	if err != nil {
		app.close()
		return nil, err
	}
	logger.Info("Owner directory loaded", zap.Int("cards", app.dir.Len()))

	if err := os.MkdirAll(cfg.PhotoDir, 0o755); err != nil {
		app.close()
		return nil, fmt.Errorf("create photo dir: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Log.Path), 0o755); err != nil {
		app.close()
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	app.store, err = ledger.New(cfg.Log)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("open log: %w", err)
	}

	dev, err := camera.New(cfg.Camera)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("init camera: %w", err)
	}
	app.camera = camera.NewService(dev, cfg.PhotoDir, cfg.Camera, logger.Named("camera"))

	return app, nil
}

func (app *App) worker(src pipeline.LineReader) *pipeline.Worker {
	return pipeline.NewWorker(pipeline.WorkerConfig{
		Source:    src,
		Directory: app.dir,
		Camera:    app.camera,
		Log:       app.store,
		Logger:    app.log.Named("worker"),
		IdleDelay: time.Duration(app.cfg.IdleDelayMs) * time.Millisecond,
		Buffer:    app.cfg.Buffer,
	})
}

// run processes cards until a signal arrives or the reader is lost.
func (app *App) run(cmd *cobra.Command) error {
	cfg := app.cfg
	app.log.Info("rfidcam starting", zap.String("build", myBuild))

	src, err := reader.New(cfg.Reader, app.log.Named("reader"))
	if err != nil {
		return err
	}
	var closeOnce sync.Once
	closeSource := func() {
		closeOnce.Do(func() {
			if err := src.Close(); err != nil {
				app.log.Debug("Reader close", zap.Error(err))
			}
		})
	}
	defer closeSource()
	app.log.Info("Reader connected", zap.String("device", cfg.Reader.Device))

	ind, err := indicator.New(cfg.Indicator)
	if err != nil {
		return fmt.Errorf("init indicator: %w", err)
	}
	lights := indicator.NewPresenter(ind, time.Duration(cfg.Indicator.HoldMs)*time.Millisecond)
	defer lights.Close()

	mq, err := mqtt.New(cfg.MQTT, cfg.ClientID, app.log)
	if err != nil {
		return fmt.Errorf("init MQTT: %w", err)
	}
	defer mq.Disconnect()
	status := mqtt.NewStatusPresenter(mq, cfg.ClientID)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := mq.Connect(); err != nil {
			app.log.Warn("MQTT connect", zap.Error(err))
		}
	}()
	if mq.IsEnabled() {
		go status.Ping(ctx, mqtt.PingInterval)
	}

	// Closing the source unblocks a read in progress.
	go func() {
		<-ctx.Done()
		closeSource()
	}()

	w := app.worker(src)
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	consumer := pipeline.NewConsumer(w.Results(), pipeline.Presenters{
		console.New(cmd.OutOrStdout()),
		lights,
		status,
	})
	// The worker closes the channel on every exit path, so this returns
	// once the last result has been shown.
	consumer.Run(context.Background(), time.Duration(cfg.PollIntervalMs)*time.Millisecond)

	err = <-done
	if errors.Is(err, context.Canceled) {
		app.log.Info("Shutdown complete")
		return nil
	}
	return err
}

// capture runs a single card through the pipeline without a reader.
func (app *App) capture(cmd *cobra.Command, uid string) error {
	res := app.worker(nil).Handle(protocol.CardEvent{UID: uid})
	console.New(cmd.OutOrStdout()).Present(res)
	return res.Err
}

func (app *App) close() {
	if app.store != nil {
		if err := app.store.Close(); err != nil {
			app.log.Warn("Close log", zap.Error(err))
		}
	}
	app.log.Sync()
}
