package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"runtime"
	"syscall"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"paneld/internal/config"
	"paneld/internal/display"
	"paneld/internal/ota"
	"paneld/internal/store"
	"paneld/internal/web"
)

var (
	BuildVersion   = "master"
	BuildCommit    = "00000000"
	BuildDate      = time.Now().Format("2006-01-02T15:04:05Z")
	BuildGoVersion = runtime.Version()

	displayKind string
	dbPath      string
	padPins     []string

	rootCmd = &cobra.Command{
		Use:   "paneld",
		Short: "Touch panel dashboard",
		Long:  `paneld - A touch dashboard for small network panels: sensors, system state, WiFi and OTA updates on a 300x168 screen`,
		RunE:  run,
	}

	versionCmd = &cobra.Command{
		Use:               "version",
		Short:             "Print version information",
		Long:              "Print detailed version information about paneld",
		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		Run:               version,
	}

	updateCmd = &cobra.Command{
		Use:   "update",
		Short: "Self-update to the latest release",
		Long:  "Checks for the latest release and replaces the running binary with it",
		Args:  cobra.NoArgs,
		RunE:  update,
	}
)

var errApp = errors.New("application error")

func main() {
	rootCmd.PersistentFlags().StringVar(&displayKind, "display", "auto",
		"Display backend (auto, fb, epd, term)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", config.Path(config.DefaultDBName),
		"Sensor log database path")
	rootCmd.PersistentFlags().StringSliceVar(&padPins, "pads", nil,
		"GPIO pin per touch zone, in zone order (empty entries skip a zone)")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)

	if err := fang.Execute(context.Background(), rootCmd); err != nil {
		slog.Error("Exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func version(_ *cobra.Command, _ []string) {
	fmt.Printf("paneld - Touch Panel Dashboard\n\n") //nolint:forbidigo
	fmt.Printf("  Version: %s\n", BuildVersion)      //nolint:forbidigo
	fmt.Printf("  Commit:  %s\n", BuildCommit)       //nolint:forbidigo
	fmt.Printf("  Built:   %s\n", BuildDate)         //nolint:forbidigo
	fmt.Printf("  Runtime: %s\n\n", BuildGoVersion)  //nolint:forbidigo
}

func update(cmd *cobra.Command, _ []string) error {
	installed, err := ota.New(BuildVersion).Apply(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Now on version %s\n", installed) //nolint:forbidigo

	return nil
}

// run is the main entry point of paneld.
func run(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Make sure our config & data home exists.
	if err := os.MkdirAll(path.Join(xdg.ConfigHome, config.ConfigDirName), 0o750); err != nil {
		return errors.Join(err, errApp)
	}

	configUpdates := make(chan config.Settings)
	loader := config.NewLoader(configUpdates)
	settings := config.NewStore(loader)
	settings.Load()

	// File based logger; the console belongs to the terminal simulator.
	logFile, errLogger := config.LoggerInit(config.DefaultLogName, settings.Settings().LogLevel)
	if errLogger != nil {
		return errors.Join(errLogger, errApp)
	}

	defer func(closer io.Closer) {
		if err := closer.Close(); err != nil {
			slog.Error("Failed to close log file", slog.String("error", err.Error()))
		}
	}(logFile)

	slog.Info("Starting paneld", slog.String("version", BuildVersion),
		slog.String("commit", BuildCommit), slog.String("date", BuildDate),
		slog.String("go", runtime.Version()))

	// Setup the sqlite sensor log.
	database, errDB := store.Open(ctx, dbPath, true)
	if errDB != nil {
		return errors.Join(errDB, errApp)
	}

	defer func() {
		if err := database.Close(); err != nil {
			slog.Error("Error closing database", slog.String("error", err.Error()))
		}
	}()

	panel, errDisplay := display.Open(displayKind)
	if errDisplay != nil {
		return errors.Join(errDisplay, errApp)
	}

	defer func() {
		if err := panel.Close(); err != nil {
			slog.Error("Error closing display", slog.String("error", err.Error()))
		}
	}()

	app := NewApp(settings, store.NewReadings(database), panel, configUpdates, padPins, BuildVersion)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return app.Run(groupCtx)
	})

	if settings.Settings().WebServerEnabled {
		server := web.New(settings.Settings().WebListenAddr, web.Deps{
			Version:  BuildVersion,
			Settings: settings,
			Readings: store.NewReadings(database),
			Status:   app.Status,
			Applied:  app.NotifySettingsApplied,
			Restart:  app.RequestRestart,
			Update:   app.ApplyUpdate,
		})
		group.Go(func() error {
			return server.Serve(groupCtx)
		})
	}

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return errors.Join(err, errApp)
	}

	return nil
}
