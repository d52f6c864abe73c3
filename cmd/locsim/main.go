// Locsim is a location simulation utility.
//
// It runs a terminal map controller: pick a location on a map surface, start
// the simulation, jump to coordinates or saved favorites. Map surfaces (a
// browser page or a phone on the same network) connect to the built-in
// WebSocket bridge, which is advertised over mDNS.
//
// Usage:
//
//	locsim [command] [flags]
//
// Running without arguments opens the map controller.
// See 'locsim --help' for available commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/locsim/internal/bridge"
	"github.com/muurk/locsim/internal/discovery"
	"github.com/muurk/locsim/internal/logging"
	"github.com/muurk/locsim/internal/mapstate"
	"github.com/muurk/locsim/internal/tui"
	"github.com/muurk/locsim/internal/version"
)

// Environment variables read after .env is loaded. Flags win over both.
const (
	listenEnvVar = "LOCSIM_LISTEN"
	stateEnvVar  = "LOCSIM_STATE"
)

// Root command flags
var (
	listenAddr string
	noBridge   bool
	noMDNS     bool
	logLevel   string
	statePath  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "locsim",
	Short: "Location simulation map controller",
	Long: `A terminal controller for simulating the device location.

Pick a location on a connected map surface, then start the simulation.
Coordinates can also be entered directly or picked from saved favorites.

Map surfaces connect to the WebSocket bridge at ws://<host>:8787/ws, which
is advertised on the local network as _locsim._tcp.`,
	Version:           version.Full(),
	SilenceUsage:      true,
	PersistentPreRunE: prepare,
	RunE:              runMap,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); default from "+logging.LogLevelEnvVar)
	rootCmd.PersistentFlags().StringVar(&statePath, "state", "", "State file path (default: config dir)")

	rootCmd.Flags().StringVar(&listenAddr, "listen", bridge.DefaultConfig().Addr, "Map bridge listen address")
	rootCmd.Flags().BoolVar(&noBridge, "no-bridge", false, "Do not start the map bridge")
	rootCmd.Flags().BoolVar(&noMDNS, "no-mdns", false, "Do not advertise the map bridge over mDNS")

	rootCmd.AddCommand(versionCmd)
}

// prepare loads .env and applies environment defaults for unset flags
func prepare(cmd *cobra.Command, args []string) error {
	if err := loadEnv(); err != nil {
		return err
	}
	applyEnvDefaults(cmd)
	return nil
}

func runMap(cmd *cobra.Command, args []string) error {
	file, err := openState()
	if err != nil {
		return err
	}

	// The map screen owns the terminal, so logs go to a file next to the state
	logPath := filepath.Join(filepath.Dir(file.Path()), "locsim.log")
	if err := logging.InitializeWithOutput(logLevel, logPath); err != nil {
		return err
	}
	defer logging.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
	defer stop()

	store := mapstate.NewStore(ctx, file)
	defer func() { _ = store.Close() }()

	snap := file.Snapshot()
	store.Restore(snap.IsPlaying, snap.LastClickedCoordinate())

	var program *tea.Program
	var server *bridge.Server
	opts := tui.Options{Favorites: file}

	if !noBridge {
		config := bridge.DefaultConfig()
		config.Addr = listenAddr
		server = bridge.New(config, store, func(msg any) { program.Send(msg) })
		if err := server.Listen(); err != nil {
			return err
		}
		opts.Bridge = server
		store.Subscribe(server.PublishState)
		server.PublishState(store.State())
	}

	model := tui.NewModel(store, opts)
	defer model.Close()
	program = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if server != nil {
		go func() {
			if err := server.Serve(); err != nil {
				logging.Error("Map bridge stopped unexpectedly", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				logging.Warn("Map bridge shutdown incomplete", zap.Error(err))
			}
		}()

		if !noMDNS {
			ad, err := discovery.Advertise(discovery.InstanceName(), server.Port(), version.Version)
			if err != nil {
				logging.Warn("mDNS advertisement unavailable", zap.Error(err))
			} else {
				defer ad.Shutdown()
			}
		}
	}

	logging.Info("Map controller started",
		zap.String("state", file.Path()),
		zap.Bool("bridge", server != nil),
	)

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("map controller failed: %w", err)
	}
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("locsim %s\n", version.Full())
	},
}
