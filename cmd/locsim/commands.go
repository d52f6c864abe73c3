package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/muurk/locsim/internal/discovery"
	"github.com/muurk/locsim/internal/logging"
	"github.com/muurk/locsim/internal/mapstate"
	"github.com/muurk/locsim/internal/persistence"
	"github.com/muurk/locsim/internal/tui"
)

// Subcommand flags
var (
	scanTimeout int
	scanPlain   bool
)

func init() {
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(favoritesCmd)
	rootCmd.AddCommand(resetCmd)
}

// loadEnv reads .env from the working directory when there is one.
// Variables already set in the environment are kept.
func loadEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// applyEnvDefaults fills flags the user did not set from the environment.
func applyEnvDefaults(cmd *cobra.Command) {
	if v := os.Getenv(listenEnvVar); v != "" && !cmd.Flags().Changed("listen") {
		listenAddr = v
	}
	if v := os.Getenv(stateEnvVar); v != "" && !cmd.Flags().Changed("state") {
		statePath = v
	}
}

func openState() (*persistence.File, error) {
	if statePath != "" {
		return persistence.Open(statePath)
	}
	return persistence.OpenDefault()
}

// scanCmd discovers map bridges on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for locsim bridges on the network",
	Long: `Scan for running locsim map bridges using mDNS/DNS-SD discovery.

On a terminal the scan shows a countdown; use --plain for script-friendly
output.`,
	Example: `  # Scan for 5 seconds (default)
  locsim scan

  # Longer scan for busy networks
  locsim scan --timeout 15

  # Plain output
  locsim scan --plain`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", int(discovery.DefaultScanTimeout/time.Second), "Scan timeout in seconds")
	scanCmd.Flags().BoolVar(&scanPlain, "plain", false, "Print results without the interactive screen")
}

func runScan(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(logLevel); err != nil {
		return err
	}
	defer logging.Sync()

	if scanTimeout <= 0 {
		return fmt.Errorf("--timeout must be positive, got %d", scanTimeout)
	}
	timeout := time.Duration(scanTimeout) * time.Second

	if scanPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Printf("Scanning for locsim bridges (timeout: %ds)...\n\n", scanTimeout)

		bridges, err := discovery.DiscoverBridges(cmd.Context(), timeout)
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
		printBridges(bridges)
		return nil
	}

	final, err := tea.NewProgram(tui.NewScanModel(cmd.Context(), timeout, discovery.DiscoverBridges)).Run()
	if err != nil {
		return fmt.Errorf("scan screen failed: %w", err)
	}
	if m, ok := final.(tui.ScanModel); ok && m.Err != nil {
		return fmt.Errorf("scan failed: %w", m.Err)
	}
	return nil
}

func printBridges(bridges []*discovery.Bridge) {
	if len(bridges) == 0 {
		fmt.Println("No bridges found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure locsim is running without --no-bridge or --no-mdns")
		fmt.Println("  - Check that both machines are on the same network segment")
		fmt.Println("  - Try increasing --timeout for slower networks")
		return
	}

	fmt.Printf("Found %d bridge(s):\n\n", len(bridges))
	for i, b := range bridges {
		fmt.Printf("%d. %s\n", i+1, b.Instance)
		fmt.Printf("   URL:     %s\n", b.URL())
		if b.Version != "" {
			fmt.Printf("   Version: %s\n", b.Version)
		}
		fmt.Println()
	}
}

// favoritesCmd prints saved favorites
var favoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "List saved favorite locations",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := openState()
		if err != nil {
			return err
		}
		printFavorites(file.Favorites())
		return nil
	},
}

func printFavorites(favorites []mapstate.FavoriteLocation) {
	if len(favorites) == 0 {
		fmt.Println("No favorites saved. Press f on the map screen to add one.")
		return
	}
	for _, f := range favorites {
		c := mapstate.Coordinate{Latitude: f.Latitude, Longitude: f.Longitude}
		fmt.Printf("%-24s %s\n", f.Name, c)
	}
}

// resetCmd clears the persisted simulation
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Stop the persisted simulation and forget the last location",
	Long: `Clear the saved play flag and last clicked location.

Favorites are kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := openState()
		if err != nil {
			return err
		}
		if err := file.ResetSimulation(); err != nil {
			return fmt.Errorf("failed to reset simulation: %w", err)
		}
		fmt.Printf("Simulation reset in %s\n", file.Path())
		return nil
	},
}
