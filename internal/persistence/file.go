package persistence

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/muurk/locsim/internal/logging"
	"github.com/muurk/locsim/internal/mapstate"
)

const (
	appName   = "locsim"
	stateFile = "state.yaml"
)

// ErrUnsupportedVersion is returned when the state file was written by an
// incompatible format version.
var ErrUnsupportedVersion = errors.New("unsupported state file version")

// GetConfigDir returns the OS-appropriate configuration directory for the application.
// This follows platform conventions:
//   - Linux: $XDG_CONFIG_HOME/locsim or $HOME/.config/locsim
//   - macOS: $HOME/.config/locsim (following XDG convention on macOS)
//   - Windows: %LOCALAPPDATA%\locsim
func GetConfigDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, appName), nil
		}
		userProfile := os.Getenv("USERPROFILE")
		if userProfile == "" {
			return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
		}
		return filepath.Join(userProfile, "AppData", "Local", appName), nil

	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(homeDir, ".config", appName), nil

	default:
		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			return filepath.Join(xdgConfigHome, appName), nil
		}
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(homeDir, ".config", appName), nil
	}
}

// GetStatePath returns the full path to the state file.
func GetStatePath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, stateFile), nil
}

// File is a YAML-backed persistence gateway.
type File struct {
	path  string
	mu    sync.Mutex
	state State
}

var _ mapstate.Persistence = (*File)(nil)

// OpenDefault opens the state file at GetStatePath.
func OpenDefault() (*File, error) {
	path, err := GetStatePath()
	if err != nil {
		return nil, fmt.Errorf("failed to get state path: %w", err)
	}
	return Open(path)
}

// Open loads the state file at path. A missing file yields empty state; the
// file is created on the first write.
func Open(path string) (*File, error) {
	f := &File{path: path, state: *NewState()}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		logging.Debug("No state file, starting empty", zap.String("path", path))
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var state State
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}
	if state.Version != CurrentVersion {
		return nil, fmt.Errorf("%w: %d (expected %d)", ErrUnsupportedVersion, state.Version, CurrentVersion)
	}

	f.state = state
	logging.Debug("Loaded state file",
		zap.String("path", path),
		zap.Bool("is_playing", state.IsPlaying),
		zap.Int("favorites", len(state.Favorites)),
	)
	return f, nil
}

// Path returns the location of the backing file.
func (f *File) Path() string {
	return f.path
}

// Snapshot returns a copy of the persisted state.
func (f *File) Snapshot() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.clone()
}

// Favorites returns the saved favorites in insertion order.
func (f *File) Favorites() []mapstate.FavoriteLocation {
	return f.Snapshot().FavoriteLocations()
}

// SaveIsPlaying implements mapstate.Persistence.
func (f *File) SaveIsPlaying(isPlaying bool) error {
	return f.update(func(s *State) {
		s.IsPlaying = isPlaying
	})
}

// SaveLastClickedLocation implements mapstate.Persistence.
func (f *File) SaveLastClickedLocation(latitude, longitude float32) error {
	return f.update(func(s *State) {
		s.LastClicked = &Location{Latitude: latitude, Longitude: longitude}
	})
}

// ClearLastClickedLocation implements mapstate.Persistence.
func (f *File) ClearLastClickedLocation() error {
	return f.update(func(s *State) {
		s.LastClicked = nil
	})
}

// AddFavorite implements mapstate.Persistence. Favorites are appended;
// duplicate names are kept.
func (f *File) AddFavorite(favorite mapstate.FavoriteLocation) error {
	return f.update(func(s *State) {
		s.Favorites = append(s.Favorites, Favorite{
			Name:      favorite.Name,
			Latitude:  favorite.Latitude,
			Longitude: favorite.Longitude,
		})
	})
}

// ResetSimulation clears the play flag and the last clicked location.
// Favorites are kept.
func (f *File) ResetSimulation() error {
	return f.update(func(s *State) {
		s.IsPlaying = false
		s.LastClicked = nil
	})
}

// update applies fn to a copy of the state and commits it only when the
// write succeeds.
func (f *File) update(fn func(*State)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := f.state.clone()
	fn(&next)
	next.Version = CurrentVersion

	if err := f.write(&next); err != nil {
		return err
	}
	f.state = next
	return nil
}

// write performs an atomic write to prevent corruption on crash.
func (f *File) write(state *State) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	header := []byte("# locsim map state\n# Written automatically; edits are overwritten.\n\n")
	data = append(header, data...)

	tmpPath := f.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary state file: %w", err)
	}

	if err := os.Rename(tmpPath, f.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to save state file: %w", err)
	}

	return nil
}
