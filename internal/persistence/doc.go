// Package persistence keeps map screen state across locsim restarts.
//
// State lives in a single YAML file in the platform configuration
// directory:
//   - Linux: $XDG_CONFIG_HOME/locsim/state.yaml or $HOME/.config/locsim/state.yaml
//   - macOS: $HOME/.config/locsim/state.yaml
//   - Windows: %LOCALAPPDATA%\locsim\state.yaml
//
// The file records whether simulation was playing, the last location tapped
// on the map and the list of favorite locations. File implements
// mapstate.Persistence; every gateway call rewrites the file atomically
// (temp file + rename).
//
// # Usage Example
//
//	file, err := persistence.OpenDefault()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := mapstate.NewStore(ctx, file)
//	snap := file.Snapshot()
//	store.Restore(snap.IsPlaying, snap.LastClickedCoordinate())
//
// # Thread Safety
//
// File methods are guarded by a mutex and may be called from any goroutine.
package persistence
