package persistence

import (
	"github.com/brunoga/deep"

	"github.com/muurk/locsim/internal/mapstate"
)

// CurrentVersion is the state file format version written by this package.
const CurrentVersion = 1

// State is the on-disk representation of persisted map state.
type State struct {
	Version     int        `yaml:"version"`
	IsPlaying   bool       `yaml:"is_playing"`
	LastClicked *Location  `yaml:"last_clicked_location,omitempty"` // Absent when nothing is picked
	Favorites   []Favorite `yaml:"favorites,omitempty"`
}

// Location is a stored coordinate. Single precision matches what the
// gateway is handed by the map state store.
type Location struct {
	Latitude  float32 `yaml:"latitude"`
	Longitude float32 `yaml:"longitude"`
}

// Favorite is a named location saved by the user.
type Favorite struct {
	Name      string  `yaml:"name"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// NewState creates an empty State with the current version.
func NewState() *State {
	return &State{Version: CurrentVersion}
}

// LastClickedCoordinate converts the stored location for mapstate.Store.Restore.
func (s State) LastClickedCoordinate() *mapstate.Coordinate {
	if s.LastClicked == nil {
		return nil
	}
	return &mapstate.Coordinate{
		Latitude:  float64(s.LastClicked.Latitude),
		Longitude: float64(s.LastClicked.Longitude),
	}
}

// FavoriteLocations converts the stored favorites to mapstate values.
func (s State) FavoriteLocations() []mapstate.FavoriteLocation {
	out := make([]mapstate.FavoriteLocation, 0, len(s.Favorites))
	for _, f := range s.Favorites {
		out = append(out, mapstate.FavoriteLocation{
			Name:      f.Name,
			Latitude:  f.Latitude,
			Longitude: f.Longitude,
		})
	}
	return out
}

func (s State) clone() State {
	return deep.MustCopy(s)
}
