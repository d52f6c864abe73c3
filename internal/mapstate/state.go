package mapstate

import "fmt"

// Coordinate is a position in decimal degrees. Ranges are only checked when
// user input is validated, never at construction.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f, %.6f", c.Latitude, c.Longitude)
}

// FavoriteLocation is a named coordinate kept by the persistence gateway.
type FavoriteLocation struct {
	Name      string
	Latitude  float64
	Longitude float64
}

// Dialog identifies one of the modal dialogs of the map screen.
type Dialog int

const (
	DialogGoToPoint Dialog = iota
	DialogAddToFavorites
)

func (d Dialog) String() string {
	switch d {
	case DialogGoToPoint:
		return "go_to_point"
	case DialogAddToFavorites:
		return "add_to_favorites"
	default:
		return "unknown"
	}
}

// State is the complete presentation state of the map screen. A nil
// location means "absent".
type State struct {
	IsPlaying           bool
	LastClickedLocation *Coordinate
	UserLocation        *Coordinate
	IsLoading           bool

	ShowGoToPointDialog      bool
	ShowAddToFavoritesDialog bool

	GoToPoint      GoToPointState
	FavoritesInput FavoritesInputState
}

// DefaultState returns the state a new screen session starts with.
func DefaultState() State {
	return State{IsLoading: true}
}

// IsFabClickable reports whether a location has been picked on the map, which
// is what enables the play button.
func (s State) IsFabClickable() bool {
	return s.LastClickedLocation != nil
}

// DialogVisible reports the visibility flag of d. Both dialogs may be visible
// at once.
func (s State) DialogVisible(d Dialog) bool {
	switch d {
	case DialogGoToPoint:
		return s.ShowGoToPointDialog
	case DialogAddToFavorites:
		return s.ShowAddToFavoritesDialog
	default:
		return false
	}
}

func copyCoordinate(c *Coordinate) *Coordinate {
	if c == nil {
		return nil
	}
	cc := *c
	return &cc
}
