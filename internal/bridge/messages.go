package bridge

import (
	"fmt"

	"github.com/muurk/locsim/internal/mapstate"
)

// Message types on the wire.
const (
	TypeHello        = "hello"
	TypeGoToPoint    = mapstate.StreamGoToPoint
	TypeCenterMap    = mapstate.StreamCenterMap
	TypeState        = "state"
	TypeMapClick     = "map_click"
	TypeMapClear     = "map_clear"
	TypeUserLocation = "user_location"
	TypeMapReady     = "map_ready"
)

// Message is a JSON text frame exchanged with a map surface.
type Message struct {
	Type      string         `json:"type"`
	Latitude  *float64       `json:"latitude,omitempty"`
	Longitude *float64       `json:"longitude,omitempty"`
	Version   string         `json:"version,omitempty"`
	Protocol  int            `json:"protocol,omitempty"`
	State     *StateSnapshot `json:"state,omitempty"`
}

// StateSnapshot is the part of the map state a surface needs to draw
// markers and the play button.
type StateSnapshot struct {
	IsPlaying    bool    `json:"is_playing"`
	IsLoading    bool    `json:"is_loading"`
	FabClickable bool    `json:"fab_clickable"`
	LastClicked  *LatLng `json:"last_clicked,omitempty"`
	UserLocation *LatLng `json:"user_location,omitempty"`
}

// LatLng is a coordinate in wire form.
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func latLng(c *mapstate.Coordinate) *LatLng {
	if c == nil {
		return nil
	}
	return &LatLng{Latitude: c.Latitude, Longitude: c.Longitude}
}

// Snapshot converts a map state record to wire form.
func Snapshot(s mapstate.State) *StateSnapshot {
	return &StateSnapshot{
		IsPlaying:    s.IsPlaying,
		IsLoading:    s.IsLoading,
		FabClickable: s.IsFabClickable(),
		LastClicked:  latLng(s.LastClickedLocation),
		UserLocation: latLng(s.UserLocation),
	}
}

func coordinateMessage(msgType string, c mapstate.Coordinate) Message {
	lat, lon := c.Latitude, c.Longitude
	return Message{Type: msgType, Latitude: &lat, Longitude: &lon}
}

// Inbound messages, handed to the Dispatcher after decoding.

// MapClickMsg reports a location tapped on the map. A nil Location means
// the marker was removed.
type MapClickMsg struct {
	Location *mapstate.Coordinate
}

// UserLocationMsg reports a fix of the device's real location.
type UserLocationMsg struct {
	Location mapstate.Coordinate
}

// MapReadyMsg reports that the surface finished loading.
type MapReadyMsg struct{}

// Decode converts a wire message from a surface to its inbound form.
func Decode(m Message) (any, error) {
	switch m.Type {
	case TypeMapClick:
		c, err := coordinate(m)
		if err != nil {
			return nil, err
		}
		return MapClickMsg{Location: &c}, nil
	case TypeMapClear:
		return MapClickMsg{}, nil
	case TypeUserLocation:
		c, err := coordinate(m)
		if err != nil {
			return nil, err
		}
		return UserLocationMsg{Location: c}, nil
	case TypeMapReady:
		return MapReadyMsg{}, nil
	default:
		return nil, fmt.Errorf("unknown message type %q", m.Type)
	}
}

func coordinate(m Message) (mapstate.Coordinate, error) {
	if m.Latitude == nil || m.Longitude == nil {
		return mapstate.Coordinate{}, fmt.Errorf("%s: latitude and longitude are required", m.Type)
	}
	c := mapstate.Coordinate{Latitude: *m.Latitude, Longitude: *m.Longitude}
	if !mapstate.LatitudeRange.Contains(c.Latitude) || !mapstate.LongitudeRange.Contains(c.Longitude) {
		return mapstate.Coordinate{}, fmt.Errorf("%s: coordinate out of range: %s", m.Type, c)
	}
	return c, nil
}

// Apply performs the store operation for an inbound message. It reports
// false for values that are not bridge messages. It must run on the
// goroutine that owns the store.
func Apply(store *mapstate.Store, msg any) bool {
	switch msg := msg.(type) {
	case MapClickMsg:
		store.UpdateClickedLocation(msg.Location)
	case UserLocationMsg:
		store.UpdateUserLocation(msg.Location)
	case MapReadyMsg:
		store.SetLoadingFinished()
	default:
		return false
	}
	return true
}
