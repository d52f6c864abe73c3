package mapstate

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/muurk/locsim/internal/logging"
)

// Event stream names, used in logs and on the bridge wire.
const (
	StreamGoToPoint = "go_to_point"
	StreamCenterMap = "center_map"
)

// Persistence is the gateway that keeps state across process restarts.
// Calls are made inline from Store operations. Failures are logged and do
// not abort the operation.
type Persistence interface {
	SaveIsPlaying(isPlaying bool) error
	SaveLastClickedLocation(latitude, longitude float32) error
	ClearLastClickedLocation() error
	AddFavorite(favorite FavoriteLocation) error
}

type nopPersistence struct{}

func (nopPersistence) SaveIsPlaying(bool) error { return nil }
func (nopPersistence) SaveLastClickedLocation(float32, float32) error { return nil }
func (nopPersistence) ClearLastClickedLocation() error { return nil }
func (nopPersistence) AddFavorite(FavoriteLocation) error { return nil }

type observer struct {
	id int
	fn func(State)
}

// Store owns the map screen state for one session.
type Store struct {
	state       State
	persistence Persistence

	observers    []observer
	nextObserver int

	cancel context.CancelFunc
	group  *errgroup.Group

	goToPoint *Broadcaster[Coordinate]
	centerMap *Broadcaster[struct{}]
}

// NewStore creates a Store with default state. The session lasts until ctx
// is cancelled or Close is called. A nil gateway disables persistence.
func NewStore(ctx context.Context, p Persistence) *Store {
	if p == nil {
		p = nopPersistence{}
	}

	ctx, cancel := context.WithCancel(ctx)
	group, ctx := errgroup.WithContext(ctx)

	return &Store{
		state:       DefaultState(),
		persistence: p,
		cancel:      cancel,
		group:       group,
		goToPoint:   NewBroadcaster[Coordinate](ctx, group, StreamGoToPoint),
		centerMap:   NewBroadcaster[struct{}](ctx, group, StreamCenterMap),
	}
}

// Close ends the session. Undelivered events are discarded; state already
// applied is kept.
func (s *Store) Close() error {
	s.cancel()
	return s.group.Wait()
}

// State returns the current state record.
func (s *Store) State() State {
	return s.state
}

// IsFabClickable reports whether a location has been picked on the map.
func (s *Store) IsFabClickable() bool {
	return s.state.IsFabClickable()
}

// GoToPointEvents is the stream of coordinates the map should move to.
func (s *Store) GoToPointEvents() *Broadcaster[Coordinate] {
	return s.goToPoint
}

// CenterMapEvents is the stream of requests to center the map on the user.
func (s *Store) CenterMapEvents() *Broadcaster[struct{}] {
	return s.centerMap
}

// Subscribe registers fn to be called with every new state record. The
// returned function removes the observer.
func (s *Store) Subscribe(fn func(State)) func() {
	id := s.nextObserver
	s.nextObserver++
	s.observers = append(s.observers, observer{id: id, fn: fn})

	return func() {
		for i, o := range s.observers {
			if o.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) replace(next State) {
	s.state = next
	for _, o := range s.observers {
		o.fn(next)
	}
}

func (s *Store) persist(op string, fn func() error) {
	if err := fn(); err != nil {
		logging.Warn("Persistence call failed",
			zap.String("operation", op),
			zap.Error(err),
		)
	}
}

// Restore seeds the play flag and last clicked location from persisted
// values. Nothing is written back to the gateway.
func (s *Store) Restore(isPlaying bool, lastClicked *Coordinate) {
	next := s.state
	next.IsPlaying = isPlaying
	next.LastClickedLocation = copyCoordinate(lastClicked)
	s.replace(next)

	logging.LogStateChange("restore",
		zap.Bool("is_playing", isPlaying),
		zap.Bool("has_last_clicked", lastClicked != nil),
	)
}

// TogglePlaying flips the play flag. Stopping also forgets the last clicked
// location.
func (s *Store) TogglePlaying() {
	next := s.state
	next.IsPlaying = !next.IsPlaying
	if !next.IsPlaying {
		next.LastClickedLocation = nil
	}
	s.replace(next)

	s.persist("save_is_playing", func() error {
		return s.persistence.SaveIsPlaying(next.IsPlaying)
	})
	if !next.IsPlaying {
		s.persist("clear_last_clicked_location", s.persistence.ClearLastClickedLocation)
	}

	logging.LogStateChange("toggle_playing", zap.Bool("is_playing", next.IsPlaying))
}

// UpdateUserLocation records the device's real location.
func (s *Store) UpdateUserLocation(c Coordinate) {
	next := s.state
	next.UserLocation = &c
	s.replace(next)
}

// UpdateClickedLocation records the location picked on the map, or clears
// it when c is nil.
func (s *Store) UpdateClickedLocation(c *Coordinate) {
	next := s.state
	next.LastClickedLocation = copyCoordinate(c)
	s.replace(next)

	if c != nil {
		s.persist("save_last_clicked_location", func() error {
			return s.persistence.SaveLastClickedLocation(float32(c.Latitude), float32(c.Longitude))
		})
		logging.LogStateChange("update_clicked_location", zap.Stringer("location", *c))
		return
	}
	s.persist("clear_last_clicked_location", s.persistence.ClearLastClickedLocation)
	logging.LogStateChange("clear_clicked_location")
}

// AddFavoriteLocation forwards f to the gateway. State is not touched.
func (s *Store) AddFavoriteLocation(f FavoriteLocation) {
	s.persist("add_favorite", func() error {
		return s.persistence.AddFavorite(f)
	})
	logging.LogStateChange("add_favorite", zap.String("name", f.Name))
}

// SetLoadingFinished clears the loading flag.
func (s *Store) SetLoadingFinished() {
	next := s.state
	next.IsLoading = false
	s.replace(next)
}

// ShowGoToPointDialog makes the go-to-point dialog visible.
func (s *Store) ShowGoToPointDialog() { s.setDialog(DialogGoToPoint, true) }

// HideGoToPointDialog hides the go-to-point dialog. Its inputs are kept.
func (s *Store) HideGoToPointDialog() { s.setDialog(DialogGoToPoint, false) }

// ShowAddToFavoritesDialog makes the add-to-favorites dialog visible.
func (s *Store) ShowAddToFavoritesDialog() { s.setDialog(DialogAddToFavorites, true) }

// HideAddToFavoritesDialog hides the add-to-favorites dialog. Its inputs are
// kept.
func (s *Store) HideAddToFavoritesDialog() { s.setDialog(DialogAddToFavorites, false) }

func (s *Store) setDialog(d Dialog, visible bool) {
	next := s.state
	switch d {
	case DialogGoToPoint:
		next.ShowGoToPointDialog = visible
	case DialogAddToFavorites:
		next.ShowAddToFavoritesDialog = visible
	}
	s.replace(next)
	logging.Debug("Dialog visibility changed",
		zap.Stringer("dialog", d),
		zap.Bool("visible", visible),
	)
}

// UpdateGoToPointField sets the value of one go-to-point input. The field's
// error message is left as it was.
func (s *Store) UpdateGoToPointField(field PointField, value string) {
	next := s.state
	next.GoToPoint = next.GoToPoint.WithField(field, value)
	s.replace(next)
}

// UpdateAddToFavoritesField sets the value of one add-to-favorites input.
// The field's error message is left as it was.
func (s *Store) UpdateAddToFavoritesField(field FavoriteField, value string) {
	next := s.state
	next.FavoritesInput = next.FavoritesInput.WithField(field, value)
	s.replace(next)
}

// ValidateAndGo checks the go-to-point inputs and stores the resulting error
// messages, whatever the outcome. onSuccess receives the parsed values only
// when both inputs are valid.
func (s *Store) ValidateAndGo(onSuccess func(latitude, longitude float64)) {
	in := s.state.GoToPoint
	latErr := Validate(in.Latitude.Value, LatitudeRange, LatitudeErrorMessage)
	lonErr := Validate(in.Longitude.Value, LongitudeRange, LongitudeErrorMessage)

	next := s.state
	next.GoToPoint = GoToPointState{
		Latitude:  in.Latitude.WithError(latErr),
		Longitude: in.Longitude.WithError(lonErr),
	}
	s.replace(next)

	if latErr != "" || lonErr != "" {
		logging.LogValidationFailed("go_to_point", latErr, lonErr)
		return
	}

	lat, _ := ParseCoordinate(in.Latitude.Value)
	lon, _ := ParseCoordinate(in.Longitude.Value)
	if onSuccess != nil {
		onSuccess(lat, lon)
	}
}

// GoToPoint publishes a coordinate on the go-to-point stream. Delivery is
// asynchronous.
func (s *Store) GoToPoint(latitude, longitude float64) {
	s.goToPoint.Publish(Coordinate{Latitude: latitude, Longitude: longitude})
}

// ClearGoToPointInputs resets both go-to-point inputs.
func (s *Store) ClearGoToPointInputs() {
	next := s.state
	next.GoToPoint = GoToPointState{}
	s.replace(next)
}

// PrefillCoordinatesFromMarker copies a marker position into the
// add-to-favorites coordinate inputs. A nil value becomes an empty string.
// Error messages and the name input are not touched.
func (s *Store) PrefillCoordinatesFromMarker(latitude, longitude *float64) {
	next := s.state
	next.FavoritesInput.Latitude = next.FavoritesInput.Latitude.WithValue(formatOptional(latitude))
	next.FavoritesInput.Longitude = next.FavoritesInput.Longitude.WithValue(formatOptional(longitude))
	s.replace(next)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return FormatCoordinate(*v)
}

// ValidateAndAddFavorite checks all three add-to-favorites inputs and stores
// the resulting error messages, whatever the outcome. onSuccess receives the
// trimmed name and parsed coordinates only when every input is valid.
func (s *Store) ValidateAndAddFavorite(onSuccess func(name string, latitude, longitude float64)) {
	in := s.state.FavoritesInput
	latErr := Validate(in.Latitude.Value, LatitudeRange, LatitudeErrorMessage)
	lonErr := Validate(in.Longitude.Value, LongitudeRange, LongitudeErrorMessage)
	nameErr := ValidateName(in.Name.Value, NameErrorMessage)

	next := s.state
	next.FavoritesInput = FavoritesInputState{
		Name:      in.Name.WithError(nameErr),
		Latitude:  in.Latitude.WithError(latErr),
		Longitude: in.Longitude.WithError(lonErr),
	}
	s.replace(next)

	if latErr != "" || lonErr != "" || nameErr != "" {
		logging.LogValidationFailed("add_to_favorites", latErr, lonErr, nameErr)
		return
	}

	lat, _ := ParseCoordinate(in.Latitude.Value)
	lon, _ := ParseCoordinate(in.Longitude.Value)
	if onSuccess != nil {
		onSuccess(strings.TrimSpace(in.Name.Value), lat, lon)
	}
}

// ClearAddToFavoritesInputs resets all three add-to-favorites inputs.
func (s *Store) ClearAddToFavoritesInputs() {
	next := s.state
	next.FavoritesInput = FavoritesInputState{}
	s.replace(next)
}

// TriggerCenterMapEvent publishes a request to center the map. Delivery is
// asynchronous.
func (s *Store) TriggerCenterMapEvent() {
	s.centerMap.Publish(struct{}{})
}
