package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/locsim/internal/bridge"
	"github.com/muurk/locsim/internal/mapstate"
)

// memoryFavorites is an in-memory gateway that also lists favorites
type memoryFavorites struct {
	favorites []mapstate.FavoriteLocation
}

func (m *memoryFavorites) SaveIsPlaying(bool) error                      { return nil }
func (m *memoryFavorites) SaveLastClickedLocation(float32, float32) error { return nil }
func (m *memoryFavorites) ClearLastClickedLocation() error                { return nil }

func (m *memoryFavorites) AddFavorite(f mapstate.FavoriteLocation) error {
	m.favorites = append(m.favorites, f)
	return nil
}

func (m *memoryFavorites) Favorites() []mapstate.FavoriteLocation {
	return append([]mapstate.FavoriteLocation(nil), m.favorites...)
}

func newTestModel(t *testing.T, favs ...mapstate.FavoriteLocation) (Model, *mapstate.Store, *memoryFavorites) {
	t.Helper()
	gateway := &memoryFavorites{favorites: favs}
	store := mapstate.NewStore(context.Background(), gateway)
	m := NewModel(store, Options{Favorites: gateway})
	t.Cleanup(func() {
		m.Close()
		_ = store.Close()
	})
	return m, store, gateway
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
)

func send(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var updated tea.Model
		updated, cmd = m.Update(msg)
		next, ok := updated.(Model)
		if !ok {
			t.Fatalf("Update() returned %T, want Model", updated)
		}
		m = next
	}
	return m, cmd
}

// typeText sends s one rune at a time, the way a terminal delivers it
func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m, _ = send(t, m, runes(string(r)))
	}
	return m
}

func receive[T any](t *testing.T, sub *mapstate.Subscription[T]) T {
	t.Helper()
	select {
	case v := <-sub.C():
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	var zero T
	return zero
}

func TestGoToPointDialogRoutesInput(t *testing.T) {
	m, store, _ := newTestModel(t)

	m, _ = send(t, m, runes("g"))
	if !store.State().ShowGoToPointDialog {
		t.Fatal("ShowGoToPointDialog = false after pressing g")
	}

	m = typeText(t, m, "45.5")
	m, _ = send(t, m, keyTab)
	m = typeText(t, m, "-73.6")

	in := store.State().GoToPoint
	if in.Latitude.Value != "45.5" {
		t.Errorf("Latitude.Value = %q, want %q", in.Latitude.Value, "45.5")
	}
	if in.Longitude.Value != "-73.6" {
		t.Errorf("Longitude.Value = %q, want %q", in.Longitude.Value, "-73.6")
	}
	if got := m.goToPoint.inputs[1].Value(); got != "-73.6" {
		t.Errorf("longitude input = %q, want %q", got, "-73.6")
	}
}

func TestGoToPointSubmit(t *testing.T) {
	m, store, _ := newTestModel(t)

	m, _ = send(t, m, runes("g"))
	m = typeText(t, m, "45.5")
	m, _ = send(t, m, keyTab)
	m = typeText(t, m, "-73.6")
	m, _ = send(t, m, keyEnter)

	got := receive(t, m.goToPointSub)
	if got != (mapstate.Coordinate{Latitude: 45.5, Longitude: -73.6}) {
		t.Errorf("published %v, want 45.5, -73.6", got)
	}

	st := store.State()
	if st.ShowGoToPointDialog {
		t.Error("dialog should close after a valid submit")
	}
	if st.GoToPoint != (mapstate.GoToPointState{}) {
		t.Errorf("GoToPoint = %+v, want cleared inputs", st.GoToPoint)
	}
	if m.goToPoint.inputs[0].Value() != "" {
		t.Errorf("latitude input = %q, want empty", m.goToPoint.inputs[0].Value())
	}

	m, cmd := send(t, m, goToPointEventMsg{coordinate: got})
	if cmd == nil {
		t.Error("handling an event should wait for the next one")
	}
	if !strings.Contains(m.activity, "45.500000, -73.600000") {
		t.Errorf("activity = %q, want the camera target", m.activity)
	}
}

func TestGoToPointSubmitInvalid(t *testing.T) {
	m, store, _ := newTestModel(t)

	m, _ = send(t, m, runes("g"))
	m = typeText(t, m, "95")
	m, _ = send(t, m, keyTab)
	m = typeText(t, m, "abc")
	m, _ = send(t, m, keyEnter)

	st := store.State()
	if !st.ShowGoToPointDialog {
		t.Fatal("dialog should stay open when validation fails")
	}
	if st.GoToPoint.Latitude.ErrorMessage != mapstate.LatitudeErrorMessage {
		t.Errorf("Latitude.ErrorMessage = %q, want %q", st.GoToPoint.Latitude.ErrorMessage, mapstate.LatitudeErrorMessage)
	}
	if st.GoToPoint.Longitude.ErrorMessage != mapstate.LongitudeErrorMessage {
		t.Errorf("Longitude.ErrorMessage = %q, want %q", st.GoToPoint.Longitude.ErrorMessage, mapstate.LongitudeErrorMessage)
	}

	view := m.View()
	if !strings.Contains(view, mapstate.LatitudeErrorMessage) {
		t.Error("View() should show the latitude error")
	}
}

func TestEscapeKeepsInputs(t *testing.T) {
	m, store, _ := newTestModel(t)

	m, _ = send(t, m, runes("g"))
	m = typeText(t, m, "12")
	m, _ = send(t, m, keyEsc)

	if store.State().ShowGoToPointDialog {
		t.Fatal("esc should hide the dialog")
	}
	if got := store.State().GoToPoint.Latitude.Value; got != "12" {
		t.Errorf("Latitude.Value = %q after esc, want %q", got, "12")
	}

	m, _ = send(t, m, runes("g"))
	if got := m.goToPoint.inputs[0].Value(); got != "12" {
		t.Errorf("latitude input = %q after reopening, want %q", got, "12")
	}
}

func TestAddFavoriteFromMarker(t *testing.T) {
	m, store, gateway := newTestModel(t)

	m, _ = send(t, m, bridge.MapClickMsg{Location: &mapstate.Coordinate{Latitude: 10, Longitude: 20}})
	m, _ = send(t, m, runes("f"))

	in := store.State().FavoritesInput
	if in.Latitude.Value != "10.0" || in.Longitude.Value != "20.0" {
		t.Fatalf("prefilled %q, %q, want 10.0, 20.0", in.Latitude.Value, in.Longitude.Value)
	}
	if m.favorite.inputs[1].Value() != "10.0" {
		t.Errorf("latitude input = %q, want the prefilled value", m.favorite.inputs[1].Value())
	}

	m = typeText(t, m, "  Park ")
	m, _ = send(t, m, keyEnter)

	if len(gateway.favorites) != 1 {
		t.Fatalf("saved %d favorites, want 1", len(gateway.favorites))
	}
	want := mapstate.FavoriteLocation{Name: "Park", Latitude: 10, Longitude: 20}
	if gateway.favorites[0] != want {
		t.Errorf("saved %+v, want %+v", gateway.favorites[0], want)
	}
	if store.State().ShowAddToFavoritesDialog {
		t.Error("dialog should close after saving")
	}
	if len(m.favorites.Items()) != 1 {
		t.Errorf("favorites list has %d items, want 1", len(m.favorites.Items()))
	}
	if m.activity != "Saved favorite Park" {
		t.Errorf("activity = %q, want %q", m.activity, "Saved favorite Park")
	}
}

func TestAddFavoriteRequiresName(t *testing.T) {
	m, store, gateway := newTestModel(t)

	m, _ = send(t, m, bridge.MapClickMsg{Location: &mapstate.Coordinate{Latitude: 1, Longitude: 2}})
	m, _ = send(t, m, runes("f"), keyEnter)

	if len(gateway.favorites) != 0 {
		t.Errorf("saved %v, want nothing without a name", gateway.favorites)
	}
	if got := store.State().FavoritesInput.Name.ErrorMessage; got != mapstate.NameErrorMessage {
		t.Errorf("Name.ErrorMessage = %q, want %q", got, mapstate.NameErrorMessage)
	}
	if !strings.Contains(m.View(), mapstate.NameErrorMessage) {
		t.Error("View() should show the name error")
	}
}

func TestGoToPointDialogTakesFocus(t *testing.T) {
	m, store, _ := newTestModel(t)

	store.ShowAddToFavoritesDialog()
	store.ShowGoToPointDialog()
	m, _ = send(t, m, runes("5"))

	st := store.State()
	if st.GoToPoint.Latitude.Value != "5" {
		t.Errorf("Latitude.Value = %q, want %q", st.GoToPoint.Latitude.Value, "5")
	}
	if st.FavoritesInput.Name.Value != "" {
		t.Errorf("Name.Value = %q, keystroke should not reach the other dialog", st.FavoritesInput.Name.Value)
	}

	m, _ = send(t, m, keyEsc)
	if st := store.State(); st.ShowGoToPointDialog || !st.ShowAddToFavoritesDialog {
		t.Errorf("esc should close go-to-point first, got go=%v fav=%v", st.ShowGoToPointDialog, st.ShowAddToFavoritesDialog)
	}

	typeText(t, m, "Cafe")
	if got := store.State().FavoritesInput.Name.Value; got != "Cafe" {
		t.Errorf("Name.Value = %q, want %q once add-to-favorites has focus", got, "Cafe")
	}
}

func TestTogglePlay(t *testing.T) {
	m, store, _ := newTestModel(t)

	m, _ = send(t, m, runes("p"))
	if store.State().IsPlaying {
		t.Fatal("play should need a marker")
	}
	if m.activity == "" {
		t.Error("activity should explain why play did nothing")
	}

	m, _ = send(t, m, bridge.MapClickMsg{Location: &mapstate.Coordinate{Latitude: 3, Longitude: 4}})
	m, _ = send(t, m, runes(" "))
	if !store.State().IsPlaying {
		t.Fatal("IsPlaying = false after pressing space with a marker")
	}

	m, _ = send(t, m, runes("p"))
	st := store.State()
	if st.IsPlaying || st.LastClickedLocation != nil {
		t.Errorf("stopping should clear the marker, got playing=%v marker=%v", st.IsPlaying, st.LastClickedLocation)
	}
	if m.activity != "Simulation stopped" {
		t.Errorf("activity = %q, want %q", m.activity, "Simulation stopped")
	}
}

func TestCenterMapKey(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = send(t, m, runes("c"))
	receive(t, m.centerMapSub)

	m, _ = send(t, m, centerMapEventMsg{})
	if m.activity != "Map centered on your location" {
		t.Errorf("activity = %q", m.activity)
	}
}

func TestClearMarkerKey(t *testing.T) {
	m, store, _ := newTestModel(t)

	m, _ = send(t, m, bridge.MapClickMsg{Location: &mapstate.Coordinate{Latitude: 3, Longitude: 4}})
	_, _ = send(t, m, runes("x"))
	if store.State().LastClickedLocation != nil {
		t.Error("x should clear the marker")
	}
}

func TestJumpToFavorite(t *testing.T) {
	m, _, _ := newTestModel(t,
		mapstate.FavoriteLocation{Name: "Home", Latitude: 51.5, Longitude: -0.12},
		mapstate.FavoriteLocation{Name: "Work", Latitude: 48.85, Longitude: 2.35},
	)

	m, _ = send(t, m, runes("j"), keyEnter)

	got := receive(t, m.goToPointSub)
	if got != (mapstate.Coordinate{Latitude: 48.85, Longitude: 2.35}) {
		t.Errorf("published %v, want Work", got)
	}
	if m.activity != "Going to Work" {
		t.Errorf("activity = %q, want %q", m.activity, "Going to Work")
	}
}

func TestSurfaceMessagesApplied(t *testing.T) {
	m, store, _ := newTestModel(t)

	m, _ = send(t, m,
		bridge.UserLocationMsg{Location: mapstate.Coordinate{Latitude: 7, Longitude: 8}},
		bridge.MapReadyMsg{},
	)

	st := store.State()
	if st.UserLocation == nil || *st.UserLocation != (mapstate.Coordinate{Latitude: 7, Longitude: 8}) {
		t.Errorf("UserLocation = %v, want 7, 8", st.UserLocation)
	}
	if st.IsLoading {
		t.Error("IsLoading should be false after the map is ready")
	}
	if !strings.Contains(m.View(), "Ready") {
		t.Error("View() should report the map as ready")
	}
}

func TestQuitDetachesListeners(t *testing.T) {
	m, store, _ := newTestModel(t)

	m, cmd := send(t, m, runes("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}

	select {
	case <-m.goToPointSub.Done():
	default:
		t.Error("go-to-point subscription should be cancelled")
	}
	if n := store.GoToPointEvents().Subscribers(); n != 0 {
		t.Errorf("Subscribers() = %d after quit, want 0", n)
	}
}

func TestViewShowsStatus(t *testing.T) {
	m, _, _ := newTestModel(t)

	view := m.View()
	for _, want := range []string{"Simulation", "Loading map", "No favorites yet"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}
