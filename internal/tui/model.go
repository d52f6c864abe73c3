package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/muurk/locsim/internal/bridge"
	"github.com/muurk/locsim/internal/logging"
	"github.com/muurk/locsim/internal/mapstate"
)

// BridgeStatus reports on the map bridge. bridge.Server satisfies it.
type BridgeStatus interface {
	Port() int
	Connections() int
}

// Options configures optional collaborators of the map screen.
type Options struct {
	Favorites FavoriteSource
	Bridge    BridgeStatus
}

// Model is the map screen. It owns the store: every store operation runs on
// the Bubble Tea update goroutine, including those triggered by map
// surfaces, which arrive as bridge messages via tea.Program.Send.
type Model struct {
	store          *mapstate.Store
	favoriteSource FavoriteSource
	bridge         BridgeStatus

	goToPointSub *mapstate.Subscription[mapstate.Coordinate]
	centerMapSub *mapstate.Subscription[struct{}]

	goToPoint form
	favorite  form
	favorites list.Model

	activity string

	// UI state
	Width      int
	Height     int
	spinner    spinner.Model
	help       help.Model
	keys       mapKeyMap
	dialogKeys dialogKeyMap
}

// NewModel creates the map screen for store.
func NewModel(store *mapstate.Store, opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	width, height := GetTerminalSize()

	m := Model{
		store:          store,
		favoriteSource: opts.Favorites,
		bridge:         opts.Bridge,
		goToPointSub:   store.GoToPointEvents().Subscribe(),
		centerMapSub:   store.CenterMapEvents().Subscribe(),
		goToPoint:      newGoToPointForm(),
		favorite:       newFavoriteForm(),
		favorites:      newFavoriteList(),
		Width:          width,
		Height:         height,
		spinner:        s,
		help:           help.New(),
		keys:           newMapKeyMap(),
		dialogKeys:     newDialogKeyMap(),
	}
	m.refreshFavorites()
	m.syncForms()
	return m
}

// Init starts the loading spinner and the event listeners
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		waitForGoToPoint(m.goToPointSub),
		waitForCenterMap(m.centerMapSub),
	)
}

// Close detaches the event listeners. Safe to call more than once.
func (m Model) Close() {
	m.goToPointSub.Unsubscribe()
	m.centerMapSub.Unsubscribe()
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.help.Width = msg.Width
		listHeight := msg.Height / 3
		if listHeight < 4 {
			listHeight = 4
		}
		m.favorites.SetSize(msg.Width-8, listHeight)
		return m, nil

	case spinner.TickMsg:
		if !m.store.State().IsLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case goToPointEventMsg:
		m.activity = "Map moved to " + msg.coordinate.String()
		return m, waitForGoToPoint(m.goToPointSub)

	case centerMapEventMsg:
		m.activity = "Map centered on your location"
		return m, waitForCenterMap(m.centerMapSub)

	case tea.KeyMsg:
		// Global quit handler
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		if d, ok := focusedDialog(m.store.State()); ok {
			return m.updateDialog(d, msg)
		}
		return m.updateMap(msg)
	}

	if bridge.Apply(m.store, msg) {
		logging.Debug("Applied surface message", zap.String("type", fmt.Sprintf("%T", msg)))
		return m, nil
	}

	var cmd tea.Cmd
	m.favorites, cmd = m.favorites.Update(msg)
	return m, cmd
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.Close()
	return m, tea.Quit
}

// updateMap handles keys when no dialog has focus
func (m Model) updateMap(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.favorites.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.favorites, cmd = m.favorites.Update(msg)
		return m, cmd
	}

	st := m.store.State()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.TogglePlay):
		if !st.IsPlaying && !st.IsFabClickable() {
			m.activity = "Pick a location on the map first"
			return m, nil
		}
		m.store.TogglePlaying()
		if m.store.State().IsPlaying {
			m.activity = "Simulating location " + st.LastClickedLocation.String()
		} else {
			m.activity = "Simulation stopped"
		}
		return m, nil

	case key.Matches(msg, m.keys.GoToPoint):
		return m.openDialog(mapstate.DialogGoToPoint)

	case key.Matches(msg, m.keys.AddFavorite):
		return m.openDialog(mapstate.DialogAddToFavorites)

	case key.Matches(msg, m.keys.CenterMap):
		m.store.TriggerCenterMapEvent()
		return m, nil

	case key.Matches(msg, m.keys.ClearMarker):
		m.store.UpdateClickedLocation(nil)
		return m, nil

	case key.Matches(msg, m.keys.Jump):
		if fav, ok := m.selectedFavorite(); ok {
			m.store.GoToPoint(fav.Latitude, fav.Longitude)
			m.activity = "Going to " + fav.Name
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.favorites, cmd = m.favorites.Update(msg)
	return m, cmd
}

// View renders the map screen
func (m Model) View() string {
	content := m.buildContent()

	var helpText string
	if _, ok := focusedDialog(m.store.State()); ok {
		helpText = m.help.View(m.dialogKeys)
	} else {
		helpText = m.help.View(m.keys)
	}
	return RenderApplicationContainer(content, helpText, m.Width, m.Height)
}

func (m Model) buildContent() string {
	st := m.store.State()
	var b strings.Builder

	b.WriteString(PanelStyle.Render(m.renderStatus(st)))
	b.WriteString("\n")

	if m.activity != "" {
		b.WriteString(ActivityStyle.Render(m.activity))
		b.WriteString("\n")
	}

	focused, hasFocus := focusedDialog(st)
	var dialogs []string
	if st.ShowGoToPointDialog {
		dialogs = append(dialogs, m.goToPoint.render(goToPointFields(st.GoToPoint), hasFocus && focused == mapstate.DialogGoToPoint))
	}
	if st.ShowAddToFavoritesDialog {
		dialogs = append(dialogs, m.favorite.render(favoriteFields(st.FavoritesInput), hasFocus && focused == mapstate.DialogAddToFavorites))
	}
	if len(dialogs) > 0 {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, dialogs...))
		b.WriteString("\n")
	}

	if len(m.favorites.Items()) > 0 {
		b.WriteString(m.favorites.View())
	} else {
		b.WriteString(SubtitleStyle.Render("No favorites yet. Press f to save the marker."))
	}
	return b.String()
}

func (m Model) renderStatus(st mapstate.State) string {
	rows := []string{
		RenderRow("Simulation", renderSimulation(st)),
		RenderRow("Marker", renderCoordinate(st.LastClickedLocation, "none, tap the map")),
		RenderRow("Your location", renderCoordinate(st.UserLocation, "unknown")),
	}

	if st.IsLoading {
		rows = append(rows, RenderRow("Map", m.spinner.View()+" Loading map..."))
	} else {
		rows = append(rows, RenderRow("Map", PlayingStyle.Render("Ready")))
	}

	if m.bridge != nil {
		rows = append(rows, RenderRow("Bridge", fmt.Sprintf("port %d, %d surface(s)", m.bridge.Port(), m.bridge.Connections())))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderSimulation(st mapstate.State) string {
	switch {
	case st.IsPlaying:
		return PlayingStyle.Render("● Simulating")
	case st.IsFabClickable():
		return StoppedStyle.Render("○ Stopped")
	default:
		return DisabledStyle.Render("○ Stopped")
	}
}

func renderCoordinate(c *mapstate.Coordinate, empty string) string {
	if c == nil {
		return SubtitleStyle.Render(empty)
	}
	return c.String()
}
