package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/locsim/internal/mapstate"
)

// form holds the text inputs of one dialog. Values mirror the dialog's
// Fields in the store; the store stays the source of truth.
type form struct {
	title  string
	labels []string
	inputs []textinput.Model
	focus  int
}

func newInput(placeholder string, charLimit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = charLimit
	in.Width = 32
	in.Prompt = "› "
	in.PromptStyle = BlurredInputStyle
	return in
}

func newGoToPointForm() form {
	return form{
		title:  "Go to point",
		labels: []string{"Latitude", "Longitude"},
		inputs: []textinput.Model{
			newInput("40.4168", 24),
			newInput("-3.7038", 24),
		},
	}
}

func newFavoriteForm() form {
	return form{
		title:  "Add to favorites",
		labels: []string{"Name", "Latitude", "Longitude"},
		inputs: []textinput.Model{
			newInput("Home", 64),
			newInput("40.4168", 24),
			newInput("-3.7038", 24),
		},
	}
}

// setFocus moves keyboard focus to input i, wrapping around.
func (f *form) setFocus(i int) tea.Cmd {
	n := len(f.inputs)
	f.focus = ((i % n) + n) % n
	var cmd tea.Cmd
	for idx := range f.inputs {
		if idx == f.focus {
			cmd = f.inputs[idx].Focus()
			f.inputs[idx].PromptStyle = FocusedInputStyle
			continue
		}
		f.inputs[idx].Blur()
		f.inputs[idx].PromptStyle = BlurredInputStyle
	}
	return cmd
}

func (f *form) blur() {
	for idx := range f.inputs {
		f.inputs[idx].Blur()
		f.inputs[idx].PromptStyle = BlurredInputStyle
	}
}

// sync copies values from the store into inputs that differ.
func (f *form) sync(fields []mapstate.Field) {
	for idx, field := range fields {
		if idx < len(f.inputs) && f.inputs[idx].Value() != field.Value {
			f.inputs[idx].SetValue(field.Value)
		}
	}
}

func (f form) render(fields []mapstate.Field, focused bool) string {
	var b strings.Builder
	b.WriteString(RenderTitle(f.title))
	b.WriteString("\n")
	for idx, in := range f.inputs {
		label := LabelStyle.Render(f.labels[idx])
		b.WriteString(label + in.View())
		b.WriteString("\n")
		if idx < len(fields) && !fields[idx].Valid() {
			b.WriteString(FieldErrorStyle.Render(fields[idx].ErrorMessage))
			b.WriteString("\n")
		}
	}
	return DialogStyle(focused).Render(strings.TrimRight(b.String(), "\n"))
}

func goToPointFields(s mapstate.GoToPointState) []mapstate.Field {
	return []mapstate.Field{s.Latitude, s.Longitude}
}

func favoriteFields(s mapstate.FavoritesInputState) []mapstate.Field {
	return []mapstate.Field{s.Name, s.Latitude, s.Longitude}
}

var (
	pointFieldOrder    = []mapstate.PointField{mapstate.PointLatitude, mapstate.PointLongitude}
	favoriteFieldOrder = []mapstate.FavoriteField{mapstate.FavoriteName, mapstate.FavoriteLatitude, mapstate.FavoriteLongitude}
)

// focusedDialog returns the dialog that receives keystrokes. Both flags may
// be set; go-to-point wins.
func focusedDialog(s mapstate.State) (mapstate.Dialog, bool) {
	switch {
	case s.ShowGoToPointDialog:
		return mapstate.DialogGoToPoint, true
	case s.ShowAddToFavoritesDialog:
		return mapstate.DialogAddToFavorites, true
	default:
		return 0, false
	}
}

func otherDialog(d mapstate.Dialog) mapstate.Dialog {
	if d == mapstate.DialogGoToPoint {
		return mapstate.DialogAddToFavorites
	}
	return mapstate.DialogGoToPoint
}

func (m *Model) formFor(d mapstate.Dialog) *form {
	if d == mapstate.DialogGoToPoint {
		return &m.goToPoint
	}
	return &m.favorite
}

// openDialog shows d and gives it keyboard focus.
func (m Model) openDialog(d mapstate.Dialog) (tea.Model, tea.Cmd) {
	switch d {
	case mapstate.DialogGoToPoint:
		m.store.ShowGoToPointDialog()
	case mapstate.DialogAddToFavorites:
		if loc := m.store.State().LastClickedLocation; loc != nil {
			lat, lon := loc.Latitude, loc.Longitude
			m.store.PrefillCoordinatesFromMarker(&lat, &lon)
		}
		m.store.ShowAddToFavoritesDialog()
	}
	m.syncForms()
	return m, m.refocus()
}

// refocus gives keyboard focus to the focused dialog's current input and
// blurs everything else.
func (m *Model) refocus() tea.Cmd {
	d, ok := focusedDialog(m.store.State())
	if !ok {
		m.goToPoint.blur()
		m.favorite.blur()
		return nil
	}
	m.formFor(otherDialog(d)).blur()
	f := m.formFor(d)
	return f.setFocus(f.focus)
}

func (m *Model) syncForms() {
	st := m.store.State()
	m.goToPoint.sync(goToPointFields(st.GoToPoint))
	m.favorite.sync(favoriteFields(st.FavoritesInput))
}

func (m Model) updateDialog(d mapstate.Dialog, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.formFor(d)

	switch {
	case key.Matches(msg, m.dialogKeys.Cancel):
		m.closeDialog(d)
		m.syncForms()
		return m, m.refocus()

	case key.Matches(msg, m.dialogKeys.Next):
		return m, f.setFocus(f.focus + 1)

	case key.Matches(msg, m.dialogKeys.Prev):
		return m, f.setFocus(f.focus - 1)

	case key.Matches(msg, m.dialogKeys.Submit):
		m.submit(d)
		m.syncForms()
		return m, m.refocus()
	}

	// Dialogs opened from outside the keyboard have no focused input yet
	var focusCmd tea.Cmd
	if !f.inputs[f.focus].Focused() {
		m.formFor(otherDialog(d)).blur()
		focusCmd = f.setFocus(f.focus)
	}

	before := f.inputs[f.focus].Value()
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	if after := f.inputs[f.focus].Value(); after != before {
		switch d {
		case mapstate.DialogGoToPoint:
			m.store.UpdateGoToPointField(pointFieldOrder[f.focus], after)
		case mapstate.DialogAddToFavorites:
			m.store.UpdateAddToFavoritesField(favoriteFieldOrder[f.focus], after)
		}
	}
	return m, tea.Batch(focusCmd, cmd)
}

func (m *Model) closeDialog(d mapstate.Dialog) {
	switch d {
	case mapstate.DialogGoToPoint:
		m.store.HideGoToPointDialog()
	case mapstate.DialogAddToFavorites:
		m.store.HideAddToFavoritesDialog()
	}
}

// submit runs the dialog's validate-and-act flow. On success the inputs are
// cleared and the dialog closes; on failure the error messages stay on
// screen.
func (m *Model) submit(d mapstate.Dialog) {
	switch d {
	case mapstate.DialogGoToPoint:
		m.store.ValidateAndGo(func(lat, lon float64) {
			m.store.GoToPoint(lat, lon)
			m.store.ClearGoToPointInputs()
			m.store.HideGoToPointDialog()
			m.goToPoint.focus = 0
		})

	case mapstate.DialogAddToFavorites:
		m.store.ValidateAndAddFavorite(func(name string, lat, lon float64) {
			m.store.AddFavoriteLocation(mapstate.FavoriteLocation{Name: name, Latitude: lat, Longitude: lon})
			m.store.ClearAddToFavoritesInputs()
			m.store.HideAddToFavoritesDialog()
			m.favorite.focus = 0
			m.refreshFavorites()
			m.activity = "Saved favorite " + name
		})
	}
}
