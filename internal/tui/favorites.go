package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/locsim/internal/mapstate"
)

// FavoriteSource lists saved favorites. persistence.File satisfies it.
type FavoriteSource interface {
	Favorites() []mapstate.FavoriteLocation
}

// favoriteItem wraps a FavoriteLocation for use with bubbles/list
type favoriteItem struct {
	favorite mapstate.FavoriteLocation
}

// Implement list.Item interface
func (f favoriteItem) FilterValue() string {
	return f.favorite.Name
}

// favoriteDelegate renders one favorite per line
type favoriteDelegate struct{}

func (d favoriteDelegate) Height() int { return 1 }

func (d favoriteDelegate) Spacing() int { return 0 }

func (d favoriteDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d favoriteDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	fav, ok := item.(favoriteItem)
	if !ok {
		return
	}
	coord := mapstate.Coordinate{Latitude: fav.favorite.Latitude, Longitude: fav.favorite.Longitude}
	line := fmt.Sprintf("%-20s %s", fav.favorite.Name, SubtitleStyle.Render(coord.String()))
	if index == m.Index() {
		_, _ = fmt.Fprint(w, FocusedInputStyle.Render("→ ")+line)
		return
	}
	_, _ = fmt.Fprint(w, "  "+line)
}

func newFavoriteList() list.Model {
	l := list.New([]list.Item{}, favoriteDelegate{}, DefaultWidth, 8)
	l.Title = "Favorites"
	l.Styles.Title = TitleStyle
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.KeyMap.Quit.SetEnabled(false)
	l.SetStatusBarItemName("favorite", "favorites")
	return l
}

func favoriteItems(favs []mapstate.FavoriteLocation) []list.Item {
	items := make([]list.Item, 0, len(favs))
	for _, f := range favs {
		items = append(items, favoriteItem{favorite: f})
	}
	return items
}

// refreshFavorites reloads the list from the favorite source.
func (m *Model) refreshFavorites() {
	if m.favoriteSource == nil {
		return
	}
	m.favorites.SetItems(favoriteItems(m.favoriteSource.Favorites()))
}

// selectedFavorite returns the highlighted favorite, if any.
func (m Model) selectedFavorite() (mapstate.FavoriteLocation, bool) {
	item, ok := m.favorites.SelectedItem().(favoriteItem)
	if !ok {
		return mapstate.FavoriteLocation{}, false
	}
	return item.favorite, true
}
