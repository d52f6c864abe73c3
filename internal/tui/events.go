package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/locsim/internal/mapstate"
)

// goToPointEventMsg carries a coordinate published on the go-to-point stream
type goToPointEventMsg struct {
	coordinate mapstate.Coordinate
}

// centerMapEventMsg reports a center-map publication
type centerMapEventMsg struct{}

// waitForGoToPoint blocks until the next go-to-point publication. It returns
// nil once the subscription is cancelled.
func waitForGoToPoint(sub *mapstate.Subscription[mapstate.Coordinate]) tea.Cmd {
	return func() tea.Msg {
		select {
		case c := <-sub.C():
			return goToPointEventMsg{coordinate: c}
		case <-sub.Done():
			return nil
		}
	}
}

// waitForCenterMap blocks until the next center-map publication.
func waitForCenterMap(sub *mapstate.Subscription[struct{}]) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-sub.C():
			return centerMapEventMsg{}
		case <-sub.Done():
			return nil
		}
	}
}
