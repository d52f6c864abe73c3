// Package tui implements the terminal front-end of locsim.
//
// The map screen (Model) shows the simulation status, the marker picked on
// the map, the device's real location and the saved favorites. Two dialogs
// collect coordinates: "go to point" moves the map camera and "add to
// favorites" saves a named location. Both are thin views over a
// mapstate.Store; the text inputs mirror the store's fields and every
// keystroke is routed back to it, so validation messages always come from
// the store.
//
// # Ownership
//
// Bubble Tea runs Update on a single goroutine. The model treats that
// goroutine as the owner of the store. Messages decoded by the map bridge are
// injected with tea.Program.Send and applied inside Update:
//
//	var program *tea.Program
//	server := bridge.New(cfg, store, func(msg any) { program.Send(msg) })
//	model := tui.NewModel(store, tui.Options{Favorites: file, Bridge: server})
//	program = tea.NewProgram(model, tea.WithAltScreen())
//	go server.Serve()
//
// The model subscribes to both event streams so the activity line can show
// where the camera went.
//
// # Framework Components
//
//   - bubbles/spinner: map loading indicator
//   - bubbles/textinput: dialog inputs
//   - bubbles/list: favorites with filtering
//   - bubbles/help and bubbles/key: context-aware key help
//   - bubbles/progress: mDNS browse countdown on the scan screen
//   - lipgloss: styling and layout
package tui
