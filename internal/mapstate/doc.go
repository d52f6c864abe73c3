// Package mapstate holds the presentation state of the map screen.
//
// The Store tracks whether simulated movement is playing, the last location
// tapped on the map, the device's real location, the loading flag and the
// two modal dialogs ("go to point" and "add to favorites"). Dialog inputs are
// modelled as Fields: a raw string plus the message produced by the most
// recent validation attempt.
//
// # State Updates
//
// State is a value record. Every Store operation builds a new record from the
// current one and replaces it, then notifies observers registered with
// Store.Subscribe:
//
//	store := mapstate.NewStore(ctx, gateway)
//	defer store.Close()
//
//	unsubscribe := store.Subscribe(func(s mapstate.State) {
//	    render(s)
//	})
//	defer unsubscribe()
//
//	store.UpdateGoToPointField(mapstate.PointLatitude, "45")
//	store.UpdateGoToPointField(mapstate.PointLongitude, "90")
//	store.ValidateAndGo(store.GoToPoint)
//
// # Validation
//
// Validation failures are data. A failing field carries a fixed message in
// ErrorMessage and the success callback of the surrounding operation is not
// invoked. No operation in this package returns an error.
//
// # Events
//
// Two one-shot streams are exposed to the map surface: GoToPointEvents
// carries a Coordinate, CenterMapEvents carries no payload. Both are
// multicast and unbuffered. A publish reaches the subscribers attached at
// the moment of the call and nobody else; with no subscribers it is dropped.
// Delivery happens on goroutines owned by the Store's session and is
// cancelled by Store.Close. A subscriber that stops reading delays only
// itself.
//
// # Thread Safety
//
// State is owned by a single goroutine (the UI loop). The Store does not
// lock its state; only the event broadcasters are safe for concurrent use.
package mapstate
