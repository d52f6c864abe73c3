// Package bridge connects map surfaces to the map state over WebSocket.
//
// A map surface is anything that draws the map: a browser page, a phone on
// the same network or a test client. Each surface opens /ws and receives JSON
// text frames:
//
//	{"type":"hello","version":"v0.1.0","protocol":1}
//	{"type":"state","state":{"is_playing":false,"is_loading":true,"fab_clickable":true,...}}
//	{"type":"go_to_point","latitude":40.4168,"longitude":-3.7038}
//	{"type":"center_map"}
//
// Surfaces report back with map_click, map_clear, user_location and
// map_ready frames. The server decodes them and hands them to a Dispatcher,
// which forwards them to the goroutine that owns the store. That goroutine
// calls Apply, so the store is only ever mutated from one place.
//
// Every connection subscribes to both event streams before it is sent its
// hello frame. An event published after a surface has read hello is
// guaranteed to reach it.
//
// user_location frames are throttled per connection with a token bucket;
// fixes over the limit are dropped.
package bridge
