package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Bridge represents a locsim map bridge advertised on the network
type Bridge struct {
	// Instance is the mDNS instance name (e.g., "locsim on studio")
	Instance string

	// Hostname is the mDNS hostname (e.g., "studio.local.")
	Hostname string

	// IP is the address the bridge answered from, IPv4 preferred
	IP string

	// Port is the WebSocket port
	Port int

	// Version is the locsim version from the TXT record
	Version string

	// Metadata contains all mDNS TXT record data
	// Common fields: "version=v0.1.0", "path=/ws"
	Metadata map[string]string

	// DiscoveredAt is when the bridge was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the bridge
func (b *Bridge) String() string {
	return fmt.Sprintf("%s (%s) at %s", b.Instance, b.Hostname, net.JoinHostPort(b.IP, strconv.Itoa(b.Port)))
}

// URL returns the WebSocket URL map surfaces connect to
func (b *Bridge) URL() string {
	path := b.GetMetadata("path")
	if path == "" {
		path = DefaultPath
	}
	return "ws://" + net.JoinHostPort(b.IP, strconv.Itoa(b.Port)) + path
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (b *Bridge) GetMetadata(key string) string {
	if b.Metadata == nil {
		return ""
	}
	return b.Metadata[key]
}
