// Package discovery finds and advertises locsim map bridges with mDNS.
//
// A running locsim registers itself as a "_locsim._tcp" service in the
// "local." domain so phones and browsers on the same network can find the
// bridge without typing an address. The TXT record carries the version and
// the WebSocket path.
//
// # Usage Example
//
//	ad, err := discovery.Advertise(discovery.InstanceName(), 8787, version.Version)
//	if err != nil {
//	    return err
//	}
//	defer ad.Shutdown()
//
//	bridges, err := discovery.DiscoverBridges(ctx, 5*time.Second)
//	for _, b := range bridges {
//	    fmt.Println(b.URL())
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Bridges must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
