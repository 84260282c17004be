//go:build !linux

package rawhttp

import (
	"context"
	"net"
)

// listenTCP falls back to the runtime listener. Go enables SO_REUSEADDR on unix listeners by
// itself; the backlog is the operating system default.
func listenTCP(addr string, _ int) (net.Listener, error) {
	var lc net.ListenConfig
	return lc.Listen(context.Background(), "tcp", addr)
}
