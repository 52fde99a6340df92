package cluster

import (
	"context"
	"fmt"
	"net"
)

// Listen opens a TCP listener with SO_REUSEPORT set, so every worker process can bind the same
// address and the kernel spreads incoming connections across them.
func Listen(ctx context.Context, addr string) (net.Listener, error) {
	lc := net.ListenConfig{Control: reusePort}

	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	return ln, nil
}
