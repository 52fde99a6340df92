//go:build !unix

package cluster

import (
	"errors"
	"syscall"
)

var errReusePortUnsupported = errors.New("SO_REUSEPORT is not supported on this platform")

func reusePort(_, _ string, _ syscall.RawConn) error {
	return errReusePortUnsupported
}
