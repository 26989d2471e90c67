//go:build !unix

package core

import (
	"net"
	"syscall"

	"github.com/rs/zerolog"
)

func controlSocket(network, address string, c syscall.RawConn) error {
	return nil
}

type tunedListener struct {
	net.Listener
	logger zerolog.Logger
}
