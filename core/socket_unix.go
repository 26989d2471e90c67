//go:build unix

package core

import (
	"net"
	"syscall"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

// controlSocket enables SO_REUSEADDR on the listening socket
func controlSocket(network, address string, c syscall.RawConn) error {
	var sockErr error
	err := c.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	})
	if err != nil {
		return err
	}
	return sockErr
}

// tuneConn sets TCP_NODELAY on an accepted TCP connection; other conns are left alone
func tuneConn(conn net.Conn) error {
	tc, ok := conn.(*net.TCPConn)
	if !ok {
		return nil
	}
	raw, err := tc.SyscallConn()
	if err != nil {
		return err
	}

	var sockErr error
	err = raw.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.IPPROTO_TCP, unix.TCP_NODELAY, 1)
	})
	if err != nil {
		return err
	}
	return sockErr
}

// tunedListener applies tuneConn to every accepted connection
type tunedListener struct {
	net.Listener
	logger zerolog.Logger
}

func (l *tunedListener) Accept() (net.Conn, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}
	if err := tuneConn(conn); err != nil {
		l.logger.Warn().Err(err).Msg("set TCP_NODELAY")
	}
	return conn, nil
}
