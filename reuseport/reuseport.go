// Package reuseport binds a UDP socket with SO_REUSEADDR (and SO_REUSEPORT
// where the platform supports it) so a restarting process can rebind the
// same port immediately, mirroring the retry dance in the teacher's
// Network.AutoAssignPort.
package reuseport

import (
	"context"
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

// ListenPacket opens a UDP socket at address with SO_REUSEADDR/SO_REUSEPORT
// set before bind, via net.ListenConfig.Control.
func ListenPacket(network, address string) (net.PacketConn, error) {
	lc := net.ListenConfig{Control: control}
	return lc.ListenPacket(context.Background(), network, address)
}

func control(_, _ string, c syscall.RawConn) error {
	var ctrlErr error
	err := c.Control(func(fd uintptr) {
		if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
			ctrlErr = err
			return
		}
		// SO_REUSEPORT is not implemented on every platform x/sys/unix
		// supports; ignore ENOPROTOOPT/ENOTSUP rather than fail the bind.
		if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1); err != nil {
			if err != unix.ENOPROTOOPT && err != unix.ENOTSUP {
				ctrlErr = err
			}
		}
	})
	if err != nil {
		return err
	}
	return ctrlErr
}
