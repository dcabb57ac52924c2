// Package netaddr holds the normalized network-endpoint value type shared by
// the room store, the session state and the wire protocol.
package netaddr

import (
	"fmt"
	"net"
)

// IPVersion is the address family an Endpoint's address belongs to.
type IPVersion uint8

const (
	IPVersionV4 IPVersion = iota
	IPVersionV6
)

func (v IPVersion) String() string {
	if v == IPVersionV4 {
		return "v4"
	}
	return "v6"
}

// v4MappedPrefix is the 12-byte prefix that marks an IPv4 address embedded in
// a 16-byte IPv6-shaped field, per RFC 4291 §2.5.5.2.
var v4MappedPrefix = [12]byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0xff, 0xff}

// Endpoint is a 16-byte address plus a 16-bit port, always stored with IPv4
// addresses normalized to their ::ffff:a.b.c.d form so equality, hashing and
// logging agree regardless of which family the client connected over.
type Endpoint struct {
	Address [16]byte
	Port    uint16
}

// FromNetAddr normalizes a net.Addr (as returned by net.Conn.RemoteAddr) into
// an Endpoint. Only *net.TCPAddr and *net.UDPAddr are understood.
func FromNetAddr(addr net.Addr) (Endpoint, error) {
	var ip net.IP
	var port int
	switch a := addr.(type) {
	case *net.TCPAddr:
		ip, port = a.IP, a.Port
	case *net.UDPAddr:
		ip, port = a.IP, a.Port
	default:
		return Endpoint{}, fmt.Errorf("netaddr: unsupported address type %T", addr)
	}
	return FromIPPort(ip, port)
}

// FromIPPort normalizes a net.IP and port into an Endpoint.
func FromIPPort(ip net.IP, port int) (Endpoint, error) {
	if ip == nil {
		return Endpoint{}, fmt.Errorf("netaddr: nil IP")
	}
	if port < 0 || port > 0xffff {
		return Endpoint{}, fmt.Errorf("netaddr: port %d out of range", port)
	}
	var e Endpoint
	if v4 := ip.To4(); v4 != nil {
		copy(e.Address[:12], v4MappedPrefix[:])
		copy(e.Address[12:], v4)
	} else {
		v6 := ip.To16()
		if v6 == nil {
			return Endpoint{}, fmt.Errorf("netaddr: invalid IP %v", ip)
		}
		copy(e.Address[:], v6)
	}
	e.Port = uint16(port)
	return e, nil
}

// WithPort returns a copy of e with the port replaced, keeping the address.
// Used to build game_host_endpoint from a session's remote TCP endpoint plus
// the host's self-declared game port.
func (e Endpoint) WithPort(port uint16) Endpoint {
	e.Port = port
	return e
}

// IPVersion reports whether Address is the v4-mapped form or a native v6
// address, by inspecting the 12-byte prefix.
func (e Endpoint) IPVersion() IPVersion {
	if [12]byte(e.Address[:12]) == v4MappedPrefix {
		return IPVersionV4
	}
	return IPVersionV6
}

// IP returns the net.IP this Endpoint represents, collapsed to 4 bytes when
// it is a v4-mapped address.
func (e Endpoint) IP() net.IP {
	if e.IPVersion() == IPVersionV4 {
		ip := make(net.IP, 4)
		copy(ip, e.Address[12:])
		return ip
	}
	ip := make(net.IP, 16)
	copy(ip, e.Address[:])
	return ip
}

// String renders the endpoint as "ip:port" for logging.
func (e Endpoint) String() string {
	return fmt.Sprintf("%s:%d", e.IP(), e.Port)
}

// Equal reports whether two endpoints have the same normalized address and
// port.
func (e Endpoint) Equal(other Endpoint) bool {
	return e.Address == other.Address && e.Port == other.Port
}
