package nettool

import (
	"net"
	"os"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

// icmp protocol numbers, see golang.org/x/net/internal/iana.
const (
	protocolICMP     = 1
	protocolIPv6ICMP = 58
)

var pingSeq uint32

// Ping is used to check host basic network reachability with an ICMP
// echo request. It will send echo request with a raw socket first, if
// there is no permission, fall back to an unprivileged datagram socket.
// A host that does not reply within the timeout is unreachable, it is
// not an error.
func Ping(host string, timeout time.Duration) (bool, error) {
	addr, err := net.ResolveIPAddr("ip", host)
	if err != nil {
		return false, errors.WithMessage(err, "failed to resolve host")
	}
	if addr.IP.To4() != nil {
		return ping(addr, timeout, "ip4:icmp", "udp4", protocolICMP,
			ipv4.ICMPTypeEcho, ipv4.ICMPTypeEchoReply)
	}
	return ping(addr, timeout, "ip6:ipv6-icmp", "udp6", protocolIPv6ICMP,
		ipv6.ICMPTypeEchoRequest, ipv6.ICMPTypeEchoReply)
}

func ping(addr *net.IPAddr, timeout time.Duration, raw, udp string,
	proto int, echo, reply icmp.Type) (bool, error) {
	var dst net.Addr = addr
	conn, err := icmp.ListenPacket(raw, "")
	if err != nil {
		// no raw socket permission
		conn, err = icmp.ListenPacket(udp, "")
		if err != nil {
			return false, errors.WithMessage(err, "failed to listen icmp packet")
		}
		dst = &net.UDPAddr{IP: addr.IP, Zone: addr.Zone}
	}
	defer func() { _ = conn.Close() }()
	id := os.Getpid() & 0xffff
	seq := int(atomic.AddUint32(&pingSeq, 1) & 0xffff)
	msg := icmp.Message{
		Type: echo,
		Body: &icmp.Echo{
			ID:   id,
			Seq:  seq,
			Data: []byte("are you alive"),
		},
	}
	b, err := msg.Marshal(nil)
	if err != nil {
		return false, errors.WithMessage(err, "failed to marshal echo request")
	}
	_, err = conn.WriteTo(b, dst)
	if err != nil {
		return false, errors.WithMessage(err, "failed to send echo request")
	}
	_ = conn.SetReadDeadline(time.Now().Add(timeout))
	buf := make([]byte, 1500)
	for {
		n, _, err := conn.ReadFrom(buf)
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				return false, nil
			}
			return false, errors.WithMessage(err, "failed to read echo reply")
		}
		resp, err := icmp.ParseMessage(proto, buf[:n])
		if err != nil {
			continue
		}
		if resp.Type != reply {
			continue
		}
		// the kernel rewrites the identifier on datagram sockets,
		// only check it for raw sockets
		if e, ok := resp.Body.(*icmp.Echo); ok && e.Seq == seq {
			return true, nil
		}
	}
}
