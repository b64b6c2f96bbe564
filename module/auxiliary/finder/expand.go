package finder

import (
	"fmt"
	"net"
	"strings"

	"github.com/pkg/errors"
)

// each CIDR block can expand to 65536 addresses at most, a larger
// block is almost always a typo about the prefix length.
const maxCIDRHostBits = 16

// ParseError is an error about a malformed target token, it aborts
// the run before any network I/O.
type ParseError struct {
	Spec string
	Err  error
}

func (pe *ParseError) Error() string {
	return fmt.Sprintf("invalid target %q: %s", pe.Spec, pe.Err)
}

// expandTargets turns raw host and CIDR tokens into a deduplicated
// host list, the same input always produces the same output. It is a
// pure function, host names are carried as-is and resolved at probe
// time.
func expandTargets(targets []string) ([]string, error) {
	hosts := make([]string, 0, len(targets))
	for _, target := range targets {
		target = strings.TrimSpace(target)
		if target == "" {
			continue
		}
		if strings.Contains(target, "/") {
			expanded, err := expandCIDR(target)
			if err != nil {
				return nil, &ParseError{Spec: target, Err: err}
			}
			hosts = append(hosts, expanded...)
			continue
		}
		if net.ParseIP(target) == nil && !isHostname(target) {
			return nil, &ParseError{Spec: target, Err: errors.New("not an IP address or host name")}
		}
		hosts = append(hosts, target)
	}
	return deduplicate(hosts), nil
}

// expandCIDR expands a CIDR block to the usable addresses inside it.
// Like most network tools, the network and broadcast addresses of an
// IPv4 block are excluded, /31 and /32 yield all their addresses.
func expandCIDR(spec string) ([]string, error) {
	_, ipNet, err := net.ParseCIDR(spec)
	if err != nil {
		return nil, errors.New("not a CIDR block")
	}
	ones, bits := ipNet.Mask.Size()
	hostBits := bits - ones
	if hostBits > maxCIDRHostBits {
		return nil, errors.Errorf("block contains too many addresses (maximum 2^%d)", maxCIDRHostBits)
	}
	total := 1 << hostBits
	skipEdges := bits == net.IPv4len*8 && hostBits >= 2
	hosts := make([]string, 0, total)
	for i := 0; i < total; i++ {
		if skipEdges && (i == 0 || i == total-1) {
			continue
		}
		hosts = append(hosts, addOffset(ipNet.IP, i).String())
	}
	return hosts, nil
}

// addOffset returns ip + offset, ip is the network base address.
func addOffset(ip net.IP, offset int) net.IP {
	result := make(net.IP, len(ip))
	copy(result, ip)
	for i := len(result) - 1; i >= 0 && offset > 0; i-- {
		offset += int(result[i])
		result[i] = byte(offset)
		offset >>= 8
	}
	return result
}

// isHostname reports whether the token is a syntactically valid host
// name: dot separated labels of letters, digits and hyphens, labels
// don't begin or end with a hyphen.
func isHostname(s string) bool {
	if len(s) == 0 || len(s) > 253 {
		return false
	}
	for _, label := range strings.Split(s, ".") {
		if len(label) == 0 || len(label) > 63 {
			return false
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
		for i := 0; i < len(label); i++ {
			c := label[i]
			switch {
			case c >= 'a' && c <= 'z':
			case c >= 'A' && c <= 'Z':
			case c >= '0' && c <= '9':
			case c == '-':
			default:
				return false
			}
		}
	}
	return true
}
