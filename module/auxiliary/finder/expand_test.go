package finder

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpandTargets(t *testing.T) {
	t.Run("common", func(t *testing.T) {
		targets := []string{"192.168.1.1", "example.com", " 10.0.0.1 ", ""}
		hosts, err := expandTargets(targets)
		require.NoError(t, err)
		require.Equal(t, []string{"192.168.1.1", "example.com", "10.0.0.1"}, hosts)
	})

	t.Run("deduplicate", func(t *testing.T) {
		targets := []string{"192.168.1.1", "192.168.1.1", "192.168.1.0/30"}
		hosts, err := expandTargets(targets)
		require.NoError(t, err)
		require.Equal(t, []string{"192.168.1.1", "192.168.1.2"}, hosts)
	})

	t.Run("deterministic", func(t *testing.T) {
		targets := []string{"10.1.0.0/28", "host-a", "host-b"}
		first, err := expandTargets(targets)
		require.NoError(t, err)
		second, err := expandTargets(targets)
		require.NoError(t, err)
		require.Equal(t, first, second)
	})

	t.Run("invalid token", func(t *testing.T) {
		hosts, err := expandTargets([]string{"not a host!"})
		require.Error(t, err)
		require.Nil(t, hosts)

		parseErr, ok := err.(*ParseError)
		require.True(t, ok)
		require.Equal(t, "not a host!", parseErr.Spec)
		require.Contains(t, err.Error(), "invalid target")
	})

	t.Run("invalid CIDR block", func(t *testing.T) {
		hosts, err := expandTargets([]string{"999.1.1.1/40"})
		require.Error(t, err)
		require.Nil(t, hosts)

		parseErr, ok := err.(*ParseError)
		require.True(t, ok)
		require.Equal(t, "999.1.1.1/40", parseErr.Spec)
	})
}

func TestExpandCIDR(t *testing.T) {
	t.Run("skip network and broadcast", func(t *testing.T) {
		hosts, err := expandCIDR("192.168.1.0/30")
		require.NoError(t, err)
		require.Equal(t, []string{"192.168.1.1", "192.168.1.2"}, hosts)
	})

	t.Run("point to point", func(t *testing.T) {
		hosts, err := expandCIDR("192.168.1.0/31")
		require.NoError(t, err)
		require.Equal(t, []string{"192.168.1.0", "192.168.1.1"}, hosts)
	})

	t.Run("single host", func(t *testing.T) {
		hosts, err := expandCIDR("192.168.1.1/32")
		require.NoError(t, err)
		require.Equal(t, []string{"192.168.1.1"}, hosts)
	})

	t.Run("base address is masked", func(t *testing.T) {
		hosts, err := expandCIDR("192.168.1.77/30")
		require.NoError(t, err)
		require.Equal(t, []string{"192.168.1.77", "192.168.1.78"}, hosts)
	})

	t.Run("carry over octet", func(t *testing.T) {
		hosts, err := expandCIDR("10.0.0.0/23")
		require.NoError(t, err)
		require.Len(t, hosts, 510)
		require.Equal(t, "10.0.0.1", hosts[0])
		require.Equal(t, "10.0.1.254", hosts[509])
	})

	t.Run("IPv6", func(t *testing.T) {
		hosts, err := expandCIDR("2001:db8::/126")
		require.NoError(t, err)
		require.Len(t, hosts, 4)
		require.Equal(t, "2001:db8::", hosts[0])
	})

	t.Run("too many addresses", func(t *testing.T) {
		hosts, err := expandCIDR("10.0.0.0/8")
		require.Error(t, err)
		require.Nil(t, hosts)
	})

	t.Run("not a CIDR block", func(t *testing.T) {
		hosts, err := expandCIDR("foo/bar")
		require.Error(t, err)
		require.Nil(t, hosts)
	})
}

func TestIsHostname(t *testing.T) {
	for _, hostname := range []string{
		"localhost",
		"example.com",
		"a-b.example.com",
		"EXAMPLE.COM",
	} {
		require.True(t, isHostname(hostname), hostname)
	}
	for _, hostname := range []string{
		"",
		"-example.com",
		"example-.com",
		"exa mple.com",
		"example..com",
		"example.com!",
	} {
		require.False(t, isHostname(hostname), hostname)
	}
}

func TestDeduplicate(t *testing.T) {
	s := []string{"a", "b", "a", "c", "b"}
	require.Equal(t, []string{"a", "b", "c"}, deduplicate(s))
	require.Empty(t, deduplicate(nil))
}
