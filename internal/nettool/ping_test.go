package nettool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPing(t *testing.T) {
	t.Run("loopback", func(t *testing.T) {
		reachable, err := Ping("127.0.0.1", time.Second)
		if err != nil {
			t.Skip("no icmp socket permission:", err)
		}
		require.True(t, reachable)
	})

	t.Run("invalid host", func(t *testing.T) {
		reachable, err := Ping("host.invalid", time.Second)
		require.Error(t, err)
		require.False(t, reachable)
	})
}
