package nettool

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCheckPort(t *testing.T) {
	err := CheckPort(123)
	require.NoError(t, err)

	for _, port := range [...]int{-1, 65536} {
		err = CheckPort(port)
		require.Errorf(t, err, "invalid port: %d", port)
	}
}

func TestJoinHostPort(t *testing.T) {
	require.Equal(t, "1.1.1.1:123", JoinHostPort("1.1.1.1", 123))
	require.Equal(t, "[::1]:123", JoinHostPort("::1", 123))
}

func TestDeadlineConn(t *testing.T) {
	server, client := net.Pipe()
	defer func() {
		err := server.Close()
		require.NoError(t, err)
		err = client.Close()
		require.NoError(t, err)
	}()
	dc := DeadlineConn(client, 100*time.Millisecond)

	// deadline will interrupt the read on the pipe
	buf := make([]byte, 1)
	_, err := dc.Read(buf)
	require.Error(t, err)

	_, err = dc.Write(buf)
	require.Error(t, err)

	// invalid deadline will be fixed
	dc = DeadlineConn(server, -1)
	require.NotNil(t, dc)
}
