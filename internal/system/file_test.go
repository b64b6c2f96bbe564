package system

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenFile(t *testing.T) {
	const name = "testdata/file/test.dat"
	defer func() {
		err := os.RemoveAll("testdata/file")
		require.NoError(t, err)
	}()

	file, err := OpenFile(name, os.O_CREATE|os.O_APPEND, 0600)
	require.NoError(t, err)

	err = file.Close()
	require.NoError(t, err)
}
