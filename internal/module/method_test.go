package module

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMethod_String(t *testing.T) {
	t.Run("full", func(t *testing.T) {
		method := &Method{
			Name: "Scan",
			Desc: "Scan is used to scan a host with port," +
				" it will return the port status about this host.",
			Args: []*Value{
				{"host", "string"},
				{"port", "uint16"},
			},
			Rets: []*Value{
				{"open", "bool"},
				{"err", "error"},
			},
		}

		str := method.String()
		fmt.Println(str)

		require.Contains(t, str, "Method: Scan")
		require.Contains(t, str, "Description:")
		require.Contains(t, str, "Parameter:")
		require.Contains(t, str, "  host string")
		require.Contains(t, str, "  port uint16")
		require.Contains(t, str, "Return Value:")
		require.Contains(t, str, "  open bool")
		require.Contains(t, str, "  err  error")
	})

	t.Run("no parameter", func(t *testing.T) {
		method := &Method{
			Name: "Kill",
			Desc: "Kill is used to kill current task.",
			Rets: []*Value{
				{"err", "error"},
			},
		}

		str := method.String()
		fmt.Println(str)

		require.Contains(t, str, "Method: Kill")
		require.NotContains(t, str, "Parameter:")
		require.Contains(t, str, "Return Value:")
	})

	t.Run("no description", func(t *testing.T) {
		method := &Method{Name: "Pause"}

		str := method.String()
		fmt.Println(str)

		require.Contains(t, str, "Method: Pause")
		require.Equal(t, 1, strings.Count(str, "Description:"))
	})
}
