package finder

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"project/internal/logger"
)

func TestOutcome_Command(t *testing.T) {
	outcome := Outcome{Host: "1.2.3.4", Port: 22, Username: "root"}
	require.Equal(t, "ssh root@1.2.3.4", outcome.Command())

	outcome.Port = 2222
	require.Equal(t, "ssh root@1.2.3.4 -p 2222", outcome.Command())
}

func TestClass_String(t *testing.T) {
	require.Equal(t, "success", Success.String())
	require.Equal(t, "auth failed", AuthFailed.String())
	require.Equal(t, "connection error", ConnectionError.String())
	require.Equal(t, "timeout", Timeout.String())
	require.Equal(t, "unknown class: 123", Class(123).String())
}

func testReportTask(t *testing.T, secret bool) *Task {
	cfg := TaskConfig{
		Targets:    []string{"1.2.3.4"},
		Usernames:  []string{"root"},
		Passwords:  []string{"123456"},
		SecretMode: secret,
	}
	cp, err := cfg.Apply()
	require.NoError(t, err)
	task := newTask(logger.Test, 1, cp, nil, []string{"1.2.3.4"})
	task.cancel()
	return task
}

func TestTask_Report(t *testing.T) {
	task := testReportTask(t, false)

	outcomes := []*Outcome{
		{Host: "5.6.7.8", Port: 22, Username: "root", Password: "admin", Class: Success},
		{Host: "1.2.3.4", Port: 22, Username: "root", Password: "123456", Class: Success},
		{Host: "1.2.3.4", Port: 22, Username: "root", Password: "admin", Class: AuthFailed,
			Err: ErrInvalidCred},
		{Host: "5.6.7.8", Port: 22, Username: "root", Password: "123456", Class: ConnectionError,
			Err: errors.New("connection refused")},
		{Host: "9.9.9.9", Port: 22, Username: "root", Password: "123456", Class: Timeout},
	}
	for _, outcome := range outcomes {
		task.agg.append(outcome)
	}

	report := task.Report()
	require.Equal(t, 5, report.Attempted)
	require.Equal(t, 2, report.Successes)
	require.Equal(t, 1, report.AuthFailed)
	require.Equal(t, 1, report.ConnectionErrors)
	require.Equal(t, 1, report.Timeouts)
	require.Equal(t, 40.0, report.SuccessRate)

	// counters always add up to the attempted number
	failed := report.AuthFailed + report.ConnectionErrors + report.Timeouts
	require.Equal(t, report.Attempted, report.Successes+failed)

	// cracked combinations are ordered by host
	require.Len(t, report.Cracked, 2)
	require.Equal(t, "1.2.3.4", report.Cracked[0].Host)
	require.Equal(t, "5.6.7.8", report.Cracked[1].Host)
}

func TestReport_String(t *testing.T) {
	t.Run("common", func(t *testing.T) {
		task := testReportTask(t, false)
		task.agg.append(&Outcome{
			Host: "1.2.3.4", Port: 22, Username: "root", Password: "123456", Class: Success,
		})
		task.agg.append(&Outcome{
			Host: "1.2.3.4", Port: 22, Username: "root", Password: "admin", Class: AuthFailed,
		})

		output := task.Report().String()
		fmt.Println(output)

		require.Contains(t, output, "===== LOGIN ATTEMPT REPORT =====")
		require.Contains(t, output, "Total combinations attempted: 2")
		require.Contains(t, output, "Successful logins: 1")
		require.Contains(t, output, "Failed attempts: 1 (auth failed: 1, connection error: 0, timeout: 0)")
		require.Contains(t, output, "Success rate: 50.00%")
		require.Contains(t, output, "host: 1.2.3.4 | user: root | password: 123456")
		require.Contains(t, output, "ssh command: ssh root@1.2.3.4")
	})

	t.Run("secret mode", func(t *testing.T) {
		task := testReportTask(t, true)
		task.agg.append(&Outcome{
			Host: "1.2.3.4", Port: 22, Username: "root", Password: "123456", Class: Success,
		})

		output := task.Report().String()

		require.NotContains(t, output, "123456")
		require.Contains(t, output, "password: ********")
	})

	t.Run("empty report", func(t *testing.T) {
		task := testReportTask(t, false)

		output := task.Report().String()

		require.Contains(t, output, "Total combinations attempted: 0")
		require.Contains(t, output, "Success rate: 0.00%")
		require.Contains(t, output, "No successful logins recorded.")
	})
}
