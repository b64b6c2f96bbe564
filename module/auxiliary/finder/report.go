package finder

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"time"

	"project/internal/logger"
)

// Class is the classification about one login attempt.
type Class uint8

// classes about login attempt outcome.
const (
	Success Class = iota
	AuthFailed
	ConnectionError
	Timeout
)

func (c Class) String() string {
	switch c {
	case Success:
		return "success"
	case AuthFailed:
		return "auth failed"
	case ConnectionError:
		return "connection error"
	case Timeout:
		return "timeout"
	default:
		return fmt.Sprintf("unknown class: %d", uint8(c))
	}
}

// Outcome is the result about one login attempt, it is immutable
// once produced.
type Outcome struct {
	Host     string
	Port     uint16
	Username string
	Password string
	Class    Class
	Err      error
}

// Command is used to get the equivalent manual ssh command.
func (o *Outcome) Command() string {
	if o.Port != 22 {
		return fmt.Sprintf("ssh %s@%s -p %d", o.Username, o.Host, o.Port)
	}
	return fmt.Sprintf("ssh %s@%s", o.Username, o.Host)
}

// aggregator accumulates outcomes from concurrent workers.
type aggregator struct {
	outcomes []*Outcome
	mu       sync.Mutex
}

func newAggregator() *aggregator {
	return &aggregator{outcomes: make([]*Outcome, 0, 64)}
}

func (agg *aggregator) append(outcome *Outcome) {
	agg.mu.Lock()
	defer agg.mu.Unlock()
	agg.outcomes = append(agg.outcomes, outcome)
}

func (agg *aggregator) snapshot() []*Outcome {
	agg.mu.Lock()
	defer agg.mu.Unlock()
	outcomes := make([]*Outcome, len(agg.outcomes))
	copy(outcomes, agg.outcomes)
	return outcomes
}

// Report is the aggregate over the outcomes that one task recorded,
// it is read-only after construction. A cancelled task produces a
// valid report over the outcomes recorded before the stop.
type Report struct {
	GeneratedAt time.Time

	// Attempted is the number of recorded outcomes, a cancelled
	// task can record less than the full combination space.
	Attempted        int
	Successes        int
	AuthFailed       int
	ConnectionErrors int
	Timeouts         int

	// SuccessRate is a percentage, zero when nothing was attempted.
	SuccessRate float64

	// Cracked contains the successful outcomes ordered by host.
	Cracked []*Outcome

	secret bool
}

// Report is used to build the report, only call it after Wait()
// returned, building it must not race with outcome writers.
func (task *Task) Report() *Report {
	outcomes := task.agg.snapshot()
	report := Report{
		GeneratedAt: time.Now(),
		Attempted:   len(outcomes),
		secret:      task.cfg.SecretMode,
	}
	for _, outcome := range outcomes {
		switch outcome.Class {
		case Success:
			report.Successes++
			report.Cracked = append(report.Cracked, outcome)
		case AuthFailed:
			report.AuthFailed++
		case ConnectionError:
			report.ConnectionErrors++
		case Timeout:
			report.Timeouts++
		}
	}
	if report.Attempted > 0 {
		report.SuccessRate = float64(report.Successes) / float64(report.Attempted) * 100
	}
	sort.SliceStable(report.Cracked, func(i, j int) bool {
		return report.Cracked[i].Host < report.Cracked[j].Host
	})
	return &report
}

// String is used to render the report.
//
// Output:
// ===== LOGIN ATTEMPT REPORT =====
// Generated on: 2020-01-21 12:36:41
// Total combinations attempted: 4
// Successful logins: 1
// Failed attempts: 3 (auth failed: 2, connection error: 1, timeout: 0)
// Success rate: 25.00%
// --------------------------------
// Successful combinations:
//   host: 1.2.3.4 | user: root | password: 123456
//     ssh command: ssh root@1.2.3.4
// ================================
func (report *Report) String() string {
	buf := bytes.NewBuffer(make([]byte, 0, 512))
	buf.WriteString("===== LOGIN ATTEMPT REPORT =====\n")
	_, _ = fmt.Fprintf(buf, "Generated on: %s\n", report.GeneratedAt.Format(logger.TimeLayout))
	_, _ = fmt.Fprintf(buf, "Total combinations attempted: %d\n", report.Attempted)
	_, _ = fmt.Fprintf(buf, "Successful logins: %d\n", report.Successes)
	failed := report.AuthFailed + report.ConnectionErrors + report.Timeouts
	_, _ = fmt.Fprintf(buf, "Failed attempts: %d (auth failed: %d, connection error: %d, timeout: %d)\n",
		failed, report.AuthFailed, report.ConnectionErrors, report.Timeouts)
	_, _ = fmt.Fprintf(buf, "Success rate: %.2f%%\n", report.SuccessRate)
	buf.WriteString("--------------------------------\n")
	if len(report.Cracked) == 0 {
		buf.WriteString("No successful logins recorded.\n")
	} else {
		buf.WriteString("Successful combinations:\n")
		for _, outcome := range report.Cracked {
			password := outcome.Password
			if report.secret {
				password = "********"
			}
			_, _ = fmt.Fprintf(buf, "  host: %s | user: %s | password: %s\n",
				outcome.Host, outcome.Username, password)
			_, _ = fmt.Fprintf(buf, "    ssh command: %s\n", outcome.Command())
		}
	}
	buf.WriteString("================================")
	return buf.String()
}
