package finder

import (
	"net"
	"sync"

	"project/internal/logger"
	"project/internal/nettool"
	"project/internal/xpanic"
)

// LiveHost is a candidate host that survived the probe phase, it
// carries the service port that will be attempted.
type LiveHost struct {
	Host string
	Port uint16
}

// Address is used to join the host and the service port.
func (lh *LiveHost) Address() string {
	return nettool.JoinHostPort(lh.Host, lh.Port)
}

// filterAlive reduces the expanded candidates to the hosts that are
// reachable and expose an open service port. Both stages run their
// own bounded probe pool, a stuck probe delays nobody else beyond its
// own timeout. Probe failures drop the candidate, they never stop
// the run. The result preserves the candidate order.
func (task *Task) filterAlive() []*LiveHost {
	candidates := task.hosts
	if !task.cfg.SkipPing {
		task.logf(logger.Info, "ping %d hosts with timeout %s",
			len(candidates), task.cfg.PingTimeout)
		candidates = task.pingFilter(candidates)
		task.logf(logger.Info, "found %d reachable hosts", len(candidates))
	}
	if task.cfg.SkipPortCheck {
		live := make([]*LiveHost, len(candidates))
		for i, host := range candidates {
			live[i] = &LiveHost{Host: host, Port: task.cfg.Port}
		}
		return live
	}
	task.logf(logger.Info, "check port %d on %d hosts", task.cfg.Port, len(candidates))
	live := task.portFilter(candidates)
	task.logf(logger.Info, "found %d hosts with open port", len(live))
	return live
}

// pingFilter probes basic network reachability concurrently, bounded
// by cfg.PingWorker simultaneous probes.
func (task *Task) pingFilter(candidates []string) []string {
	alive := make([]bool, len(candidates))
	task.probe(len(candidates), task.cfg.PingWorker, func(i int) {
		host := candidates[i]
		reachable, err := nettool.Ping(host, task.cfg.PingTimeout)
		if err != nil {
			task.logf(logger.Debug, "failed to ping %s: %s", host, err)
			return
		}
		alive[i] = reachable
	})
	result := make([]string, 0, len(candidates))
	for i, host := range candidates {
		if alive[i] {
			result = append(result, host)
		}
	}
	return result
}

// portFilter checks the service port with a TCP connect, bounded by
// cfg.PingWorker simultaneous probes.
func (task *Task) portFilter(candidates []string) []*LiveHost {
	port := task.cfg.Port
	open := make([]bool, len(candidates))
	task.probe(len(candidates), task.cfg.PingWorker, func(i int) {
		address := nettool.JoinHostPort(candidates[i], port)
		conn, err := net.DialTimeout("tcp", address, task.cfg.PortTimeout)
		if err != nil {
			task.logf(logger.Debug, "port %d is closed on %s: %s", port, candidates[i], err)
			return
		}
		_ = conn.Close()
		open[i] = true
	})
	live := make([]*LiveHost, 0, len(candidates))
	for i, host := range candidates {
		if open[i] {
			live = append(live, &LiveHost{Host: host, Port: port})
		}
	}
	return live
}

// probe runs fn over [0, n) with a bounded worker pool, it returns
// early when the task is killed.
func (task *Task) probe(n, worker int, fn func(i int)) {
	if worker > n {
		worker = n
	}
	indexCh := make(chan int)
	wg := sync.WaitGroup{}
	for i := 0; i < worker; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					task.log(logger.Fatal, xpanic.Printf(r, "Task.probe-%d", id))
				}
			}()
			for i := range indexCh {
				fn(i)
			}
		}(i)
	}
	for i := 0; i < n; i++ {
		select {
		case indexCh <- i:
		case <-task.ctx.Done():
			i = n
		}
	}
	close(indexCh)
	wg.Wait()
}
