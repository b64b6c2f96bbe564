package finder

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/creasty/defaults"
	"github.com/mohae/deepcopy"
	"github.com/pkg/errors"

	"project/internal/logger"
	"project/internal/task/pauser"
	"project/internal/xpanic"
)

// Login is the callback to the finder instance, if login successfully
// it will return true. Return ErrInvalidCred if the target rejected
// the credential, other errors mean the attempt itself failed.
type Login func(ctx context.Context, address, username, password string) (bool, error)

// ErrInvalidCred is a error about login, the finder record it as a
// rejected credential, not a connection error.
var ErrInvalidCred = fmt.Errorf("invalid username or password")

// TaskConfig contains finder task configuration.
type TaskConfig struct {
	Targets   []string `toml:"targets"`
	Usernames []string `toml:"usernames"`
	Passwords []string `toml:"passwords"`

	SkipPing    bool          `toml:"skip_ping"`
	PingTimeout time.Duration `toml:"ping_timeout" default:"1s"`
	PingWorker  int           `toml:"ping_worker" default:"100"`

	SkipPortCheck bool          `toml:"skip_port_check"`
	Port          uint16        `toml:"port" default:"22"`
	PortTimeout   time.Duration `toml:"port_timeout" default:"1s"`

	Worker        int           `toml:"worker" default:"100"`
	Timeout       time.Duration `toml:"timeout" default:"30s"`
	Interval      time.Duration `toml:"interval" default:"10ms"`
	StopOnSuccess bool          `toml:"stop_on_success"`

	// SecretMode is used to mask passwords in log and report.
	SecretMode bool `toml:"secret_mode"`
}

// Apply is used to apply default value and check value range.
func (cfg *TaskConfig) Apply() (*TaskConfig, error) {
	cp := deepcopy.Copy(cfg).(*TaskConfig)
	err := defaults.Set(cp)
	if err != nil {
		return nil, err
	}
	err = cp.check()
	if err != nil {
		return nil, err
	}
	return cp, nil
}

func (cfg *TaskConfig) check() error {
	switch {
	case len(cfg.Targets) == 0:
		return errors.New("empty targets")
	case len(cfg.Usernames) == 0:
		return errors.New("empty usernames")
	case len(cfg.Passwords) == 0:
		return errors.New("empty passwords")
	case cfg.PingTimeout < 1:
		return errors.New("ping timeout must greater than zero")
	case cfg.PingWorker < 1:
		return errors.New("ping worker must greater than zero")
	case cfg.PortTimeout < 1:
		return errors.New("port timeout must greater than zero")
	case cfg.Worker < 1:
		return errors.New("worker must greater than zero")
	case cfg.Timeout < 1:
		return errors.New("timeout must greater than zero")
	case cfg.Interval < 0:
		return errors.New("negative interval")
	}
	return nil
}

// Task is one finder run over the expanded targets. Combinations are
// submitted in a deterministic order: usernames, then passwords, hosts
// fastest. Outcome arrival order is not deterministic.
type Task struct {
	logger logger.Logger
	id     int
	cfg    *TaskConfig
	login  Login

	hosts     []string // deduplicated expansion of cfg.Targets
	usernames []string
	passwords []string

	agg    *aggregator
	pauser *pauser.Pauser

	total int64
	done  int64

	// Result is a best-effort outcome stream for live progress
	// display, it will never block a worker, outcomes are dropped
	// when the consumer is too slow. The aggregator keeps all of
	// them for the report.
	Result chan *Outcome

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newTask(lg logger.Logger, id int, cfg *TaskConfig, login Login, hosts []string) *Task {
	ctx, cancel := context.WithCancel(context.Background())
	task := Task{
		logger:    lg,
		id:        id,
		cfg:       cfg,
		login:     login,
		hosts:     hosts,
		usernames: deduplicate(cfg.Usernames),
		passwords: deduplicate(cfg.Passwords),
		agg:       newAggregator(),
		pauser:    pauser.New(ctx),
		Result:    make(chan *Outcome, 64*cfg.Worker),
		ctx:       ctx,
		cancel:    cancel,
	}
	return &task
}

func (task *Task) logf(lv logger.Level, format string, log ...interface{}) {
	task.logger.Printf(lv, task.logSrc(), format, log...)
}

func (task *Task) log(lv logger.Level, log ...interface{}) {
	task.logger.Println(lv, task.logSrc(), log...)
}

func (task *Task) logSrc() string {
	return fmt.Sprintf("finder-task-%d", task.id)
}

// run is the task main loop, it contains the probe phase and the
// attempt phase, see finder.Run().
func (task *Task) run(done func()) {
	defer task.wg.Done()
	defer done()
	defer task.cancel()
	defer func() {
		if r := recover(); r != nil {
			task.log(logger.Fatal, xpanic.Printf(r, "Task.run-%d", task.id))
		}
	}()
	live := task.filterAlive()
	if task.ctx.Err() != nil {
		return
	}
	task.attemptAll(live)
}

// attemptAll builds the (host, username, password) combination space
// over the live hosts and dispatches it to a bounded worker pool.
func (task *Task) attemptAll(live []*LiveHost) {
	total := int64(len(live)) * int64(len(task.usernames)) * int64(len(task.passwords))
	atomic.StoreInt64(&task.total, total)
	if total == 0 {
		task.log(logger.Warning, "no live host, nothing to attempt")
		return
	}
	task.logf(logger.Info, "attempt %d combinations", total)
	worker := task.cfg.Worker
	if int64(worker) > total {
		worker = int(total)
	}
	attemptCh := make(chan *attempt)
	wg := sync.WaitGroup{}
	for i := 0; i < worker; i++ {
		wg.Add(1)
		go task.worker(&wg, i, attemptCh)
	}
	task.dispatch(live, attemptCh)
	close(attemptCh)
	wg.Wait()
}

type attempt struct {
	host     *LiveHost
	username string
	password string
}

// dispatch submits combinations in credential-major order, the same
// input always produces the same submission order. It checks pause
// and cancel state before each submission, already submitted attempts
// are not interrupted.
func (task *Task) dispatch(live []*LiveHost, attemptCh chan<- *attempt) {
	for _, username := range task.usernames {
		for _, password := range task.passwords {
			for _, host := range live {
				task.pauser.Paused()
				if task.pauser.State() == pauser.StateCancel {
					return
				}
				at := attempt{
					host:     host,
					username: username,
					password: password,
				}
				select {
				case attemptCh <- &at:
				case <-task.ctx.Done():
					return
				}
				if task.cfg.Interval < 1 {
					continue
				}
				select {
				case <-time.After(task.cfg.Interval):
				case <-task.ctx.Done():
					return
				}
			}
		}
	}
}

func (task *Task) worker(wg *sync.WaitGroup, id int, attemptCh <-chan *attempt) {
	task.logf(logger.Debug, "worker %d started", id)
	defer wg.Done()
	defer func() {
		if r := recover(); r != nil {
			task.log(logger.Fatal, xpanic.Printf(r, "Task.worker-%d", id))
			// restart
			time.Sleep(time.Second)
			wg.Add(1)
			go task.worker(wg, id, attemptCh)
		}
	}()
	for at := range attemptCh {
		task.record(task.process(at))
	}
	task.logf(logger.Debug, "worker %d stopped", id)
}

// process performs one login attempt, it is bounded by cfg.Timeout.
// The attempt context is not derived from the task context, a killed
// or stopped task lets attempts that already started finish, bounded
// by their own timeout.
func (task *Task) process(at *attempt) (outcome *Outcome) {
	outcome = &Outcome{
		Host:     at.host.Host,
		Port:     at.host.Port,
		Username: at.username,
		Password: at.password,
	}
	defer func() {
		if r := recover(); r != nil {
			outcome.Class = ConnectionError
			outcome.Err = xpanic.Error(r, "Task.process")
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), task.cfg.Timeout)
	defer cancel()
	type loginResult struct {
		ok  bool
		err error
	}
	resultCh := make(chan *loginResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				resultCh <- &loginResult{err: xpanic.Error(r, "Task.process login")}
			}
		}()
		ok, err := task.login(ctx, at.host.Address(), at.username, at.password)
		resultCh <- &loginResult{ok: ok, err: err}
	}()
	select {
	case result := <-resultCh:
		outcome.Class, outcome.Err = classify(result.ok, result.err)
	case <-ctx.Done():
		outcome.Class = Timeout
		outcome.Err = ctx.Err()
	}
	return
}

func classify(ok bool, err error) (Class, error) {
	if ok {
		return Success, nil
	}
	switch errors.Cause(err) {
	case nil, ErrInvalidCred:
		return AuthFailed, err
	case context.DeadlineExceeded:
		return Timeout, err
	default:
		return ConnectionError, err
	}
}

// record stores the outcome, updates the progress counter and fires
// early termination when it is configured.
func (task *Task) record(outcome *Outcome) {
	task.agg.append(outcome)
	atomic.AddInt64(&task.done, 1)
	select {
	case task.Result <- outcome:
	default:
	}
	if outcome.Class == Success {
		task.logf(logger.Critical, "cracked %s@%s with password: %s",
			outcome.Username, outcome.Host, task.maskPassword(outcome.Password))
		if task.cfg.StopOnSuccess {
			task.cancel()
		}
		return
	}
	task.logf(logger.Debug, "%s %s@%s with password: %s", outcome.Class,
		outcome.Username, outcome.Host, task.maskPassword(outcome.Password))
}

func (task *Task) maskPassword(password string) string {
	if task.cfg.SecretMode {
		return "********"
	}
	return password
}

// Pause is used to pause this finder task, submitted attempts will
// not be interrupted, the next submission will block.
func (task *Task) Pause() {
	task.pauser.Pause()
}

// Continue is used to continue this finder task.
func (task *Task) Continue() {
	task.pauser.Continue()
}

// Kill is used to kill this finder task, it is the external
// cancellation handle, attempts that already started are allowed to
// finish and their outcomes are recorded.
func (task *Task) Kill() {
	task.cancel()
}

// Wait is used to wait the task until it finished or killed.
func (task *Task) Wait() {
	task.wg.Wait()
}

// Stat is used to get the number of processed and total combinations.
// Total is zero until the probe phase finished.
func (task *Task) Stat() (done, total int64) {
	return atomic.LoadInt64(&task.done), atomic.LoadInt64(&task.total)
}

// Progress is used to get the current task progress.
// "15.22%|current/total"
func (task *Task) Progress() string {
	done, total := task.Stat()
	if total == 0 {
		return fmt.Sprintf("0.00%%|%d/%d", done, total)
	}
	return fmt.Sprintf("%.2f%%|%d/%d", float64(done)/float64(total)*100, done, total)
}

// deduplicate removes repeated items and preserve the input order.
func deduplicate(s []string) []string {
	result := make([]string, 0, len(s))
	seen := make(map[string]struct{}, len(s))
	for _, item := range s {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		result = append(result, item)
	}
	return result
}
