package finder

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"project/internal/logger"
	"project/internal/module"
)

// make sure Finder implemented the module interface.
var _ module.Module = (*Finder)(nil)

// Finder is the ssh finder module, it discovers hosts that expose an
// open ssh service inside the configured targets and tests username
// and password combinations against them with a login callback.
type Finder struct {
	logger logger.Logger

	// contain finder tasks
	taskID   int // auto-increment
	tasks    map[int]*Task
	tasksRWM sync.RWMutex

	started bool
	rwm     sync.RWMutex
	wg      sync.WaitGroup
}

// New is used to create a new ssh finder module.
func New(logger logger.Logger) *Finder {
	return &Finder{
		logger: logger,
		tasks:  make(map[int]*Task, 1),
	}
}

// Start is used to start finder, it will reset task ID.
func (finder *Finder) Start() error {
	finder.rwm.Lock()
	defer finder.rwm.Unlock()
	return finder.start()
}

func (finder *Finder) start() error {
	if finder.started {
		return errors.New("finder module is started")
	}
	// reset task id
	finder.taskID = 0
	finder.started = true
	return nil
}

// Stop is used to stop finder, it will kill all tasks.
func (finder *Finder) Stop() {
	finder.rwm.Lock()
	defer finder.rwm.Unlock()
	finder.stop()
	finder.wg.Wait()
}

func (finder *Finder) stop() {
	if !finder.started {
		return
	}
	// kill all tasks
	finder.tasksRWM.RLock()
	defer finder.tasksRWM.RUnlock()
	for _, task := range finder.tasks {
		task.Kill()
	}
	finder.started = false
}

// Restart is used to restart finder.
func (finder *Finder) Restart() error {
	finder.rwm.Lock()
	defer finder.rwm.Unlock()
	finder.stop()
	finder.wg.Wait()
	return finder.start()
}

// IsStarted is used to check finder is started.
func (finder *Finder) IsStarted() bool {
	finder.rwm.RLock()
	defer finder.rwm.RUnlock()
	return finder.started
}

// Name is used to get the module name.
func (finder *Finder) Name() string {
	return "ssh finder"
}

// Info is used to get finder module information.
func (finder *Finder) Info() string {
	finder.tasksRWM.RLock()
	defer finder.tasksRWM.RUnlock()
	return fmt.Sprintf("total number of tasks run: %d", finder.taskID)
}

// Status is used to get finder module status.
func (finder *Finder) Status() string {
	finder.tasksRWM.RLock()
	defer finder.tasksRWM.RUnlock()
	return fmt.Sprintf("running task: %d", len(finder.tasks))
}

// Run is used to create a finder task and run it. It expands and
// deduplicates the targets before any network I/O, a malformed
// target is a fatal *ParseError. The returned task is already
// running, use Wait() and Report() to collect the result.
func (finder *Finder) Run(login Login, cfg *TaskConfig) (*Task, error) {
	if login == nil {
		return nil, errors.New("login callback is nil")
	}
	cfg, err := cfg.Apply()
	if err != nil {
		return nil, errors.WithMessage(err, "invalid task configuration")
	}
	hosts, err := expandTargets(cfg.Targets)
	if err != nil {
		return nil, err
	}
	finder.rwm.Lock()
	defer finder.rwm.Unlock()
	if !finder.started {
		return nil, errors.New("finder module is not started")
	}
	finder.tasksRWM.Lock()
	defer finder.tasksRWM.Unlock()
	finder.taskID++
	id := finder.taskID
	task := newTask(finder.logger, id, cfg, login, hosts)
	finder.tasks[id] = task
	finder.wg.Add(1)
	task.wg.Add(1)
	go task.run(func() {
		defer finder.wg.Done()
		finder.tasksRWM.Lock()
		defer finder.tasksRWM.Unlock()
		delete(finder.tasks, id)
	})
	return task, nil
}

// Methods is used to get finder module methods.
func (finder *Finder) Methods() []string {
	pause := module.Method{
		Name: "Pause",
		Desc: "Pause is used to pause finder task by id.",
		Args: []*module.Value{
			{Name: "id", Type: "int"},
		},
		Rets: []*module.Value{
			{Name: "err", Type: "error"},
		},
	}
	Continue := module.Method{
		Name: "Continue",
		Desc: "Continue is used to continue finder task by id.",
		Args: []*module.Value{
			{Name: "id", Type: "int"},
		},
		Rets: []*module.Value{
			{Name: "err", Type: "error"},
		},
	}
	kill := module.Method{
		Name: "Kill",
		Desc: "Kill is used to kill finder task by id.",
		Args: []*module.Value{
			{Name: "id", Type: "int"},
		},
		Rets: []*module.Value{
			{Name: "err", Type: "error"},
		},
	}
	progress := module.Method{
		Name: "Progress",
		Desc: "Progress is used to get finder task progress by id.",
		Args: []*module.Value{
			{Name: "id", Type: "int"},
		},
		Rets: []*module.Value{
			{Name: "progress", Type: "string"},
			{Name: "err", Type: "error"},
		},
	}
	return []string{pause.String(), Continue.String(), kill.String(), progress.String()}
}

// Call is used to call finder module extended method.
func (finder *Finder) Call(method string, args ...interface{}) (interface{}, error) {
	// check arguments first
	if len(args) != 1 {
		return nil, errors.New("invalid argument number")
	}
	id, ok := args[0].(int)
	if !ok {
		return nil, errors.New("argument 1 is not a int")
	}
	switch method {
	case "pause":
		return nil, finder.PauseTask(id)
	case "continue":
		return nil, finder.ContinueTask(id)
	case "kill":
		return nil, finder.KillTask(id)
	case "progress":
		return finder.TaskProgress(id)
	default:
		return nil, errors.Errorf("unknown method: \"%s\"", method)
	}
}

// GetTask is used to get task by ID.
func (finder *Finder) GetTask(id int) (*Task, error) {
	finder.tasksRWM.RLock()
	defer finder.tasksRWM.RUnlock()
	task, ok := finder.tasks[id]
	if !ok {
		return nil, errors.Errorf("task %d is not exist", id)
	}
	return task, nil
}

// PauseTask is used to pause finder task by ID.
func (finder *Finder) PauseTask(id int) error {
	task, err := finder.GetTask(id)
	if err != nil {
		return err
	}
	task.Pause()
	return nil
}

// ContinueTask is used to continue finder task by ID.
func (finder *Finder) ContinueTask(id int) error {
	task, err := finder.GetTask(id)
	if err != nil {
		return err
	}
	task.Continue()
	return nil
}

// KillTask is used to kill finder task by ID.
func (finder *Finder) KillTask(id int) error {
	task, err := finder.GetTask(id)
	if err != nil {
		return err
	}
	task.Kill()
	return nil
}

// TaskProgress is used to get finder task progress by ID.
func (finder *Finder) TaskProgress(id int) (string, error) {
	task, err := finder.GetTask(id)
	if err != nil {
		return "", err
	}
	return task.Progress(), nil
}
