package module

// Module is the interface of module. Modules are services that can be
// started and stopped repeatedly, each module processes its own tasks
// with inner workers.
//
// Use Methods() to get the extended method definitions about a module,
// and use Call() to call them by name.
type Module interface {
	Start() error
	Stop()
	Restart() error
	Name() string
	Info() string
	Status() string

	Methods() []string
	Call(method string, args ...interface{}) (interface{}, error)
}
