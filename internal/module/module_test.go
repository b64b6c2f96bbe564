package module

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type mockModule struct {
	started bool
}

func (mm *mockModule) Start() error {
	mm.started = true
	return nil
}

func (mm *mockModule) Stop() {
	mm.started = false
}

func (mm *mockModule) Restart() error {
	mm.Stop()
	return mm.Start()
}

func (mm *mockModule) Name() string {
	return "mock module"
}

func (mm *mockModule) Info() string {
	return "mock module is used to test"
}

func (mm *mockModule) Status() string {
	return fmt.Sprintf("started: %t", mm.started)
}

func (mm *mockModule) Methods() []string {
	return nil
}

func (mm *mockModule) Call(string, ...interface{}) (interface{}, error) {
	return nil, nil
}

func TestModule(t *testing.T) {
	var module Module = new(mockModule)

	err := module.Start()
	require.NoError(t, err)
	require.Equal(t, "started: true", module.Status())

	err = module.Restart()
	require.NoError(t, err)

	module.Stop()
	require.Equal(t, "started: false", module.Status())
	require.Equal(t, "mock module", module.Name())
}
