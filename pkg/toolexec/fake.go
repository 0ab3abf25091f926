package toolexec

import (
	"context"
	"fmt"
	"sync"
)

type fakeStep struct {
	res Result
	err error
}

// Fake is a scripted Executor for tests. It records every argument
// vector it receives and replays queued results in order. A call with
// nothing queued fails loudly rather than returning a zero Result.
type Fake struct {
	mu    sync.Mutex
	steps []fakeStep

	// Calls holds a copy of every argv passed to Run, in order
	Calls [][]string
}

// NewFake creates an empty scripted executor
func NewFake() *Fake {
	return &Fake{}
}

// Expect queues a result for the next unconsumed call
func (f *Fake) Expect(res Result) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.steps = append(f.steps, fakeStep{res: res})
	return f
}

// ExpectError queues an execution failure for the next unconsumed call
func (f *Fake) ExpectError(err error) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.steps = append(f.steps, fakeStep{err: err})
	return f
}

// Run records argv and replays the next queued step
func (f *Fake) Run(_ context.Context, argv []string) (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	recorded := make([]string, len(argv))
	copy(recorded, argv)
	f.Calls = append(f.Calls, recorded)

	if len(f.steps) == 0 {
		return Result{}, fmt.Errorf("unexpected command: %v", argv)
	}
	step := f.steps[0]
	f.steps = f.steps[1:]
	return step.res, step.err
}

// Remaining reports how many queued steps were never consumed
func (f *Fake) Remaining() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.steps)
}
