// Package runnerfake provides an in-memory Runner for tests.
package runnerfake

import (
	"context"
	"fmt"
	"sync"
)

// Invocation records one CLI call.
type Invocation struct {
	Name string
	Args []string
}

// Response scripts the outcome of one CLI call, matched by subcommand.
type Response struct {
	Output []byte
	Err    error
	Block  bool // wait for ctx cancellation before returning
}

// FakeRunner replays scripted responses keyed by the CLI subcommand and
// records every invocation.
type FakeRunner struct {
	mu          sync.Mutex
	responses   map[string]Response
	invocations []Invocation
}

func NewFakeRunner() *FakeRunner {
	return &FakeRunner{responses: make(map[string]Response)}
}

// Respond scripts the response for a subcommand (e.g. "store-credential").
func (f *FakeRunner) Respond(subcommand string, r Response) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[subcommand] = r
}

func (f *FakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.mu.Lock()
	f.invocations = append(f.invocations, Invocation{Name: name, Args: args})
	var resp Response
	var ok bool
	if len(args) > 0 {
		resp, ok = f.responses[args[0]]
	}
	f.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("unscripted invocation: %s %v", name, args)
	}
	if resp.Block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return resp.Output, resp.Err
}

// Invocations returns a copy of the recorded calls in order.
func (f *FakeRunner) Invocations() []Invocation {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Invocation, len(f.invocations))
	copy(out, f.invocations)
	return out
}
