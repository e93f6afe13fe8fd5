package terminal

import (
	"bytes"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeProcess struct {
	pid  int
	outR *io.PipeReader
	outW *io.PipeWriter

	mu    sync.Mutex
	input bytes.Buffer
	cols  int
	rows  int

	exit       chan int
	exitOnce   sync.Once
	terminated atomic.Bool
	closed     atomic.Bool
}

func newFakeProcess(pid int) *fakeProcess {
	r, w := io.Pipe()
	return &fakeProcess{pid: pid, outR: r, outW: w, exit: make(chan int, 1)}
}

func (p *fakeProcess) Read(b []byte) (int, error) { return p.outR.Read(b) }

func (p *fakeProcess) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.input.Write(b)
}

func (p *fakeProcess) Pid() int { return p.pid }

func (p *fakeProcess) Resize(cols, rows int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cols, p.rows = cols, rows
	return nil
}

func (p *fakeProcess) Terminate() error {
	p.terminated.Store(true)
	p.exitWith(129)
	return nil
}

func (p *fakeProcess) Wait() (int, error) {
	return <-p.exit, nil
}

func (p *fakeProcess) Close() error {
	p.closed.Store(true)
	p.outW.Close()
	return p.outR.Close()
}

func (p *fakeProcess) exitWith(code int) {
	p.exitOnce.Do(func() { p.exit <- code })
}

// emit writes shell output. It returns once the reader has consumed it.
func (p *fakeProcess) emit(s string) {
	_, _ = p.outW.Write([]byte(s))
}

func (p *fakeProcess) written() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.input.String()
}

type fakeSpawner struct {
	mu    sync.Mutex
	specs []SpawnSpec
	procs []*fakeProcess
	err   error
}

func (f *fakeSpawner) Spawn(spec SpawnSpec) (Process, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.specs = append(f.specs, spec)
	p := newFakeProcess(1000 + len(f.procs))
	f.procs = append(f.procs, p)
	return p, nil
}

func (f *fakeSpawner) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeSpawner) spawns() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.specs)
}

func (f *fakeSpawner) last() *fakeProcess {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.procs[len(f.procs)-1]
}

func (f *fakeSpawner) lastSpec() SpawnSpec {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.specs[len(f.specs)-1]
}

func nextEvent(t *testing.T, r *Registry) Event {
	t.Helper()
	select {
	case ev, ok := <-r.Events():
		require.True(t, ok, "event channel closed")
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for session event")
		return Event{}
	}
}
