package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"
)

// killGrace is how long a hung-up shell gets before SIGKILL.
const killGrace = 2 * time.Second

// SpawnSpec describes a shell to start.
type SpawnSpec struct {
	Path string
	Args []string
	Dir  string
	Env  []string
	Cols int
	Rows int
}

// Process is a running shell attached to a terminal.
type Process interface {
	io.ReadWriter
	Pid() int
	Resize(cols, rows int) error
	// Terminate asks the shell's process group to exit.
	Terminate() error
	// Wait blocks until the shell exits and returns its exit code. A
	// non-zero exit is not an error.
	Wait() (int, error)
	// Close releases the terminal. It unblocks pending reads.
	Close() error
}

// Spawner starts shells.
type Spawner interface {
	Spawn(spec SpawnSpec) (Process, error)
}

// PTYSpawner starts shells on a pseudo-terminal.
type PTYSpawner struct{}

// Spawn starts spec under a new PTY in its own session.
func (PTYSpawner) Spawn(spec SpawnSpec) (Process, error) {
	path, err := exec.LookPath(spec.Path)
	if err != nil {
		return nil, fmt.Errorf("shell not found: %w", err)
	}

	cmd := &exec.Cmd{
		Path: path,
		Args: spec.Args,
		Dir:  spec.Dir,
		Env:  spec.Env,
	}

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(spec.Rows),
		Cols: uint16(spec.Cols),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start PTY: %w", err)
	}

	return &ptyProcess{
		cmd:    cmd,
		ptmx:   ptmx,
		exited: make(chan struct{}),
	}, nil
}

type ptyProcess struct {
	cmd       *exec.Cmd
	ptmx      *os.File
	exited    chan struct{}
	closeOnce sync.Once
}

func (p *ptyProcess) Read(b []byte) (int, error)  { return p.ptmx.Read(b) }
func (p *ptyProcess) Write(b []byte) (int, error) { return p.ptmx.Write(b) }
func (p *ptyProcess) Pid() int                    { return p.cmd.Process.Pid }

func (p *ptyProcess) Resize(cols, rows int) error {
	return pty.Setsize(p.ptmx, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
}

// Terminate hangs up the shell's process group, the way closing a
// terminal window does, and kills it if it is still around after
// killGrace.
func (p *ptyProcess) Terminate() error {
	pid := p.cmd.Process.Pid
	if err := unix.Kill(-pid, unix.SIGHUP); err != nil {
		if errors.Is(err, unix.ESRCH) {
			return nil
		}
		return p.cmd.Process.Kill()
	}

	go func() {
		select {
		case <-p.exited:
		case <-time.After(killGrace):
			_ = unix.Kill(-pid, unix.SIGKILL)
		}
	}()
	return nil
}

func (p *ptyProcess) Wait() (int, error) {
	err := p.cmd.Wait()
	close(p.exited)

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return -1, err
	}
	if p.cmd.ProcessState == nil {
		return -1, nil
	}
	return p.cmd.ProcessState.ExitCode(), nil
}

func (p *ptyProcess) Close() error {
	var err error
	p.closeOnce.Do(func() { err = p.ptmx.Close() })
	return err
}
