package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/GriffinCanCode/tami/internal/providers/terminal"
	"github.com/GriffinCanCode/tami/internal/workspace"
)

const (
	detachKey    = 0x1d // Ctrl-]
	pollInterval = 20 * time.Millisecond
)

var openCmd = &cobra.Command{
	Use:   "open [path]",
	Short: "Open a directory in its shell or preview a file",
	Long: `Opens a directory in a login shell started there, or prints a preview
of a file. Without a path the tree root is opened.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runOpen,
}

func runOpen(cmd *cobra.Command, args []string) error {
	ws := srv.Workspace()

	var (
		res workspace.Result
		err error
	)
	if len(args) == 0 {
		res, err = ws.OpenHome()
	} else {
		res, err = ws.OpenPath(args[0])
	}
	if err != nil {
		return err
	}
	return present(cmd, res)
}

// present attaches to a session result. Viewer results have already been
// printed.
func present(cmd *cobra.Command, res workspace.Result) error {
	if res.Session == nil {
		return nil
	}
	return attach(cmd.Context(), srv.Workspace(), res.Session, os.Stdin, cmd.OutOrStdout())
}

// attach relays in to s and s's output to out until the shell exits, the
// detach key is pressed or ctx is done. The calling goroutine is the only
// one touching the registry.
func attach(ctx context.Context, ws *workspace.Workspace, s *terminal.Session, in *os.File, out io.Writer) error {
	reg := ws.Sessions()
	logger := srv.Logger().Component("attach").With(zap.String("session_id", s.ID.String()))

	fd := int(in.Fd())
	interactive := term.IsTerminal(fd)
	if interactive {
		resize(reg, s, fd, logger)
		state, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("failed to enter raw mode: %w", err)
		}
		defer term.Restore(fd, state)
	}

	input := make(chan []byte)
	done := make(chan struct{})
	defer close(done)
	go readInput(in, input, done)

	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)
	defer signal.Stop(winch)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	logger.Debug("Attached", zap.String("path", s.Path()), zap.Bool("interactive", interactive))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-winch:
			if interactive {
				resize(reg, s, fd, logger)
			}

		case data, ok := <-input:
			if !ok {
				input = nil
				continue
			}
			if i := bytes.IndexByte(data, detachKey); i >= 0 {
				if i > 0 {
					_, _ = reg.Write(s, data[:i])
				}
				logger.Info("Detached", zap.Any("session", s.Info()))
				return nil
			}
			if _, err := reg.Write(s, data); err != nil {
				logger.Debug("Dropped input", zap.Error(err))
			}

		case <-ticker.C:
			for _, ev := range ws.Drain() {
				if ev.SessionID == s.ID && ev.Kind == terminal.EventDirectoryChanged {
					logger.Debug("Directory changed",
						zap.String("event_id", ev.ID.String()),
						zap.String("path", ev.Path))
				}
			}

			data, err := reg.Read(s)
			if err != nil {
				return err
			}
			if len(data) > 0 {
				if _, err := out.Write(data); err != nil {
					return err
				}
			}

			if s.State() == terminal.StateTerminated {
				logger.Info("Session ended", zap.Any("session", s.Info()))
				fmt.Fprintf(out, "\r\n[process exited with code %d]\r\n", s.ExitCode())
				return nil
			}
		}
	}
}

func resize(reg *terminal.Registry, s *terminal.Session, fd int, logger *zap.Logger) {
	cols, rows, err := term.GetSize(fd)
	if err != nil {
		return
	}
	if err := reg.Resize(s, cols, rows); err != nil {
		logger.Debug("Resize failed", zap.Error(err))
	}
}

// readInput forwards reads from r to ch until r fails or done is closed.
func readInput(r io.Reader, ch chan<- []byte, done <-chan struct{}) {
	defer close(ch)
	buf := make([]byte, 1024)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			select {
			case ch <- bytes.Clone(buf[:n]):
			case <-done:
				return
			}
		}
		if err != nil {
			return
		}
	}
}
