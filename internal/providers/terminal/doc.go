// Package terminal provides the registry of interactive shell sessions.
//
// Each session is one login shell running under a PTY, keyed by the
// directory it was opened for. Opening the same directory again returns
// the existing session instead of spawning a second shell; a session whose
// shell has exited is restarted in place and keeps its identity.
//
// Features:
//   - PTY-backed login shells (argv[0] is "-<shell>")
//   - One session per working directory
//   - Live directory tracking from OSC 7 shell-integration sequences
//   - Restart of terminated sessions under the same ID
//   - Ring-buffered output, input, and resizing for the terminal view
//
// Threading:
//
// The registry is not locked. All calls, including Apply, must come from
// one control goroutine. Each session runs two background goroutines, an
// output reader and an exit monitor, which never touch registry state:
// they report through Events() and the control goroutine applies each
// event with Apply.
//
// Example Usage:
//
//	reg := terminal.NewRegistry(terminal.PTYSpawner{},
//		terminal.WithShellResolver(terminal.LoginShell("/bin/zsh")))
//	defer reg.Shutdown()
//
//	sess, created, err := reg.Open("/home/user/src")
//	...
//	for ev := range reg.Events() {
//		reg.Apply(ev)
//	}
package terminal
