package terminal

import (
	"bufio"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// passwdFile is the account database consulted for login shells.
var passwdFile = "/etc/passwd"

// ShellResolver returns the shell to start for a new session.
type ShellResolver func() string

// LoginShell resolves the user's login shell from the account database,
// then $SHELL, then fallback. Candidates that do not exist are skipped.
func LoginShell(fallback string) ShellResolver {
	return func() string {
		return firstShell(accountShell(), os.Getenv("SHELL"), fallback)
	}
}

// StaticShell always returns path.
func StaticShell(path string) ShellResolver {
	return func() string { return path }
}

// LoginArgs builds the argv for a login shell: argv[0] is the shell's
// base name prefixed with "-", plus -l for shells that ignore argv[0].
func LoginArgs(shell string) []string {
	return []string{"-" + filepath.Base(shell), "-l"}
}

func firstShell(candidates ...string) string {
	var last string
	for _, c := range candidates {
		if c == "" {
			continue
		}
		last = c
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return last
}

func accountShell() string {
	u, err := user.Current()
	if err != nil {
		return ""
	}
	f, err := os.Open(passwdFile)
	if err != nil {
		return ""
	}
	defer f.Close()
	return passwdShell(f, u.Uid)
}

// passwdShell returns the shell field of the passwd(5) entry for uid.
func passwdShell(r io.Reader, uid string) string {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, ":")
		if len(fields) < 7 || fields[2] != uid {
			continue
		}
		return strings.TrimSpace(fields[6])
	}
	return ""
}
