package terminal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginArgs(t *testing.T) {
	assert.Equal(t, []string{"-zsh", "-l"}, LoginArgs("/bin/zsh"))
	assert.Equal(t, []string{"-fish", "-l"}, LoginArgs("/opt/homebrew/bin/fish"))
}

func TestPasswdShell(t *testing.T) {
	passwd := strings.Join([]string{
		"# comment",
		"root:x:0:0:root:/root:/bin/bash",
		"",
		"alice:x:501:20:Alice:/home/alice:/usr/bin/fish",
		"broken:line",
	}, "\n")

	assert.Equal(t, "/usr/bin/fish", passwdShell(strings.NewReader(passwd), "501"))
	assert.Equal(t, "/bin/bash", passwdShell(strings.NewReader(passwd), "0"))
	assert.Empty(t, passwdShell(strings.NewReader(passwd), "1000"))
}

func TestFirstShell(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "sh")
	assert.NoError(t, os.WriteFile(existing, []byte("#!/bin/true\n"), 0o755))
	missing := filepath.Join(dir, "nope")

	assert.Equal(t, existing, firstShell("", missing, existing, "/bin/zsh"))
	assert.Equal(t, existing, firstShell(existing, missing))
	// Nothing exists: the last candidate is used so the spawn error names it.
	assert.Equal(t, "/fallback/zsh", firstShell(missing, "", "/fallback/zsh"))
	assert.Empty(t, firstShell("", ""))
	assert.Equal(t, existing, firstShell(dir, existing))
}

func TestLoginShellFallsBackToShellEnv(t *testing.T) {
	dir := t.TempDir()
	shell := filepath.Join(dir, "myshell")
	assert.NoError(t, os.WriteFile(shell, []byte("#!/bin/true\n"), 0o755))

	orig := passwdFile
	passwdFile = filepath.Join(dir, "missing-passwd")
	t.Cleanup(func() { passwdFile = orig })
	t.Setenv("SHELL", shell)

	assert.Equal(t, shell, LoginShell("/bin/zsh")())
}
