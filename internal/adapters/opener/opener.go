// Package opener hands exported documents and node text to programs outside
// the whiteboard: the system viewer and the user's editor.
package opener

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"whiteboard/internal/ports"
)

var (
	_ ports.DocumentOpener = (*Viewer)(nil)
	_ ports.EditorOpener   = (*Editor)(nil)
)

// Viewer opens files with the operating system's default application
type Viewer struct {
	goos string
}

// NewViewer creates a viewer for the current platform
func NewViewer() *Viewer {
	return &Viewer{goos: runtime.GOOS}
}

// Open opens path in the default application and returns once it launched
func (v *Viewer) Open(path string) error {
	cmd, err := v.Command(path)
	if err != nil {
		return err
	}
	return cmd.Start()
}

// Command returns the platform command that opens path
func (v *Viewer) Command(path string) (*exec.Cmd, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}
	switch v.goos {
	case "darwin":
		return exec.Command("open", abs), nil
	case "linux", "freebsd", "openbsd":
		return exec.Command("xdg-open", abs), nil
	case "windows":
		return exec.Command("cmd", "/c", "start", "", abs), nil
	}
	return nil, fmt.Errorf("unsupported operating system: %s", v.goos)
}

// Editor opens files in the user's preferred editor
type Editor struct {
	lookPath func(string) (string, error)
}

// NewEditor creates a new editor opener
func NewEditor() *Editor {
	return &Editor{lookPath: exec.LookPath}
}

// OpenFile opens a file in the editor and waits for it to exit
func (e *Editor) OpenFile(path string) error {
	cmd, err := e.Command(path)
	if err != nil {
		return err
	}
	return cmd.Run()
}

// Command returns an exec.Cmd for opening a file in the editor
// This is useful for integrating with bubbletea's ExecProcess
func (e *Editor) Command(path string) (*exec.Cmd, error) {
	editor := e.findEditor()
	if editor == "" {
		return nil, fmt.Errorf("no editor found: set $EDITOR environment variable")
	}

	// $EDITOR may carry arguments, e.g. "code --wait"
	fields := strings.Fields(editor)
	cmd := exec.Command(fields[0], append(fields[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd, nil
}

// EditText lets the user edit text in the editor and returns the result.
// A single trailing newline added by the editor is dropped.
func (e *Editor) EditText(text string) (string, error) {
	f, err := os.CreateTemp("", "whiteboard-*.txt")
	if err != nil {
		return "", err
	}
	defer os.Remove(f.Name())

	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	if err := e.OpenFile(f.Name()); err != nil {
		return "", fmt.Errorf("editor: %w", err)
	}

	data, err := os.ReadFile(f.Name())
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}

// findEditor returns the editor to use
func (e *Editor) findEditor() string {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	if visual := os.Getenv("VISUAL"); visual != "" {
		return visual
	}

	for _, editor := range []string{"nvim", "vim", "vi", "nano"} {
		if path, err := e.lookPath(editor); err == nil {
			return path
		}
	}
	return ""
}
