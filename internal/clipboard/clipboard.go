// Package clipboard copies rendered reports to the system clipboard.
package clipboard

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Tools are swapped out in tests.
var (
	lookPath = exec.LookPath
	run      = func(name string, args []string, stdin string) error {
		cmd := exec.Command(name, args...)
		cmd.Stdin = strings.NewReader(stdin)
		return cmd.Run()
	}
)

// candidates returns the clipboard commands to try on goos, in order of
// preference.
func candidates(goos string) [][]string {
	switch goos {
	case "linux", "freebsd", "openbsd":
		return [][]string{
			{"wl-copy"},                          // Wayland
			{"xclip", "-selection", "clipboard"}, // X11
			{"xsel", "--clipboard", "--input"},   // X11 alternative
		}
	case "darwin":
		return [][]string{{"pbcopy"}}
	case "windows":
		return [][]string{{"clip"}}
	}
	return nil
}

// CopyText copies plain text to the system clipboard.
func CopyText(text string) error {
	return copyWith(runtime.GOOS, text)
}

func copyWith(goos, text string) error {
	tools := candidates(goos)
	if len(tools) == 0 {
		return fmt.Errorf("unsupported platform: %s", goos)
	}

	var tried []string
	for _, tool := range tools {
		tried = append(tried, tool[0])
		if _, err := lookPath(tool[0]); err != nil {
			continue
		}
		if err := run(tool[0], tool[1:], text); err == nil {
			return nil
		}
	}
	return fmt.Errorf("no suitable clipboard tool found (tried: %s)", strings.Join(tried, ", "))
}
