package tui

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// The TUI owns stdout, so diagnostics go to a file the user opts into via
// LUNARLOG_TUI_DEBUG_LOG. Best effort; failures to log are ignored.
func (m *appModel) debugLogf(format string, args ...any) {
	path := strings.TrimSpace(m.debugLogPath)
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	fmt.Fprintf(f, "%s %s\n", time.Now().Format(time.RFC3339), fmt.Sprintf(format, args...))
}
