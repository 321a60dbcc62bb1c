package common

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// crashDir is where crash files are written; set from the report directory at startup
var crashDir = "."

// SetCrashDir points crash files at dir/logs, next to the file log output
func SetCrashDir(dir string) {
	if dir != "" {
		crashDir = filepath.Join(dir, "logs")
	}
}

// WriteCrashFile stores the panic value and the stack of every goroutine.
// It returns the file path, or "" when the report went to stderr instead.
func WriteCrashFile(panicVal interface{}, stack string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== SHADERSTRIP CRASH REPORT ===\n")
	fmt.Fprintf(&b, "Time: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&b, "Version: %s\n", GetFullVersion())
	fmt.Fprintf(&b, "GOOS/GOARCH: %s/%s\n\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(&b, "=== PANIC ===\n%v\n\n", panicVal)
	fmt.Fprintf(&b, "=== STACK ===\n%s\n", stack)

	path := filepath.Join(crashDir, fmt.Sprintf("crash-%s.log", time.Now().Format("2006-01-02T15-04-05")))
	if err := os.MkdirAll(crashDir, 0755); err == nil {
		if err = os.WriteFile(path, []byte(b.String()), 0644); err == nil {
			fmt.Fprintf(os.Stderr, "FATAL: panic %v (crash report: %s)\n", panicVal, path)
			return path
		}
	}

	io.WriteString(os.Stderr, b.String())
	return ""
}

// allStacks dumps every goroutine, growing the buffer until it fits (max 64MB)
func allStacks() string {
	buf := make([]byte, 64*1024)
	for {
		n := runtime.Stack(buf, true)
		if n < len(buf) || len(buf) >= 64*1024*1024 {
			return string(buf[:n])
		}
		buf = make([]byte, len(buf)*2)
	}
}

// RecoverWithCrashFile is deferred at the top of main; a panic writes a crash file and exits 2
func RecoverWithCrashFile() {
	if r := recover(); r != nil {
		WriteCrashFile(r, allStacks())
		os.Exit(2)
	}
}
