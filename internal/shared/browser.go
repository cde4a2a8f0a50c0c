package shared

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/log"
)

var getRuntime = func() string { return runtime.GOOS }

// OpenBrowser opens the default system browser to the specified URL.
//
// Supports macOS, Linux, and Windows platforms.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	rt := getRuntime()
	switch rt {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return fmt.Errorf("unsupported platform: %s", rt)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}

// OpenBrowserOrPrompt tries to open the browser and falls back to logging the
// URL for manual opening. Headless sessions still complete the OAuth flow by
// pasting the URL elsewhere.
func OpenBrowserOrPrompt(logger *log.Logger, url string) {
	if err := OpenBrowser(url); err != nil {
		logger.Warn("could not open browser, open this URL manually", "url", url, "error", err)
	}
}
