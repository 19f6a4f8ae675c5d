package report

import (
	"os/exec"
	"path/filepath"
	"runtime"
)

var execCommand = exec.Command

// OpenBrowser opens the file with the default handler of the desktop.
func OpenBrowser(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = execCommand("rundll32", "url.dll,FileProtocolHandler", abs)
	case "darwin":
		cmd = execCommand("open", abs)
	default:
		cmd = execCommand("xdg-open", abs)
	}

	return cmd.Start()
}
