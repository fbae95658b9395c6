package attach

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Open launches the kind's configured opener on a registered file and
// returns without waiting for it.
func (m *Manager) Open(kindName, name string) (int, error) {
	kind, err := m.cfg.Kind(kindName)
	if err != nil {
		return 0, err
	}
	full, err := m.Path(kindName, name)
	if err != nil {
		return 0, err
	}

	cmd := openCommand(kind.Opener, full)
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("opening %s file: %w", kindName, err)
	}
	return cmd.Process.Pid, nil
}

func openCommand(opener, path string) *exec.Cmd {
	if opener == "" {
		switch runtime.GOOS {
		case "darwin":
			opener = "open"
		default:
			opener = "xdg-open"
		}
	}
	return exec.Command(opener, path)
}
