//go:build linux

package input

import (
	"os"
	"path/filepath"

	"github.com/depeter/couchbar/internal/logging"
	"github.com/depeter/couchbar/internal/loop"
)

// WatchRemote reads key presses from every readable /dev/input/event*
// device and posts their actions to ui, where handle runs them. Close the
// returned Remote to stop reading.
func WatchRemote(ui *loop.Loop, handle func(Action)) *Remote {
	rm := &Remote{}
	matches, err := filepath.Glob("/dev/input/event*")
	if err != nil {
		return rm
	}
	for _, path := range matches {
		f, err := os.Open(path)
		if err != nil {
			// No permission or device not accessible
			continue
		}
		rm.watch(f, ui, handle, logging.For("remote").WithField("device", filepath.Base(path)))
	}
	return rm
}
