//go:build !linux

package input

import "github.com/depeter/couchbar/internal/loop"

// WatchRemote is a no-op on non-Linux platforms.
func WatchRemote(ui *loop.Loop, handle func(Action)) *Remote { return &Remote{} }
