package input

import (
	"encoding/binary"
	"io"
	"sync"
	"unsafe"

	"github.com/sirupsen/logrus"

	"github.com/depeter/couchbar/internal/loop"
)

// Linux input event codes for remote and media keys.
const (
	evKey = 0x01

	keyMute        = 113
	keyVolumeDown  = 114
	keyVolumeUp    = 115
	keyStop        = 128
	keyBack        = 158
	keyPlayPause   = 164
	keyStopCD      = 166
	keyRewind      = 168
	keyPlayCD      = 200
	keyPauseCD     = 201
	keyFastForward = 208
)

// remoteActions maps media keys to actions. Play and pause keys both
// toggle.
var remoteActions = map[uint16]Action{
	keyMute:        ActionMute,
	keyVolumeDown:  ActionVolumeDown,
	keyVolumeUp:    ActionVolumeUp,
	keyStop:        ActionStop,
	keyStopCD:      ActionStop,
	keyBack:        ActionStop,
	keyPlayPause:   ActionPlayPause,
	keyPlayCD:      ActionPlayPause,
	keyPauseCD:     ActionPlayPause,
	keyRewind:      ActionSeekBackward,
	keyFastForward: ActionSeekForward,
}

// inputEventSize is the size of a Linux input_event struct (timeval + u16 + u16 + s32).
var inputEventSize = int(unsafe.Sizeof(struct {
	Sec, Usec int64
	Type      uint16
	Code      uint16
	Value     int32
}{}))

type inputEvent struct {
	Type  uint16
	Code  uint16
	Value int32
}

// parseInputEvent decodes one input_event record.
func parseInputEvent(buf []byte) (inputEvent, bool) {
	if len(buf) < inputEventSize {
		return inputEvent{}, false
	}
	return inputEvent{
		Type:  binary.LittleEndian.Uint16(buf[16:18]),
		Code:  binary.LittleEndian.Uint16(buf[18:20]),
		Value: int32(binary.LittleEndian.Uint32(buf[20:24])),
	}, true
}

// remoteAction returns the action for a key press. Releases and repeats
// map to nothing.
func remoteAction(ev inputEvent) Action {
	if ev.Type != evKey || ev.Value != 1 {
		return ActionNone
	}
	return remoteActions[ev.Code]
}

// Remote is a set of open input devices, each drained by its own reader.
type Remote struct {
	devices []io.Closer
	wg      sync.WaitGroup
	once    sync.Once
}

// watch starts a reader on r that posts actions to ui until r fails.
func (rm *Remote) watch(r io.ReadCloser, ui *loop.Loop, handle func(Action), log *logrus.Entry) {
	rm.devices = append(rm.devices, r)
	rm.wg.Add(1)
	go func() {
		defer rm.wg.Done()
		readRemote(r, ui, handle, log)
	}()
}

// Close closes every device and waits for the readers to return. It is
// safe on a nil Remote and safe to call twice.
func (rm *Remote) Close() {
	if rm == nil {
		return
	}
	rm.once.Do(func() {
		for _, d := range rm.devices {
			d.Close()
		}
		rm.wg.Wait()
	})
}

func readRemote(r io.Reader, ui *loop.Loop, handle func(Action), log *logrus.Entry) {
	buf := make([]byte, inputEventSize)
	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			log.WithError(err).Debug("remote reader stopped")
			return
		}
		ev, ok := parseInputEvent(buf)
		if !ok {
			continue
		}
		a := remoteAction(ev)
		if a == ActionNone {
			continue
		}
		log.WithField("code", ev.Code).Debug("remote key press")
		ui.Post(func() { handle(a) })
	}
}
