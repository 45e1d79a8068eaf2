package controls

import (
	"errors"
	"fmt"
)

// ErrUnknownItem is returned when the layout names an item that is not a
// built-in kind.
var ErrUnknownItem = errors.New("unknown control item")

// Position is one of the three ordered slots of the control bar.
type Position int

const (
	PositionLeading Position = iota
	PositionMiddle
	PositionTrailing
	positionCount
)

// Positions lists the slots in render order.
var Positions = [...]Position{PositionLeading, PositionMiddle, PositionTrailing}

func (p Position) String() string {
	switch p {
	case PositionLeading:
		return "leading"
	case PositionMiddle:
		return "middle"
	case PositionTrailing:
		return "trailing"
	}
	return fmt.Sprintf("Position(%d)", int(p))
}

// ParsePosition maps a configuration name to a Position. The empty string
// means trailing, where custom buttons land by default.
func ParsePosition(name string) (Position, error) {
	switch name {
	case "leading":
		return PositionLeading, nil
	case "middle":
		return PositionMiddle, nil
	case "trailing", "":
		return PositionTrailing, nil
	}
	return 0, fmt.Errorf("unknown control position %q", name)
}

// Kind identifies a built-in control item.
type Kind int

const (
	KindCaptions Kind = iota
	KindFullscreen
	KindLevels
	KindPlay
	KindProgress
	KindSettings
	KindTime
	KindVolume
	kindCount // sentinel
)

var kindNames = [kindCount]string{
	KindCaptions:   "captions",
	KindFullscreen: "fullscreen",
	KindLevels:     "levels",
	KindPlay:       "play",
	KindProgress:   "progress",
	KindSettings:   "settings",
	KindTime:       "time",
	KindVolume:     "volume",
}

func (k Kind) String() string {
	if k >= 0 && k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a layout name to a built-in kind.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownItem, name)
}
