package player

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-mpv"

	"github.com/depeter/couchbar/internal/controls"
)

// trackInfo is one entry of mpv's track-list.
type trackInfo struct {
	ID       int
	Type     string
	Title    string
	Lang     string
	Codec    string
	Width    int
	Height   int
	Selected bool
}

func (t trackInfo) label() string {
	switch {
	case t.Type == "video" && t.Height > 0:
		return fmt.Sprintf("%dp", t.Height)
	case t.Title != "" && t.Lang != "":
		return fmt.Sprintf("%s (%s)", t.Title, t.Lang)
	case t.Title != "":
		return t.Title
	case t.Lang != "":
		return strings.ToUpper(t.Lang)
	case t.Codec != "":
		return fmt.Sprintf("Track %d (%s)", t.ID, t.Codec)
	}
	return fmt.Sprintf("Track %d", t.ID)
}

// trackList reads mpv's track-list property tree. Unreadable entries are
// skipped.
func (p *Player) trackList() []trackInfo {
	p.mu.Lock()
	defer p.mu.Unlock()

	n, err := p.be.GetProperty("track-list/count", mpv.FormatInt64)
	if err != nil {
		return nil
	}
	count, _ := n.(int64)

	str := func(i int64, field string) string {
		v, err := p.be.GetProperty(fmt.Sprintf("track-list/%d/%s", i, field), mpv.FormatString)
		if err != nil {
			return ""
		}
		s, _ := v.(string)
		return s
	}
	num := func(i int64, field string) int {
		v, err := p.be.GetProperty(fmt.Sprintf("track-list/%d/%s", i, field), mpv.FormatInt64)
		if err != nil {
			return 0
		}
		n, _ := v.(int64)
		return int(n)
	}

	var tracks []trackInfo
	for i := int64(0); i < count; i++ {
		id := num(i, "id")
		if id == 0 {
			continue
		}
		tracks = append(tracks, trackInfo{
			ID:       id,
			Type:     str(i, "type"),
			Title:    str(i, "title"),
			Lang:     str(i, "lang"),
			Codec:    str(i, "codec"),
			Width:    num(i, "demux-w"),
			Height:   num(i, "demux-h"),
			Selected: str(i, "selected") == "yes",
		})
	}
	return tracks
}

// SubtitleTracks lists the subtitle tracks of the loaded file.
func (p *Player) SubtitleTracks() []controls.Track {
	var out []controls.Track
	for _, t := range p.trackList() {
		if t.Type == "sub" {
			out = append(out, controls.Track{ID: t.ID, Label: t.label(), Selected: t.Selected})
		}
	}
	return out
}

// Levels lists the video tracks as quality levels. A single video track
// offers no choice and yields none.
func (p *Player) Levels() []controls.Level {
	var out []controls.Level
	for _, t := range p.trackList() {
		if t.Type == "video" {
			out = append(out, controls.Level{ID: t.ID, Label: t.label(), Selected: t.Selected})
		}
	}
	if len(out) < 2 {
		return nil
	}
	return out
}
