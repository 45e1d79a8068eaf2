package player

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/depeter/couchbar/internal/controls"
	"github.com/depeter/couchbar/internal/dom"
)

// ASS color format: &HAABBGGRR (alpha, blue, green, red)
const (
	assWhite    = "&H00FFFFFF"
	assWhiteDim = "&H60FFFFFF"
	assBlack    = "&H00000000"
	assPrimary  = "&H00DCA400"
	assShadow   = "&H80000000"
)

// Layout in the 1920x1080 ASS PlayRes space.
const (
	osdMargin   = 60
	osdRowY     = 1040
	osdBarY     = 975
	osdBarH     = 6
	osdFontSize = 28
	osdCharW    = 15
	osdGap      = 36
	osdMenuY    = 920
	osdMenuStep = 40

	osdMenuCharW = 13
	osdBarHit    = 30
)

const (
	osdResX = "1920"
	osdResY = "1080"
)

const osdFont = "\\fnSegoe UI,Liberation Sans,sans-serif"

// region is one drawn element of the bar in the 1920x1080 layout space.
// x is the left edge and y the vertical center.
type region struct {
	kind  regionKind
	node  *dom.Node
	label string
	x, y  int
	w, h  int
}

type regionKind int

const (
	regionLabel regionKind = iota
	regionProgress
	regionMenu
)

func (r region) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y-r.h/2 && y <= r.y+r.h/2
}

// visibleBar returns the bar under root, or nil when there is none or it is
// hidden.
func visibleBar(root *dom.Node) *dom.Node {
	bar := root.Find(controls.ClassControls)
	if bar == nil || root.HasClass(controls.ClassHidden) {
		return nil
	}
	return bar
}

// layoutControls places every visible item of bar. Later regions are drawn
// on top of earlier ones.
func layoutControls(bar *dom.Node) []region {
	var out []region
	layer := func(pos controls.Position) *dom.Node {
		return bar.Find(controls.ClassLayerPrefix + pos.String())
	}

	if l := layer(controls.PositionMiddle); l != nil {
		out = append(out, layoutMiddle(l)...)
	}

	if l := layer(controls.PositionLeading); l != nil {
		x := osdMargin
		for _, n := range l.Children() {
			label := nodeLabel(n)
			if label == "" {
				continue
			}
			w := labelWidth(label, osdCharW)
			out = append(out, region{kind: regionLabel, node: n, label: label, x: x, y: osdRowY, w: w, h: osdFontSize})
			x += w + osdGap
		}
	}

	if l := layer(controls.PositionTrailing); l != nil {
		x := 1920 - osdMargin
		children := l.Children()
		for i := len(children) - 1; i >= 0; i-- {
			label := nodeLabel(children[i])
			if label == "" {
				continue
			}
			w := labelWidth(label, osdCharW)
			out = append(out, region{kind: regionLabel, node: children[i], label: label, x: x - w, y: osdRowY, w: w, h: osdFontSize})
			x -= w + osdGap
		}
	}

	if panel := bar.Find("op-settings"); panel != nil && !panel.Hidden() {
		out = append(out, layoutMenu(panel)...)
	}
	return out
}

// layoutMiddle spans the progress bar across the full width and centers any
// other middle items above it.
func layoutMiddle(l *dom.Node) []region {
	var out, labels []region
	for _, n := range l.Children() {
		if n.Hidden() {
			continue
		}
		if n.HasClass("op-controls__progress-wrapper") {
			out = append(out, region{kind: regionProgress, node: n, x: osdMargin, y: osdBarY, w: 1920 - 2*osdMargin, h: osdBarHit})
			continue
		}
		if label := nodeLabel(n); label != "" {
			labels = append(labels, region{kind: regionLabel, node: n, label: label, y: osdRowY, w: labelWidth(label, osdCharW), h: osdFontSize})
		}
	}
	total := lo.SumBy(labels, func(r region) int { return r.w }) + osdGap*max(len(labels)-1, 0)
	x := 960 - total/2
	for i := range labels {
		labels[i].x = x
		x += labels[i].w + osdGap
	}
	return append(out, labels...)
}

// layoutMenu lists the settings menus, bottom-up above the trailing edge.
func layoutMenu(panel *dom.Node) []region {
	var out []region
	entries := panel.Children()
	y := osdMenuY
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		label := e.Text()
		if v := e.Attr("data-value"); v != "" {
			label += ": " + v
		}
		w := labelWidth(label, osdMenuCharW)
		out = append(out, region{kind: regionMenu, node: e, label: label, x: 1920 - osdMargin - w, y: y, w: w, h: osdMenuStep})
		y -= osdMenuStep
	}
	return out
}

// FormatControls renders the control bar under root as ASS events for
// mpv's osd-overlay. It returns "" when there is no bar or the bar is
// hidden.
func FormatControls(root *dom.Node) string {
	bar := visibleBar(root)
	if bar == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b,
		"{\\an7\\pos(0,940)\\p1\\bord0\\shad0\\1c%s\\1a&H40&}m 0 0 l 1920 0 l 1920 140 l 0 140{\\p0}\n",
		assBlack,
	)
	for _, r := range layoutControls(bar) {
		switch r.kind {
		case regionProgress:
			writeProgress(&b, r.node.Find("op-controls__progress"))
		case regionLabel:
			fmt.Fprintf(&b, "{\\an4\\pos(%d,%d)\\bord0\\shad1\\3c%s\\fs%d\\1c%s%s}%s{\\r}\n",
				r.x, r.y, assShadow, osdFontSize, assWhite, osdFont, assEscape(r.label))
		case regionMenu:
			fmt.Fprintf(&b, "{\\an4\\pos(%d,%d)\\bord0\\shad1\\3c%s\\fs%d\\1c%s%s}%s{\\r}\n",
				r.x, r.y, assShadow, osdFontSize-4, assWhiteDim, osdFont, assEscape(r.label))
		}
	}
	return b.String()
}

func writeProgress(b *strings.Builder, bar *dom.Node) {
	if bar == nil {
		return
	}
	value, _ := strconv.ParseFloat(bar.Attr("value"), 64)
	maxv, _ := strconv.ParseFloat(bar.Attr("max"), 64)
	pct := 0.0
	if maxv > 0 {
		pct = min(max(value/maxv, 0), 1)
	}

	barX := osdMargin
	barW := 1920 - 2*osdMargin
	barR := osdBarH / 2

	fmt.Fprintf(b, "{\\an7\\pos(%d,%d)\\p1\\bord0\\shad0\\1c%s\\1a&H80&}%s{\\p0}\n",
		barX, osdBarY-osdBarH/2, assWhite, assRoundRect(0, 0, barW, osdBarH, barR))

	fillW := int(float64(barW) * pct)
	if fillW > 0 {
		fillW = max(fillW, barR*2)
		fmt.Fprintf(b, "{\\an7\\pos(%d,%d)\\p1\\bord0\\shad0\\1c%s}%s{\\p0}\n",
			barX, osdBarY-osdBarH/2, assPrimary, assRoundRect(0, 0, fillW, osdBarH, barR))
	}

	dotX := barX + int(float64(barW)*pct)
	fmt.Fprintf(b, "{\\an5\\pos(%d,%d)\\p1\\bord0\\shad2\\3c%s\\1c%s}%s{\\p0}\n",
		dotX, osdBarY, assShadow, assWhite, assCircle(0, 0, 10))
}

// HitTest finds the bar control under (x, y), given in the 1920x1080 layout
// space, and the detail a click on it carries. A hit on the progress bar
// carries the seek fraction. ok is false when nothing is hit.
func HitTest(root *dom.Node, x, y int) (target *dom.Node, detail any, ok bool) {
	bar := visibleBar(root)
	if bar == nil {
		return nil, nil, false
	}
	regions := layoutControls(bar)
	for i := len(regions) - 1; i >= 0; i-- {
		r := regions[i]
		if !r.contains(x, y) {
			continue
		}
		switch r.kind {
		case regionProgress:
			return r.node, float64(x-r.x) / float64(r.w), true
		case regionMenu:
			return r.node, nil, true
		}
		if t := clickTarget(r.node); t != nil {
			return t, nil, true
		}
	}
	return nil, nil, false
}

// clickTarget picks the button inside an item, or the item itself when it
// is a button. Items without one take no clicks.
func clickTarget(n *dom.Node) *dom.Node {
	var found *dom.Node
	n.Walk(func(c *dom.Node) {
		if found == nil && c.Tag == dom.TagButton && !c.Hidden() {
			found = c
		}
	})
	return found
}

// ToOSD scales a point in a w x h window into the 1920x1080 layout space.
func ToOSD(x, y, w, h int) (int, int) {
	if w <= 0 || h <= 0 {
		return x, y
	}
	return x * 1920 / w, y * 1080 / h
}

// Click delivers a pointer click at (x, y) in the layout space. It counts as
// pointer activity on the root. A click that misses every visible control
// lands on the play button, which covers the video. The hit test runs
// before the activity so a hidden bar never takes the click.
func (p *Player) Click(x, y int) {
	target, detail, ok := HitTest(p.root, x, y)
	if !ok {
		target, detail = p.playBtn, nil
	}
	p.root.Dispatch(dom.EventMouseMove, nil)
	target.Dispatch(dom.EventClick, detail)
}

// nodeLabel picks what to print for an item: its text, its accessible
// label, or the labels of its children. Hidden nodes and the settings
// panel print nothing.
func nodeLabel(n *dom.Node) string {
	if n.Hidden() || n.HasClass("op-settings") {
		return ""
	}
	if t := n.Text(); t != "" {
		return t
	}
	if l := n.Attr("aria-label"); l != "" {
		return l
	}
	var parts []string
	for _, c := range n.Children() {
		if l := nodeLabel(c); l != "" {
			parts = append(parts, l)
		} else if v := c.Attr("value"); v != "" && c.HasClass("op-controls__volume") {
			parts = append(parts, v+"%")
		}
	}
	return strings.Join(parts, " ")
}

func labelWidth(label string, charW int) int {
	return len([]rune(label)) * charW
}

// assEscape keeps user text from being read as override tags.
func assEscape(s string) string {
	r := strings.NewReplacer("\\", "\\\\", "{", "\\{", "}", "\\}", "\n", " ")
	return r.Replace(s)
}

// assRoundRect generates an ASS vector drawing for a rounded rectangle.
// Coordinates are relative to the \pos anchor.
func assRoundRect(x, y, w, h, r int) string {
	if r > h/2 {
		r = h / 2
	}
	if r > w/2 {
		r = w / 2
	}
	return fmt.Sprintf(
		"m %d %d l %d %d b %d %d %d %d %d %d l %d %d b %d %d %d %d %d %d l %d %d b %d %d %d %d %d %d l %d %d b %d %d %d %d %d %d",
		x+r, y,
		x+w-r, y,
		x+w, y, x+w, y, x+w, y+r,
		x+w, y+h-r,
		x+w, y+h, x+w, y+h, x+w-r, y+h,
		x+r, y+h,
		x, y+h, x, y+h, x, y+h-r,
		x, y+r,
		x, y, x, y, x+r, y,
	)
}

// assCircle approximates a circle with four cubic bezier segments.
func assCircle(cx, cy, r int) string {
	k := r * 55 / 100
	return fmt.Sprintf(
		"m %d %d b %d %d %d %d %d %d b %d %d %d %d %d %d b %d %d %d %d %d %d b %d %d %d %d %d %d",
		cx, cy-r,
		cx+k, cy-r, cx+r, cy-k, cx+r, cy,
		cx+r, cy+k, cx+k, cy+r, cx, cy+r,
		cx-k, cy+r, cx-r, cy+k, cx-r, cy,
		cx-r, cy-k, cx-k, cy-r, cx, cy-r,
	)
}

// OSD mirrors the bar onto an mpv osd-overlay slot.
type OSD struct {
	p    *Player
	id   int
	last string
}

func NewOSD(p *Player, id int) *OSD {
	return &OSD{p: p, id: id}
}

// Flush re-renders the bar and pushes it to mpv when it changed.
func (o *OSD) Flush() error {
	text := FormatControls(o.p.root)
	if text == o.last {
		return nil
	}
	if err := o.p.SetOSDOverlay(o.id, text); err != nil {
		return err
	}
	o.last = text
	return nil
}

// SetOSDOverlay sends an OSD overlay command to mpv in the 1920x1080 layout
// space. Empty text clears the slot.
func (p *Player) SetOSDOverlay(id int, text string) error {
	if text == "" {
		return p.command("osd-overlay", strconv.Itoa(id), "none", "")
	}
	return p.command("osd-overlay", strconv.Itoa(id), "ass-events", text, osdResX, osdResY)
}
