// Package render draws the showcase onto a tcell screen
package render

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/stagefx/config"
	"github.com/lixenwraith/stagefx/content"
	"github.com/lixenwraith/stagefx/particle"
	"github.com/lixenwraith/stagefx/timeline"
	"github.com/lixenwraith/stagefx/transition"
)

// Layout
const (
	navRow        = 0
	panelTop      = 3
	panelMaxWidth = 72
	panelPadX     = 3
	panelAlpha    = 0.85
)

// Frame is everything the stage needs for one draw
type Frame struct {
	State    transition.State
	Page     content.Page
	Visible  bool
	Nav      []content.Page
	Field    *particle.Field
	Progress float64 // smoothed scroll progress
	Muted    bool
	Dt       time.Duration
}

// Stage composites particles, navigation, the content panel and a status line
type Stage struct {
	cfg    config.RenderConfig
	buf    *Buffer
	dimmer *NavDimmer
	frames uint64
}

// NewStage creates a stage for the given render settings
func NewStage(cfg config.RenderConfig) *Stage {
	return &Stage{
		cfg:    cfg,
		buf:    NewBuffer(0, 0),
		dimmer: NewNavDimmer(cfg.FPS, cfg.SpringFrequency, cfg.SpringDamping, cfg.NavDim),
	}
}

// Configure swaps render settings, keeping the dimmer's current level
func (s *Stage) Configure(cfg config.RenderConfig) {
	level := s.dimmer.Level()
	s.cfg = cfg
	s.dimmer = NewNavDimmer(cfg.FPS, cfg.SpringFrequency, cfg.SpringDamping, cfg.NavDim)
	s.dimmer.pos = level
}

// Buffer exposes the composited frame
func (s *Stage) Buffer() *Buffer {
	return s.buf
}

// Dimmer exposes the navigation dimmer
func (s *Stage) Dimmer() *NavDimmer {
	return s.dimmer
}

// Compose renders f into the internal buffer sized w×h
func (s *Stage) Compose(w, h int, f Frame) {
	if bw, bh := s.buf.Bounds(); bw != w || bh != h {
		s.buf.Resize(w, h)
	} else {
		s.buf.Clear()
	}
	s.frames++

	reduced := f.State.Profile == timeline.MotionReduced
	s.dimmer.SetDimmed(f.State.Transitioning)
	var level float64
	if reduced {
		level = s.dimmer.Snap()
	} else {
		level = s.dimmer.Update(f.Dt)
	}

	s.drawField(f.Field)
	s.drawNav(f, level)
	s.drawPanel(f, reduced)
	s.drawStatus(f)
}

// Draw composes and flushes to screen
func (s *Stage) Draw(screen tcell.Screen, f Frame) {
	w, h := screen.Size()
	s.Compose(w, h, f)
	s.buf.Flush(screen)
}

// PanelOpacity maps the orchestrator phase to content opacity
// Fades follow the nominal phase span: a retarget while hiding holds the
// panel at zero instead of stretching the fade back toward visible
func PanelOpacity(st transition.State, visible bool) float64 {
	switch st.Phase {
	case timeline.PhaseHiding:
		return 1 - EaseOutCubic(st.EffectProgress())
	case timeline.PhaseSwapping:
		return 0
	case timeline.PhaseRevealing:
		return EaseOutCubic(st.EffectProgress())
	}
	if !visible {
		return 0
	}
	return 1
}

func (s *Stage) drawField(f *particle.Field) {
	if f == nil {
		return
	}
	w, h := s.buf.Bounds()
	proj := Projector{
		Distance: s.cfg.CameraDistance,
		Extent:   f.Config().Dust.Radius,
		Width:    w,
		Height:   h,
	}
	for _, pop := range f.Populations() {
		for i := range pop.Positions {
			x, y, near, ok := proj.Project(pop.Positions[i])
			if !ok {
				continue
			}
			glyph := '·'
			if pop.Role == particle.RoleStar {
				glyph = '+'
				if pop.Sizes[i] > 0.8 {
					glyph = '*'
				}
			}
			col := Scale(FromParticle(pop.Colors[i]), 0.35+0.65*near)
			s.buf.Set(x, y, glyph, col, BlendMax, 1)
		}
	}
}

func (s *Stage) drawNav(f Frame, level float64) {
	w, _ := s.buf.Bounds()
	active := f.State.Displayed
	if f.State.Transitioning {
		active = f.State.Target
	}

	x := s.buf.Text(1, navRow, "STAGEFX", Scale(RgbAccent, level), 1, true) + 3
	for i, p := range f.Nav {
		label := fmt.Sprintf("%d %s", i+1, p.Title)
		if x+len(label) >= w {
			break
		}
		col := Scale(RgbMuted, level)
		bold := false
		if p.ID == active {
			col = Scale(RgbText, level)
			bold = true
		}
		x += s.buf.Text(x, navRow, label, col, 1, bold) + 2
	}
	for cx := 0; cx < w; cx++ {
		s.buf.SetBg(cx, navRow, RgbPanel, BlendAlpha, 0.6*level)
	}
}

// panelRect returns the panel's left column, width and height for the page
func panelRect(w, h int, p content.Page) (left, width, height int) {
	width = min(w-4, panelMaxWidth)
	height = 4 + len(p.Body) + 1
	if maxH := h - panelTop - 2; height > maxH {
		height = maxH
	}
	left = (w - width) / 2
	return left, width, height
}

func (s *Stage) drawPanel(f Frame, reduced bool) {
	w, h := s.buf.Bounds()
	left, width, height := panelRect(w, h, f.Page)
	if width <= 2*panelPadX || height <= 0 {
		return
	}

	opacity := PanelOpacity(f.State, f.Visible)

	if f.State.Phase == timeline.PhaseSwapping && s.cfg.Hologram && !reduced {
		s.drawHologram(left, width, height, f.State.PhaseProgress())
		return
	}
	if opacity <= 0 {
		return
	}

	for y := panelTop; y < panelTop+height; y++ {
		for x := left; x < left+width; x++ {
			s.buf.SetBg(x, y, RgbPanel, BlendAlpha, panelAlpha*opacity)
		}
	}

	textW := width - 2*panelPadX
	row := panelTop + 1
	s.buf.Text(left+panelPadX, row, clip(f.Page.Title, textW), RgbAccent, opacity, true)
	row++
	if f.Page.Tagline != "" && row < panelTop+height {
		s.buf.Text(left+panelPadX, row, clip(f.Page.Tagline, textW), RgbMuted, opacity, false)
	}
	row += 2
	for _, line := range f.Page.Body {
		if row >= panelTop+height {
			break
		}
		s.buf.Text(left+panelPadX, row, clip(line, textW), RgbText, opacity, false)
		row++
	}
}

// drawHologram fills the empty panel with scrolling scanlines while content swaps
func (s *Stage) drawHologram(left, width, height int, progress float64) {
	offset := int(s.frames / 2)
	intensity := 0.25 + 0.5*EaseInOutSine(progress)
	for y := 0; y < height; y++ {
		if (y+offset)%2 != 0 {
			continue
		}
		for x := left; x < left+width; x++ {
			s.buf.Set(x, panelTop+y, '─', RgbHologram, BlendAlpha, intensity)
			s.buf.SetBg(x, panelTop+y, RgbPanel, BlendAlpha, 0.4)
		}
	}
}

func (s *Stage) drawStatus(f Frame) {
	w, h := s.buf.Bounds()
	if h < 2 {
		return
	}
	st := f.State
	status := fmt.Sprintf(" %-9s %3.0f%%  motion:%-7s scroll:%4.2f", st.Phase, 100*st.PhaseProgress(), st.Profile, f.Progress)
	if f.Muted {
		status += "  muted"
	}
	status += "   1-6 pages  ↑↓ scroll  r motion  m mute  q quit"
	s.buf.Text(0, h-1, clip(status, w), RgbMuted, 1, false)
}

func clip(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
