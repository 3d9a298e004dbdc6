package main

import (
	"context"
	"image"
	"image/color"
	"sync"

	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"inkpick/internal/capture"
	"inkpick/internal/config"
	"inkpick/internal/geom"
	"inkpick/internal/logging"
	"inkpick/internal/matcher"
	"inkpick/internal/recompute"
	"inkpick/internal/recording"
)

var (
	colBackground = color.NRGBA{R: 0xfa, G: 0xfa, B: 0xf7, A: 0xff}
	colCanvas     = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	colInk        = color.NRGBA{R: 0x20, G: 0x20, B: 0x24, A: 0xff}
	colBorder     = color.NRGBA{R: 0xc8, G: 0xc8, B: 0xc0, A: 0xff}
)

// ui wires the capture pipeline to the gio surface.
type ui struct {
	th  *material.Theme
	cfg *config.Config
	log *logging.Logger

	norm      *geom.Normalizer
	session   *capture.Session
	graph     *recompute.Graph
	sink      *canvasSink
	recorder  recording.Recorder
	sessionID string

	undoBtn  widget.Clickable
	clearBtn widget.Clickable

	mu         sync.Mutex
	candidates []matcher.Candidate
	candClicks []widget.Clickable

	lastPos     f32.Point
	lastDropped uint64
}

func newUI(cfg *config.Config, log *logging.Logger, norm *geom.Normalizer,
	session *capture.Session, graph *recompute.Graph, sink *canvasSink,
	recorder recording.Recorder) *ui {

	u := &ui{
		th:        material.NewTheme(),
		cfg:       cfg,
		log:       log.WithComponent("ui"),
		norm:      norm,
		session:   session,
		graph:     graph,
		sink:      sink,
		recorder:  recorder,
		sessionID: recording.NewSessionID(),
	}
	graph.OnChange(u.publishCandidates)
	return u
}

// publishCandidates replaces the displayed list wholesale.
func (u *ui) publishCandidates(list []matcher.Candidate) {
	u.mu.Lock()
	u.candidates = list
	if len(u.candClicks) < len(list) {
		u.candClicks = append(u.candClicks,
			make([]widget.Clickable, len(list)-len(u.candClicks))...)
	}
	u.mu.Unlock()
	u.sink.Refresh()
}

func (u *ui) Layout(gtx layout.Context) layout.Dimensions {
	paint.Fill(gtx.Ops, colBackground)

	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			return layout.UniformInset(unit.Dp(12)).Layout(gtx, u.layoutCanvas)
		}),
		layout.Rigid(divider),
		layout.Rigid(u.layoutCandidates),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return layout.UniformInset(unit.Dp(8)).Layout(gtx, u.layoutButtons)
		}),
	)
}

// layoutCanvas draws the square drawing area and feeds its pointer events
// into the capture session.
func (u *ui) layoutCanvas(gtx layout.Context) layout.Dimensions {
	side := gtx.Constraints.Max.X
	if gtx.Constraints.Max.Y < side {
		side = gtx.Constraints.Max.Y
	}
	size := image.Pt(side, side)

	// The canvas is square, so one zoom factor covers both axes.
	zoom := float64(side) / float64(u.cfg.Canvas.Size)
	if err := u.norm.SetZoom(zoom); err != nil {
		u.log.Error("invalid zoom from layout", "side", side, "error", err)
	}

	u.handlePointer(gtx)

	defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()
	paint.Fill(gtx.Ops, colCanvas)
	event.Op(gtx.Ops, u)

	u.paintStrokes(gtx, float32(zoom))

	return layout.Dimensions{Size: size}
}

func (u *ui) handlePointer(gtx layout.Context) {
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: u,
			Kinds:  pointer.Press | pointer.Drag | pointer.Release | pointer.Cancel,
		})
		if !ok {
			break
		}
		pe, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		switch pe.Kind {
		case pointer.Press:
			u.session.PointerDown(float64(pe.Position.X), float64(pe.Position.Y))
			u.lastPos = pe.Position
		case pointer.Drag:
			u.session.PointerMove(
				float64(u.lastPos.X), float64(u.lastPos.Y),
				float64(pe.Position.X), float64(pe.Position.Y))
			u.lastPos = pe.Position
		case pointer.Release, pointer.Cancel:
			u.session.PointerUp()
			u.logDroppedPoints()
		}
	}
}

// logDroppedPoints surfaces silently dropped malformed input for
// diagnostics.
func (u *ui) logDroppedPoints() {
	if d := u.norm.Dropped(); d != u.lastDropped {
		u.log.Debug("malformed pointer coordinates dropped", "total", d)
		u.lastDropped = d
	}
}

// paintStrokes replays the retained segments scaled back to pixels.
func (u *ui) paintStrokes(gtx layout.Context, zoom float32) {
	segs := u.sink.allSegments()
	if len(segs) == 0 {
		return
	}
	width := float32(u.cfg.Canvas.StrokeWidth) * zoom
	for _, s := range segs {
		var p clip.Path
		p.Begin(gtx.Ops)
		p.MoveTo(f32.Pt(float32(s.p1.X)*zoom, float32(s.p1.Y)*zoom))
		p.LineTo(f32.Pt(float32(s.p2.X)*zoom, float32(s.p2.Y)*zoom))
		paint.FillShape(gtx.Ops, colInk, clip.Stroke{
			Path:  p.End(),
			Width: width,
		}.Op())
	}
}

// layoutCandidates renders the ranked candidate strip. Picking one
// records the selection and starts the next character.
func (u *ui) layoutCandidates(gtx layout.Context) layout.Dimensions {
	u.mu.Lock()
	list := u.candidates
	clicks := u.candClicks
	u.mu.Unlock()

	if len(list) == 0 {
		return layout.Dimensions{}
	}

	var chosen *matcher.Candidate
	children := make([]layout.FlexChild, 0, len(list))
	for i := range list {
		i := i
		if clicks[i].Clicked(gtx) {
			chosen = &list[i]
		}
		children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return layout.UniformInset(unit.Dp(4)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				btn := material.Button(u.th, &clicks[i], list[i].Character)
				btn.Inset = layout.UniformInset(unit.Dp(10))
				return btn.Layout(gtx)
			})
		}))
	}
	if chosen != nil {
		u.selectCandidate(*chosen, list)
	}

	return layout.Flex{Axis: layout.Horizontal}.Layout(gtx, children...)
}

// selectCandidate commits a candidate: the selection triple is handed to
// the recorder and the canvas resets for the next character. Recording
// failures are logged only; local state never depends on them.
func (u *ui) selectCandidate(c matcher.Candidate, list []matcher.Candidate) {
	strokes := u.session.Strokes()
	sel, err := recording.NewSelection(u.sessionID, c.Character, strokes, list)
	if err != nil {
		u.log.Warn("selection encoding failed", "character", c.Character, "error", err)
	} else if u.recorder != nil {
		if err := u.recorder.Record(context.Background(), sel); err != nil {
			u.log.Warn("selection recording failed", "character", c.Character, "error", err)
		}
	}
	u.log.Info("character committed", "character", c.Character, "strokes", len(strokes))
	u.session.Clear()
}

func (u *ui) layoutButtons(gtx layout.Context) layout.Dimensions {
	if u.undoBtn.Clicked(gtx) {
		u.session.Undo()
	}
	if u.clearBtn.Clicked(gtx) {
		u.session.Clear()
	}

	return layout.Flex{Axis: layout.Horizontal, Spacing: layout.SpaceBetween}.Layout(gtx,
		layout.Rigid(material.Button(u.th, &u.undoBtn, "Undo").Layout),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			size := image.Pt(gtx.Dp(8), 0)
			return layout.Dimensions{Size: size}
		}),
		layout.Rigid(material.Button(u.th, &u.clearBtn, "Clear").Layout),
	)
}

// divider paints a thin horizontal rule.
func divider(gtx layout.Context) layout.Dimensions {
	size := image.Pt(gtx.Constraints.Max.X, gtx.Dp(1))
	paint.FillShape(gtx.Ops, colBorder, clip.Rect{Max: size}.Op())
	return layout.Dimensions{Size: size}
}
