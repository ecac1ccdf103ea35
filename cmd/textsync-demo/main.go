// Package main is an interactive terminal host for the synchronization
// core. It stands in for a real canvas application: the terminal grid
// is the world, mouse clicks create and edit text entities, and typed
// keys flow through the input-surface adapter exactly as native events
// would.
package main

import (
	"flag"
	"fmt"
	"os"
	"unicode/utf16"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/textsync/internal/config"
	"github.com/dshills/textsync/internal/coordinator"
	"github.com/dshills/textsync/internal/engine"
	"github.com/dshills/textsync/internal/engine/memory"
	"github.com/dshills/textsync/internal/event"
	"github.com/dshills/textsync/internal/index"
	"github.com/dshills/textsync/internal/input/key"
	"github.com/dshills/textsync/internal/logging"
	"github.com/dshills/textsync/internal/state"
	"github.com/dshills/textsync/internal/surface"
)

func main() {
	os.Exit(run())
}

func run() int {
	var configPath string
	var logPath string
	flag.StringVar(&configPath, "config", "", "path to a JSON configuration file")
	flag.StringVar(&logPath, "log", "", "path to a diagnostic log file")
	flag.Parse()

	cfg := config.Default()
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: read config: %v\n", err)
			return 1
		}
		cfg, err = config.Load(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
	}

	logger := logging.Discard()
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: open log: %v\n", err)
			return 1
		}
		defer f.Close()
		logger = logging.New(logging.Config{Output: f, Level: logging.LevelDebug, Prefix: "textsync"})
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: create screen: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "error: init screen: %v\n", err)
		return 1
	}
	defer screen.Fini()
	screen.EnableMouse()

	d := newDemo(screen, cfg, logger)
	d.loop()
	return 0
}

// demo is the host application state: the entity registry a real
// canvas would keep, plus the core components.
type demo struct {
	screen tcell.Screen
	eng    *memory.Engine
	coord  *coordinator.Coordinator
	surf   *surface.Adapter

	entities []engine.EntityID
	anchors  map[engine.EntityID][2]float64
	dragging bool
}

func newDemo(screen tcell.Screen, cfg config.Config, logger *logging.Logger) *demo {
	d := &demo{
		screen:  screen,
		eng:     memory.New(),
		anchors: make(map[engine.EntityID][2]float64),
	}

	d.coord = coordinator.New(d.eng,
		coordinator.WithConfig(cfg),
		coordinator.WithLogger(logger),
		coordinator.WithListener(event.Funcs{
			OnEntityCreated: func(id engine.EntityID, p engine.Payload) {
				d.entities = append(d.entities, id)
				d.anchors[id] = [2]float64{p.X, p.Y}
			},
			OnEntityDeleted: func(id engine.EntityID) {
				delete(d.anchors, id)
				for i, e := range d.entities {
					if e == id {
						d.entities = append(d.entities[:i], d.entities[i+1:]...)
						break
					}
				}
			},
		}))
	d.surf = surface.New(d.coord, surface.WithLogger(logger))

	// Seed one entity so there is something to click on.
	seed := engine.NewEntityID()
	d.eng.Upsert(seed, engine.Payload{
		X: 4, Y: 2,
		BoxMode:  engine.AutoWidth,
		FontID:   cfg.DefaultFontID,
		FontSize: cfg.DefaultFontSize,
		Content:  "click to edit, click empty space to create",
	})
	d.entities = append(d.entities, seed)
	d.anchors[seed] = [2]float64{4, 2}
	return d
}

func (d *demo) loop() {
	for {
		d.draw()
		switch ev := d.screen.PollEvent().(type) {
		case *tcell.EventResize:
			d.screen.Sync()
		case *tcell.EventMouse:
			d.mouse(ev)
		case *tcell.EventKey:
			if !d.key(ev) {
				return
			}
		}
	}
}

// key handles one key event; returns false to quit.
func (d *demo) key(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlQ:
		return false
	case tcell.KeyCtrlC:
		d.clip(d.surf.Copy)
		return true
	case tcell.KeyCtrlX:
		d.clip(d.surf.Cut)
		return true
	case tcell.KeyCtrlV:
		d.clip(d.surf.Paste)
		return true
	case tcell.KeyEscape:
		d.coord.Commit()
		return true
	}

	kev := key.FromTcell(ev)
	if d.surf.KeyEvent(kev) {
		return true
	}
	switch kev.Key {
	case key.KeyRune:
		d.typeText(string(kev.Rune))
	case key.KeyEnter:
		d.typeText("\n")
	case key.KeyBackspace:
		d.erase(-1)
	case key.KeyDelete:
		d.erase(1)
	}
	return true
}

func (d *demo) clip(fn func() error) {
	// Clipboard failures are non-fatal for a demo; drop them.
	_ = fn()
}

// typeText routes typed text through the surface's content-change path,
// the same way a native editable widget reports it.
func (d *demo) typeText(text string) {
	st := d.coord.State()
	if st.Mode == state.Idle {
		return
	}
	content, ok := d.eng.Content(st.ActiveEntity)
	if !ok {
		return
	}
	selStart, selEnd, ok := d.coord.SelectionUTF16()
	if !ok {
		return
	}

	units := utf16.Encode([]rune(content))
	ins := utf16.Encode([]rune(text))
	var next []uint16
	next = append(next, units[:selStart]...)
	next = append(next, ins...)
	next = append(next, units[selEnd:]...)
	d.surf.ContentChanged(content, string(utf16.Decode(next)), selStart+len(ins))
}

// erase deletes one code point before (dir < 0) or after (dir > 0) the
// caret, or the selection when one exists.
func (d *demo) erase(dir int) {
	st := d.coord.State()
	if st.Mode == state.Idle {
		return
	}
	content, ok := d.eng.Content(st.ActiveEntity)
	if !ok {
		return
	}
	selStart, selEnd, ok := d.coord.SelectionUTF16()
	if !ok {
		return
	}

	if selStart == selEnd {
		caretRune := index.UTF16ToRune(content, selStart)
		if dir < 0 {
			if caretRune == 0 {
				return
			}
			selStart = index.RuneToUTF16(content, caretRune-1)
		} else {
			if caretRune >= index.RuneLen(content) {
				return
			}
			selEnd = index.RuneToUTF16(content, caretRune+1)
		}
	}

	units := utf16.Encode([]rune(content))
	next := append(append([]uint16{}, units[:selStart]...), units[selEnd:]...)
	d.surf.ContentChanged(content, string(utf16.Decode(next)), selStart)
}

func (d *demo) mouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	pressed := ev.Buttons()&tcell.Button1 != 0

	p := d.pointerEvent(float64(x), float64(y), ev)
	switch {
	case pressed && !d.dragging:
		d.dragging = true
		d.coord.PointerDown(p)
	case pressed && d.dragging:
		d.coord.PointerMove(p)
	case !pressed && d.dragging:
		d.dragging = false
		d.coord.PointerUp(p)
	}
}

// pointerEvent builds a core pointer event from a mouse position,
// performing the host's picking pass over the entity registry.
func (d *demo) pointerEvent(x, y float64, ev *tcell.EventMouse) coordinator.PointerEvent {
	p := coordinator.PointerEvent{
		WorldX:    x,
		WorldY:    y,
		Shift:     ev.Modifiers()&tcell.ModShift != 0,
		Timestamp: ev.When(),
	}
	for _, id := range d.entities {
		ax, ay, ok := d.anchorOf(id)
		if !ok {
			continue
		}
		adv, lh, ok := d.eng.Metrics(id)
		if !ok || adv <= 0 || lh <= 0 {
			continue
		}
		bounds := d.eng.Bounds(id)
		if !bounds.Valid {
			continue
		}
		cols := bounds.Width() / adv
		rows := bounds.Height() / lh
		if x < ax || y < ay || x >= ax+cols || y >= ay+rows {
			continue
		}
		p.Entity = id
		p.LocalX = (x - ax) * adv
		p.LocalY = (y - ay) * lh
		p.X = ax
		p.Y = ay
		p.BoxMode, p.ConstraintWidth = d.modeOf(id)
		break
	}
	return p
}

// anchorOf returns an entity's world anchor. The active entity's anchor
// lives in the mirrored state; inactive entities come from the demo's
// own registry, since placement belongs to the host.
func (d *demo) anchorOf(id engine.EntityID) (float64, float64, bool) {
	if st := d.coord.State(); st.ActiveEntity == id {
		return st.AnchorX, st.AnchorY, true
	}
	if a, ok := d.anchors[id]; ok {
		return a[0], a[1], true
	}
	return 0, 0, false
}

func (d *demo) modeOf(id engine.EntityID) (engine.BoxMode, float64) {
	if st := d.coord.State(); st.ActiveEntity == id {
		return st.BoxMode, st.ConstraintWidth
	}
	return engine.AutoWidth, 0
}

func (d *demo) draw() {
	d.screen.Clear()
	style := tcell.StyleDefault
	sel := style.Reverse(true)

	st := d.coord.State()
	for _, id := range d.entities {
		ax, ay, ok := d.anchorOf(id)
		if !ok {
			continue
		}
		content, ok := d.eng.Content(id)
		if !ok {
			continue
		}

		selLo, selHi := -1, -1
		if st.ActiveEntity == id && st.HasSelection() {
			selLo, selHi = st.SelectionRange()
		}

		col, row := 0, 0
		for i, r := range []rune(content) {
			if r == '\n' {
				col, row = 0, row+1
				continue
			}
			cs := style
			if i >= selLo && i < selHi {
				cs = sel
			}
			d.screen.SetContent(int(ax)+col, int(ay)+row, r, nil, cs)
			col++
		}
	}

	if st.Mode != state.Idle && !st.ActiveEntity.IsNone() {
		content, ok := d.eng.Content(st.ActiveEntity)
		if ok {
			adv, lh, mok := d.eng.Metrics(st.ActiveEntity)
			pos, pok := d.eng.CaretPosition(st.ActiveEntity, index.RuneToByte(content, st.CaretRune))
			if mok && pok && adv > 0 && lh > 0 {
				d.screen.ShowCursor(int(st.AnchorX+pos.X/adv), int(st.AnchorY+pos.Y/lh))
			}
		}
	} else {
		d.screen.HideCursor()
	}
	d.screen.Show()
}
