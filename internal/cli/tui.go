package cli

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/syntree/pkg/canvas"
	"github.com/matzehuels/syntree/pkg/editor"
	"github.com/matzehuels/syntree/pkg/errors"
	"github.com/matzehuels/syntree/pkg/observability"
	"github.com/matzehuels/syntree/pkg/render"
	"github.com/matzehuels/syntree/pkg/render/sink"
	"github.com/matzehuels/syntree/pkg/tile"
)

const (
	sidebarWidth      = 22
	frameInterval     = 16 * time.Millisecond
	statusTTL         = 2500 * time.Millisecond
	doubleClickWindow = 400 * time.Millisecond
	minCols, minRows  = 20, 8
	chromeRows        = 3 // title, status and help lines
)

// Editor styles
var (
	editorHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
	editorStatusStyle = lipgloss.NewStyle().Foreground(colorGreen)
	editorErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
	editorPickStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	editorEntryStyle  = lipgloss.NewStyle().Foreground(colorWhite)
	editorDragStyle   = lipgloss.NewStyle().Foreground(colorYellow)
)

const editorHelp = "arrows move  tab palette  ⏎ drop  space select/pair  shift+arrows drag  " +
	"x unlink  e label  del delete  esc deselect  r layout  s save  c copy  q quit"

type (
	frameMsg       time.Time
	statusClearMsg struct{ seq int }
)

// exportSettings controls the editor's save and copy actions.
type exportSettings struct {
	formats []string // tried in order, the first that renders wins
	base    string   // output path without extension
	options sink.Options
}

// exportFormats puts the configured format first and PNG last, so a
// failed GIF encode still produces a picture.
func exportFormats(configured string) []string {
	formats := parseFormats(configured)
	for _, f := range formats {
		if f == render.FormatPNG {
			return formats
		}
	}
	return append(formats, render.FormatPNG)
}

// =============================================================================
// EditorModel - Interactive syntax-tree canvas
// =============================================================================

// EditorModel is the bubbletea model for the interactive editor. The
// session keeps canvas units; the model maps them onto a character grid
// that scales with the terminal.
type EditorModel struct {
	sess   *editor.Session
	logger *log.Logger
	export exportSettings

	palette []tile.Spec
	pick    int

	width, height int // terminal
	cols, rows    int // canvas grid
	cx, cy        int // cursor cell

	keyDrag   bool
	mouseGrab canvas.Point // pointer offset from the grabbed tile's corner
	lastClick time.Time
	lastID    string

	dialog bool
	editID string
	input  textinput.Model

	status    string
	statusErr bool
	statusSeq int
	ticking   bool

	now       func() time.Time
	copyText  func(string) error
	writeFile func(path string, data []byte) error
}

// NewEditorModel creates an editor bound to sess.
func NewEditorModel(sess *editor.Session, export exportSettings, logger *log.Logger) EditorModel {
	ti := textinput.New()
	ti.Placeholder = tile.Placeholder
	ti.CharLimit = 64
	ti.Width = 32
	ti.Prompt = "label: "

	m := EditorModel{
		sess:      sess,
		logger:    logger,
		export:    export,
		palette:   tile.Entries(),
		input:     ti,
		now:       time.Now,
		copyText:  clipboard.WriteAll,
		writeFile: writeOutput,
	}
	m.resize(sidebarWidth+1+80, 24+chromeRows)
	return m
}

func (m EditorModel) Init() tea.Cmd {
	return nil
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case frameMsg:
		if m.sess.Tick(time.Time(msg)) {
			return m, frame()
		}
		m.ticking = false
		return m, nil
	case statusClearMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil
	case tea.MouseMsg:
		cmd := tea.Batch(m.handleMouse(msg), m.animate())
		return m, cmd
	case tea.KeyMsg:
		if m.dialog {
			cmd := m.updateDialog(msg)
			return m, cmd
		}
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			m.sess.Settle()
			return m, tea.Quit
		}
		cmd := m.handleKey(msg)
		cmd = tea.Batch(cmd, m.animate())
		return m, cmd
	}
	return m, nil
}

func (m *EditorModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if m.keyDrag && !strings.HasPrefix(key, "shift+") {
		m.sess.EndDrag()
		m.keyDrag = false
	}

	switch key {
	case "up", "k":
		m.moveCursor(0, -1)
	case "down", "j":
		m.moveCursor(0, 1)
	case "left", "h":
		m.moveCursor(-1, 0)
	case "right", "l":
		m.moveCursor(1, 0)
	case "shift+up":
		return m.dragBy(0, -1)
	case "shift+down":
		return m.dragBy(0, 1)
	case "shift+left":
		return m.dragBy(-1, 0)
	case "shift+right":
		return m.dragBy(1, 0)
	case "tab", "]":
		m.pick = (m.pick + 1) % len(m.palette)
	case "shift+tab", "[":
		m.pick = (m.pick - 1 + len(m.palette)) % len(m.palette)
	case "enter", "n":
		return m.drop()
	case " ":
		if t, ok := m.hovered(); ok {
			return m.doubleClick(t.ID)
		}
	case "x":
		return m.unlink()
	case "e":
		return m.openDialog()
	case "delete", "backspace":
		if id, ok := m.sess.Selected(); ok {
			if err := m.sess.Delete(id); err != nil {
				return m.setStatus(errors.UserMessage(err), true)
			}
		}
	case "esc":
		m.sess.Deselect()
	case "r":
		m.sess.Relayout()
	case "s":
		return m.save()
	case "c":
		return m.copySVG()
	}
	return nil
}

func (m *EditorModel) handleMouse(msg tea.MouseMsg) tea.Cmd {
	col, row := msg.X-sidebarWidth-1, msg.Y-1
	if col < 0 || row < 0 || col >= m.cols || row >= m.rows {
		return nil
	}
	m.cx, m.cy = col, row
	p := m.cursorPoint()

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		if t, ok := m.sess.Tiles().TileAt(p); ok {
			now := m.now()
			double := t.ID == m.lastID && now.Sub(m.lastClick) < doubleClickWindow
			m.lastClick, m.lastID = now, t.ID
			if double {
				m.sess.EndDrag()
				m.lastID = ""
				return m.doubleClick(t.ID)
			}
			m.mouseGrab = canvas.Point{X: p.X - t.X, Y: p.Y - t.Y}
		}
		if res, _ := m.sess.Press(p); res == editor.PressedLine {
			return m.setStatus("Unlinked", false)
		}
	case tea.MouseActionMotion:
		if _, ok := m.sess.Dragging(); ok {
			_ = m.sess.DragTo(p.X-m.mouseGrab.X, p.Y-m.mouseGrab.Y)
		}
	case tea.MouseActionRelease:
		m.sess.EndDrag()
	}
	return nil
}

// =============================================================================
// Actions
// =============================================================================

func (m *EditorModel) drop() tea.Cmd {
	p := m.cursorPoint()
	spec := m.palette[m.pick]
	if _, err := m.sess.Drop(spec, p.X, p.Y); err != nil {
		return m.setStatus(errors.UserMessage(err), true)
	}
	return nil
}

func (m *EditorModel) doubleClick(id string) tea.Cmd {
	if _, err := m.sess.DoubleClick(id); err != nil {
		return m.setStatus(errors.UserMessage(err), true)
	}
	return nil
}

func (m *EditorModel) dragBy(dc, dr int) tea.Cmd {
	if !m.keyDrag {
		t, ok := m.hovered()
		if !ok {
			m.moveCursor(dc, dr)
			return nil
		}
		if err := m.sess.BeginDrag(t.ID); err != nil {
			return m.setStatus(errors.UserMessage(err), true)
		}
		m.keyDrag = true
	}
	cw, ch := m.cellSize()
	if err := m.sess.DragBy(float64(dc)*cw, float64(dr)*ch); err != nil {
		m.keyDrag = false
		return m.setStatus(errors.UserMessage(err), true)
	}
	m.moveCursor(dc, dr)
	return nil
}

// unlink disconnects the line nearest the cursor within half a cell.
func (m *EditorModel) unlink() tea.Cmd {
	p := m.cursorPoint()
	cw, ch := m.cellSize()
	best, bestDist := -1, max(cw, ch)/2
	lines := m.sess.Lines()
	for i, l := range lines {
		if d := canvas.SegmentDistance(p, l.From, l.To); d <= bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return nil
	}
	l := lines[best]
	m.sess.Disconnect(l.Parent, l.Child)
	return m.setStatus("Unlinked", false)
}

func (m *EditorModel) openDialog() tea.Cmd {
	t, ok := m.hovered()
	if !ok {
		id, sel := m.sess.Selected()
		if !sel {
			return nil
		}
		t, _ = m.sess.Tiles().Get(id)
	}
	if !t.Editable() {
		return m.setStatus(fmt.Sprintf("%s tiles have a fixed label", t.Spec.Value), true)
	}
	current := t.Label
	if current == tile.Placeholder {
		current = ""
	}
	m.dialog, m.editID = true, t.ID
	m.input.SetValue(current)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *EditorModel) updateDialog(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		value := m.input.Value()
		m.closeDialog()
		_, err := m.sess.EditLabel(m.editID, func(string) (string, bool) { return value, true })
		if err != nil {
			return m.setStatus(errors.UserMessage(err), true)
		}
		return nil
	case "esc":
		m.closeDialog()
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *EditorModel) closeDialog() {
	m.dialog = false
	m.input.Blur()
}

// save writes the diagram in the first export format that renders.
func (m *EditorModel) save() tea.Cmd {
	art, err := sink.RenderWithFallback(m.sess.Scene(), m.export.formats, m.export.options)
	if err != nil {
		observability.Editor().OnExport(m.sess.ID, m.export.formats[0], 0, err)
		return m.setStatus("Export failed", true)
	}
	path := m.export.base + "." + art.Format
	if err := m.writeFile(path, art.Data); err != nil {
		observability.Editor().OnExport(m.sess.ID, art.Format, 0, err)
		return m.setStatus("Export failed: "+err.Error(), true)
	}
	observability.Editor().OnExport(m.sess.ID, art.Format, len(art.Data), nil)
	return m.setStatus("Saved "+path, false)
}

// copySVG puts the SVG markup on the clipboard, or writes it to a file
// when no clipboard is available.
func (m *EditorModel) copySVG() tea.Cmd {
	data, err := sink.Render(m.sess.Scene(), render.FormatSVG, m.export.options)
	if err != nil {
		observability.Editor().OnExport(m.sess.ID, render.FormatSVG, 0, err)
		return m.setStatus("Copy failed", true)
	}
	err = m.copyText(string(data))
	if err == nil {
		observability.Editor().OnExport(m.sess.ID, render.FormatSVG, len(data), nil)
		return m.setStatus("Copied SVG to clipboard", false)
	}
	m.logger.Debug("clipboard unavailable", "error", err)
	path := m.export.base + "." + render.FormatSVG
	if err := m.writeFile(path, data); err != nil {
		observability.Editor().OnExport(m.sess.ID, render.FormatSVG, 0, err)
		return m.setStatus("Copy failed: "+err.Error(), true)
	}
	observability.Editor().OnExport(m.sess.ID, render.FormatSVG, len(data), nil)
	return m.setStatus("No clipboard, saved "+path, false)
}

func (m *EditorModel) setStatus(msg string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.status, m.statusErr = msg, isErr
	seq := m.statusSeq
	return tea.Tick(statusTTL, func(time.Time) tea.Msg { return statusClearMsg{seq: seq} })
}

// animate starts the frame loop when a layout is easing in and no loop
// is running yet.
func (m *EditorModel) animate() tea.Cmd {
	if m.ticking || !m.sess.Animating() {
		return nil
	}
	m.ticking = true
	return frame()
}

func frame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// =============================================================================
// Geometry
// =============================================================================

func (m *EditorModel) resize(w, h int) {
	m.width, m.height = w, h
	m.cols = max(minCols, w-sidebarWidth-1)
	m.rows = max(minRows, h-chromeRows)
	m.cx = min(m.cx, m.cols-1)
	m.cy = min(m.cy, m.rows-1)
}

func (m EditorModel) cellSize() (float64, float64) {
	w, h := m.sess.Size()
	return w / float64(m.cols), h / float64(m.rows)
}

func (m *EditorModel) moveCursor(dc, dr int) {
	m.cx = min(max(m.cx+dc, 0), m.cols-1)
	m.cy = min(max(m.cy+dr, 0), m.rows-1)
}

// cursorPoint is the canvas point at the center of the cursor cell.
func (m EditorModel) cursorPoint() canvas.Point {
	cw, ch := m.cellSize()
	return canvas.Point{X: (float64(m.cx) + 0.5) * cw, Y: (float64(m.cy) + 0.5) * ch}
}

func (m EditorModel) hovered() (*canvas.Tile, bool) {
	return m.sess.Tiles().TileAt(m.cursorPoint())
}

func (m EditorModel) toCell(p canvas.Point) (int, int) {
	cw, ch := m.cellSize()
	return int(math.Floor(p.X / cw)), int(math.Floor(p.Y / ch))
}

// =============================================================================
// View
// =============================================================================

type cell struct {
	ch     rune
	fg, bg lipgloss.Color
	bold   bool
}

func (m EditorModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(appName))
	b.WriteString(editorHelpStyle.Render(fmt.Sprintf("  %d tiles  %d lines",
		m.sess.Tiles().Len(), len(m.sess.Lines()))))
	if id, ok := m.sess.Selected(); ok {
		b.WriteString(editorHelpStyle.Render("  selected "))
		b.WriteString(StyleHighlight.Render(id))
	}
	if id, ok := m.sess.Dragging(); ok {
		b.WriteString(editorDragStyle.Render("  dragging " + id))
	}
	b.WriteString("\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.sidebarView(), " ", m.canvasView()))
	b.WriteString("\n")

	switch {
	case m.dialog:
		b.WriteString(m.input.View())
	case m.status != "" && m.statusErr:
		b.WriteString(editorErrorStyle.Render(iconError + " " + m.status))
	case m.status != "":
		b.WriteString(editorStatusStyle.Render(iconSuccess + " " + m.status))
	}
	b.WriteString("\n")
	b.WriteString(editorHelpStyle.Render(editorHelp))
	return b.String()
}

func (m EditorModel) sidebarView() string {
	lines := []string{StyleTitle.Render("Palette")}
	visible := m.rows - 1
	offset := 0
	if m.pick >= visible {
		offset = m.pick - visible + 1
	}
	for i := offset; i < len(m.palette) && i < offset+visible; i++ {
		e := m.palette[i]
		marker, style := "  ", editorEntryStyle
		if i == m.pick {
			marker, style = "▸ ", editorPickStyle
		}
		lines = append(lines, marker+swatch(e.Color())+" "+style.Render(e.Value)+
			editorHelpStyle.Render(" "+string(e.Kind)))
	}
	return lipgloss.NewStyle().Width(sidebarWidth).Height(m.rows).Render(strings.Join(lines, "\n"))
}

func (m EditorModel) canvasView() string {
	grid := make([][]cell, m.rows)
	for r := range grid {
		grid[r] = make([]cell, m.cols)
		for c := range grid[r] {
			grid[r][c] = cell{ch: ' '}
		}
	}
	set := func(c, r int, v cell) {
		if r >= 0 && r < m.rows && c >= 0 && c < m.cols {
			grid[r][c] = v
		}
	}

	cw, ch := m.cellSize()
	for _, l := range m.sess.Lines() {
		dx, dy := l.To.X-l.From.X, l.To.Y-l.From.Y
		steps := int(math.Max(math.Abs(dx)/cw, math.Abs(dy)/ch)) + 1
		for i := 0; i <= steps; i++ {
			f := float64(i) / float64(steps)
			c, r := m.toCell(canvas.Point{X: l.From.X + f*dx, Y: l.From.Y + f*dy})
			set(c, r, cell{ch: '·', fg: colorGray})
		}
	}

	selected, _ := m.sess.Selected()
	hover, _ := m.hovered()
	for _, t := range m.sess.Tiles().All() {
		c0, r0 := m.toCell(canvas.Point{X: t.X, Y: t.Y})
		c1, r1 := m.toCell(canvas.Point{X: t.X + t.Width, Y: t.Y + t.Height})
		c1, r1 = max(c0, c1-1), max(r0, r1-1)
		bg := lipgloss.Color(t.Color)
		bold := hover != nil && hover.ID == t.ID
		for r := r0; r <= r1; r++ {
			for c := c0; c <= c1; c++ {
				set(c, r, cell{ch: ' ', fg: "#000000", bg: bg, bold: bold})
			}
		}
		if t.ID == selected {
			sel := lipgloss.Color(tile.SelectedColor)
			for r := r0; r <= r1; r++ {
				set(c0, r, cell{ch: '▌', fg: sel, bg: bg})
				set(c1, r, cell{ch: '▐', fg: sel, bg: bg})
			}
		}

		text := []string{t.Label}
		if code := t.Spec.Code(); code != "" {
			text = []string{code, t.Label}
		}
		width := c1 - c0 - 1
		row := r0 + (r1-r0+1-len(text))/2
		for i, s := range text {
			runes := []rune(s)
			if width > 0 && len(runes) > width {
				runes = runes[:width]
			}
			start := c0 + (c1-c0+1-len(runes))/2
			for j, rch := range runes {
				set(start+j, row+i, cell{ch: rch, fg: "#000000", bg: bg, bold: bold})
			}
		}
	}

	cur := grid[m.cy][m.cx]
	if cur.ch == ' ' {
		cur.ch = '+'
	}
	cur.fg, cur.bg = "#FFFFFF", colorCyan
	grid[m.cy][m.cx] = cur

	rows := make([]string, m.rows)
	for r, line := range grid {
		rows[r] = renderCells(line)
	}
	return strings.Join(rows, "\n")
}

// renderCells styles runs of equal cells together.
func renderCells(line []cell) string {
	var b strings.Builder
	for i := 0; i < len(line); {
		j := i
		var run strings.Builder
		for j < len(line) && sameStyle(line[i], line[j]) {
			run.WriteRune(line[j].ch)
			j++
		}
		style := lipgloss.NewStyle().Bold(line[i].bold)
		if line[i].fg != "" {
			style = style.Foreground(line[i].fg)
		}
		if line[i].bg != "" {
			style = style.Background(line[i].bg)
		}
		b.WriteString(style.Render(run.String()))
		i = j
	}
	return b.String()
}

func sameStyle(a, b cell) bool {
	return a.fg == b.fg && a.bg == b.bg && a.bold == b.bold
}

// =============================================================================
// Entry point
// =============================================================================

// runEditor runs the editor full-screen until the user quits.
func runEditor(sess *editor.Session, export exportSettings, logger *log.Logger) error {
	p := tea.NewProgram(NewEditorModel(sess, export, logger),
		tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithOutput(os.Stderr))
	_, err := p.Run()
	return err
}
