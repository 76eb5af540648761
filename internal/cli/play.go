package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cartpile/pkg/cart"
	"github.com/matzehuels/cartpile/pkg/config"
	"github.com/matzehuels/cartpile/pkg/dialogue"
	"github.com/matzehuels/cartpile/pkg/errors"
	cartio "github.com/matzehuels/cartpile/pkg/io"
	"github.com/matzehuels/cartpile/pkg/store"
	"github.com/matzehuels/cartpile/pkg/survival"
	"github.com/matzehuels/cartpile/pkg/ui"
)

const (
	defaultRevealInterval = 30 * time.Millisecond
	playFrame             = time.Second / 30 // scroller step per key press
	pileColumns           = 48
)

// defaultShelf is offered when no item list is given.
var defaultShelf = []cart.Item{
	{Name: "apple", Tag: cart.TagGood, Width: 40},
	{Name: "bread", Tag: cart.TagGood, Width: 60},
	{Name: "rotten egg", Tag: cart.TagBad, Width: 30},
	{Name: "milk", Tag: cart.TagGood, Width: 45},
	{Name: "mouldy cheese", Tag: cart.TagBad, Width: 50},
	{Name: "soap", Width: 35},
	{Name: "canned beans", Tag: cart.TagGood, Width: 40},
	{Name: "spoiled fish", Tag: cart.TagBad, Width: 55},
}

type playOpts struct {
	items    string
	dialogue string
	load     string
	dir      string
	logFile  string
	interval time.Duration
}

func (c *CLI) playCommand() *cobra.Command {
	opts := playOpts{interval: defaultRevealInterval}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Fill a cart interactively in the terminal",
		Long: `Fill a cart interactively in the terminal.

Pick items from the shelf and drop them into the cart. Good items heal,
bad items hurt. Esc pauses; the pause menu has settings, audio and display
panels. Carts can be saved to and loaded from the local store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if opts.dialogue != "" {
				cfg.Dialogue.Path = opts.dialogue
			}
			return runPlay(cmd.Context(), cfg, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.items, "items", "i", "", "shelf item list (.json or .xlsx)")
	f.StringVar(&opts.dialogue, "dialogue", "", "dialogue catalog (TOML)")
	f.StringVar(&opts.load, "load", "", "resume a saved cart")
	f.StringVar(&opts.dir, "dir", "", "store directory for save and load")
	f.StringVar(&opts.logFile, "log", "", "write logs to this file")
	f.DurationVar(&opts.interval, "reveal", opts.interval, "typewriter delay per character (0 shows lines at once)")

	return cmd
}

func runPlay(ctx context.Context, cfg config.Config, opts playOpts) error {
	logger, closeLog, err := playLogger(opts.logFile, loggerFromContext(ctx).GetLevel())
	if err != nil {
		return err
	}
	defer closeLog()

	shelf := defaultShelf
	if opts.items != "" {
		if shelf, err = cartio.Import(opts.items); err != nil {
			return err
		}
	}
	cat, err := loadCatalog(cfg.Dialogue.Path)
	if err != nil {
		return err
	}
	st, err := openFileStore(cfg, opts.dir)
	if err != nil {
		return err
	}
	defer st.Close()

	m, err := newPlayModel(ctx, playDeps{
		cfg:      cfg,
		logger:   logger,
		shelf:    shelf,
		catalog:  cat,
		store:    st,
		load:     opts.load,
		interval: opts.interval,
	})
	if err != nil {
		return err
	}
	defer m.close()

	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil && !stderrors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return ctx.Err()
}

// playLogger logs to path, or nowhere when path is empty, so log lines do
// not tear the alternate screen.
func playLogger(path string, level log.Level) (*log.Logger, func(), error) {
	if path == "" {
		return newLogger(io.Discard, level), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return newLogger(f, level), func() { _ = f.Close() }, nil
}

// =============================================================================
// Model
// =============================================================================

type playDeps struct {
	cfg      config.Config
	logger   *log.Logger
	shelf    []cart.Item
	catalog  *dialogue.Catalog
	store    store.Store // nil disables save
	load     string
	interval time.Duration
}

// playModel is the bubbletea model for the play command. Keys go through the
// ui.Context dispatcher so pause and inspector bindings behave like the game.
type playModel struct {
	ctx      context.Context
	ui       *ui.Context
	cart     *cart.Cart
	meter    *survival.Meter
	catalog  *dialogue.Catalog
	store    store.Store
	logger   *log.Logger
	interval time.Duration

	shelf  []cart.Item
	cursor int
	hover  cart.HoverState

	pausePanel string
	panel      string // panel shown while paused
	status     string

	line     string
	revealID int
	reveal   *ui.Reveal
}

// revealMsg carries the next typewriter prefix.
type revealMsg struct {
	id   int
	text string
	next <-chan string
}

type revealDoneMsg struct{ id int }

func newPlayModel(ctx context.Context, d playDeps) (*playModel, error) {
	if len(d.shelf) == 0 {
		return nil, fmt.Errorf("the shelf is empty")
	}
	if d.logger == nil {
		d.logger = newLogger(io.Discard, log.InfoLevel)
	}
	if d.catalog == nil {
		d.catalog = dialogue.New()
	}

	var (
		c   *cart.Cart
		m   *survival.Meter
		err error
	)
	if d.load != "" {
		if d.store == nil {
			return nil, fmt.Errorf("no store to load %s from", d.load)
		}
		snap, err := d.store.Get(ctx, d.load)
		if err != nil {
			return nil, err
		}
		if c, m, err = snap.Restore(cart.WithLogger(d.logger)); err != nil {
			return nil, err
		}
	} else {
		if m, err = survival.NewMeter(d.cfg.Meter); err != nil {
			return nil, err
		}
		if c, err = cart.New(d.cfg.Cart, cart.WithEffect(m), cart.WithLogger(d.logger)); err != nil {
			return nil, err
		}
	}

	pm := &playModel{
		ctx:      ctx,
		ui:       ui.NewContext(d.logger, d.cfg.UI),
		cart:     c,
		meter:    m,
		catalog:  d.catalog,
		store:    d.store,
		logger:   d.logger,
		interval: d.interval,
		shelf:    d.shelf,

		pausePanel: d.cfg.UI.PausePanel,
	}
	pm.bind()
	pm.hover = c.Hover(pm.selected())
	return pm, nil
}

// bind subscribes the game actions after the built-in pause and inspector
// bindings, so those win when they consume an event.
func (m *playModel) bind() {
	in := m.ui.Input
	in.Subscribe(ui.KeyLeft, func(ui.Event) bool {
		m.ui.Scroller.Step(true, false, playFrame)
		return true
	})
	in.Subscribe(ui.KeyRight, func(ui.Event) bool {
		m.ui.Scroller.Step(false, true, playFrame)
		return true
	})
	in.Subscribe(ui.KeyRightClick, func(ev ui.Event) bool {
		if m.ui.Pause.Paused() {
			return false
		}
		it := m.selected()
		if m.ui.Inspector.Inspect(it.Name, ev) {
			m.logger.Debug("inspecting", "item", it.Name)
		}
		return true
	})
}

func (m *playModel) selected() cart.Item { return m.shelf[m.cursor] }

func (m *playModel) Init() tea.Cmd { return nil }

func (m *playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg.String())
	case tea.MouseMsg:
		if msg.Button == tea.MouseButtonRight && msg.Action == tea.MouseActionRelease {
			m.ui.Input.Dispatch(ui.KeyRightClick)
		}
	case revealMsg:
		if msg.id != m.revealID {
			return m, nil
		}
		m.line = msg.text
		return m, waitReveal(msg.id, msg.next)
	case revealDoneMsg:
		if msg.id == m.revealID {
			m.reveal = nil
		}
	}
	return m, nil
}

func (m *playModel) handleKey(key string) tea.Cmd {
	switch key {
	case "ctrl+c", "q":
		m.close()
		return tea.Quit
	case "esc":
		m.ui.Input.Dispatch(ui.KeyEscape)
		if m.ui.Pause.Paused() {
			if m.panel == "" {
				m.panel = m.pausePanel
			}
		} else {
			m.leaveMenu()
		}
		return nil
	}

	if m.ui.Pause.Paused() {
		m.menuKey(key)
		return nil
	}

	switch key {
	case "a", "left":
		m.ui.Input.Dispatch(ui.KeyLeft)
	case "d", "right":
		m.ui.Input.Dispatch(ui.KeyRight)
	case "i":
		m.ui.Input.Dispatch(ui.KeyRightClick)
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "enter", " ":
		return m.drop()
	case "r":
		m.cart.Reset()
		m.meter.Reset()
		m.hover = m.cart.Hover(m.selected())
		m.status = "cart emptied"
	case "s":
		m.save()
	}
	return nil
}

// menuKey navigates the pause menu panels.
func (m *playModel) menuKey(key string) {
	panels := m.ui.Panels
	switch key {
	case "1":
		panels.Open(ui.PanelSettings, m.panel)
		m.panel = ui.PanelSettings
	case "2":
		panels.Open(ui.PanelAudio, m.panel)
		m.panel = ui.PanelAudio
	case "3":
		panels.Open(ui.PanelDisplay, m.panel)
		m.panel = ui.PanelDisplay
	case "b", "backspace":
		m.panel = panels.Back(m.panel)
	}
}

// leaveMenu hides whatever menu panel is open after resuming.
func (m *playModel) leaveMenu() {
	if m.panel != "" && m.panel != m.pausePanel {
		m.ui.Panels.Hide(m.panel)
	}
	m.ui.Panels.Clear()
	m.panel = ""
}

func (m *playModel) move(delta int) {
	m.cart.Leave()
	m.cursor = (m.cursor + delta + len(m.shelf)) % len(m.shelf)
	m.hover = m.cart.Hover(m.selected())
}

func (m *playModel) drop() tea.Cmd {
	shelfItem := m.selected()
	it := cart.NewItem(shelfItem.Name, shelfItem.Tag, shelfItem.Width)
	it.Color = shelfItem.Color

	if _, err := m.cart.Drop(m.ctx, it); err != nil {
		if stderrors.Is(err, cart.ErrCartFull) {
			m.status = "the cart is full"
			m.hover = m.cart.Hover(m.selected())
			return nil
		}
		m.status = err.Error()
		return nil
	}
	m.status = ""
	m.hover = m.cart.Hover(m.selected())
	return m.startReveal(m.catalog.Line(it.Name))
}

// startReveal cancels any running typewriter and starts a new one.
func (m *playModel) startReveal(text string) tea.Cmd {
	if m.reveal != nil {
		m.reveal.Cancel()
	}
	m.revealID++
	m.line = ""

	ch := make(chan string)
	ctx, cancel := context.WithCancel(m.ctx)
	r := ui.StartReveal(ctx, text, m.interval, func(s string) {
		select {
		case ch <- s:
		case <-ctx.Done():
		}
	})
	go func() {
		_ = r.Wait()
		cancel()
		close(ch)
	}()
	m.reveal = r
	return waitReveal(m.revealID, ch)
}

func waitReveal(id int, ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return revealDoneMsg{id: id}
		}
		return revealMsg{id: id, text: s, next: ch}
	}
}

func (m *playModel) save() {
	if m.store == nil {
		m.status = "saving is disabled"
		return
	}
	if err := m.store.Set(m.ctx, store.NewSnapshot(m.cart, m.meter)); err != nil {
		m.status = "save failed: " + errors.UserMessage(err)
		return
	}
	m.status = "saved as " + m.cart.ID()
}

// close stops the typewriter and releases the UI bindings.
func (m *playModel) close() {
	if m.reveal != nil {
		m.reveal.Cancel()
	}
	m.ui.Close()
}

// =============================================================================
// View
// =============================================================================

var (
	playPanelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
	playLineStyle  = lipgloss.NewStyle().Italic(true).Foreground(colorWhite)
	playHoverStyle = map[cart.HoverState]lipgloss.Style{
		cart.HoverValid: StyleSuccess,
		cart.HoverFull:  StyleError,
	}
)

func (m *playModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("cartpile") + StyleDim.Render("  cart "+m.cart.ID()) + "\n")
	b.WriteString(fmt.Sprintf("HP %s %s\n", meterBar(m.meter.Fraction(), 20), StyleValue.Render(m.meter.String())))
	b.WriteString(fmt.Sprintf("Cart %d/%d  hover: %s  view: %+.0f\n\n",
		m.cart.Len(), m.cart.Capacity(),
		playHoverStyle[m.hover].Render(m.hover.String()),
		m.ui.Scroller.X))

	b.WriteString(playPanelStyle.Render(m.pileView()) + "\n")

	b.WriteString(StyleTitle.Render("Shelf") + "\n")
	for i, it := range m.shelf {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		tag := string(it.Tag)
		if tag == "" {
			tag = "-"
		}
		b.WriteString(fmt.Sprintf("%s%-16s %s %s\n", cursor, it.Name,
			tagStyle(it.Tag).Render(fmt.Sprintf("%-5s", tag)), StyleDim.Render(fmt.Sprintf("%.0f", it.Width))))
	}

	if m.line != "" {
		b.WriteString("\n" + playLineStyle.Render("“"+m.line+"”") + "\n")
	}
	if m.ui.Inspector.Inspecting() {
		name := m.ui.Inspector.Item()
		desc, ok := m.catalog.Describe(name)
		if !ok {
			desc = "Nothing special about it."
		}
		b.WriteString("\n" + playPanelStyle.Render(StyleHighlight.Render(name)+"\n"+desc) + "\n")
	}
	if m.ui.Pause.Paused() {
		b.WriteString("\n" + playPanelStyle.Render(m.menuView()) + "\n")
	}
	if m.status != "" {
		b.WriteString("\n" + StyleWarning.Render(m.status) + "\n")
	}

	b.WriteString("\n" + StyleDim.Render("↑/↓ pick  ⏎ drop  i inspect  a/d scroll  r reset  s save  esc pause  q quit"))
	return b.String()
}

// pileView draws each pile row as a line, top row first, with the item's
// initial at its center x.
func (m *playModel) pileView() string {
	region := m.cart.Config().Pile.Region
	entries := m.cart.Entries()
	rows := 1
	for _, e := range entries {
		rows = max(rows, e.Placement.Row+1)
	}
	lines := make([][]rune, rows)
	for i := range lines {
		lines[i] = []rune(strings.Repeat("·", pileColumns))
	}
	for _, e := range entries {
		col := int((e.Placement.X - region.Left) / region.Width() * pileColumns)
		col = max(0, min(pileColumns-1, col))
		initial := []rune(e.Item.Name)
		if len(initial) > 0 {
			lines[e.Placement.Row][col] = initial[0]
		}
	}
	out := make([]string, rows)
	for i := range lines {
		out[rows-1-i] = string(lines[i])
	}
	return strings.Join(out, "\n")
}

func (m *playModel) menuView() string {
	panels := m.ui.Panels
	var b strings.Builder
	b.WriteString(StyleTitle.Render("Paused") + StyleDim.Render("  "+describeWalk(panels, m.panel)) + "\n")
	for i, name := range []string{ui.PanelSettings, ui.PanelAudio, ui.PanelDisplay} {
		style := StyleValue
		if panels.Visible(name) {
			style = StyleHighlight
		}
		b.WriteString(style.Render(fmt.Sprintf("%d %s", i+1, name)) + "\n")
	}
	b.WriteString(StyleDim.Render("b back  esc resume"))
	return b.String()
}
