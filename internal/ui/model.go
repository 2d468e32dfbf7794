package ui

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"scrollwin/internal/config"
	"scrollwin/internal/coordinator"
	"scrollwin/internal/eventbus"
	"scrollwin/internal/feed"
	"scrollwin/internal/loader"
	"scrollwin/internal/ui/views"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	wheelStep     = 3
	appendBurst   = 5
)

// Model is the terminal host of one windowed feed. The coordinator owns the
// scroll state; the model translates terminal input into scroll samples and
// paints the placements of each frame.
type Model struct {
	bus    eventbus.EventBus
	config *config.Config
	source *feed.Source
	coord  *coordinator.Coordinator[feed.Item]

	ctx    context.Context
	cancel context.CancelFunc
	ready  chan struct{} // closed once coord is set

	width          int
	height         int
	estimatedWidth int

	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	jump     textinput.Model
	jumping  bool
	renderer *views.Renderer
	helpText *HelpRenderer

	status      string
	statusErr   bool
	inPagerMode bool

	yank    func(string) error
	program *tea.Program
	helpOps *HelpOps
}

// NewModel creates the host and attaches its coordinator
func NewModel(bus eventbus.EventBus, cfg *config.Config, source *feed.Source) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	keys := newKeyMap()

	jump := textinput.New()
	jump.Prompt = "jump to: "
	jump.Placeholder = "text or #id"

	m := &Model{
		bus:      bus,
		config:   cfg,
		source:   source,
		ctx:      ctx,
		cancel:   cancel,
		ready:    make(chan struct{}),
		width:    defaultWidth,
		height:   defaultHeight,
		keys:     keys,
		help:     help.New(),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		jump:     jump,
		renderer: views.NewRenderer(),
		helpText: NewHelpRenderer(keys),
		yank:     clipboard.WriteAll,
	}
	m.estimatedWidth = m.bodyWidth()

	coord, err := coordinator.New(m.options())
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to attach coordinator: %w", err)
	}
	m.coord = coord
	close(m.ready)
	return m, nil
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.helpOps = NewHelpOps(p)
}

// Close detaches the coordinator and cancels in-flight page requests
func (m *Model) Close() {
	m.coord.Detach()
	m.cancel()
}

func (m *Model) options() coordinator.Options[feed.Item] {
	engine := m.config.Engine
	opts := coordinator.Options[feed.Item]{
		ViewportExtent: float64(m.viewportHeight()),
		Overscan:       engine.Overscan,
		LoadThreshold:  engine.LoadThreshold,
		QuietPeriod:    engine.QuietPeriod(),
		Context:        m.ctx,
		OnScroll: func(offset float64, atBottom bool) {
			m.publish(eventbus.ScrolledEvent{Offset: offset, AtBottom: atBottom})
		},
		OnScrollingChange: func(scrolling bool) {
			m.publish(eventbus.ScrollingChangedEvent{Scrolling: scrolling})
		},
		OnLoadStateChange: func(s loader.State) {
			m.publish(eventbus.LoadStateChangedEvent{State: s.String()})
		},
		OnLoadMoreError: func(err error) {
			log.Printf("Load more failed: %v", err)
			m.publish(eventbus.LoadMoreFailedEvent{Err: err})
		},
	}

	fc := m.config.Feed
	switch m.config.UI.Mode {
	case config.ModeChat:
		opts.Items = m.source.Items(0, fc.InitialItems)
		opts.Estimate = feed.Estimator(m.bodyWidth())
		opts.PinToBottom = true
		opts.Key = feed.Item.Key
		opts.PinEpsilon = engine.PinEpsilon
	default:
		n := fc.InitialItems
		if fc.MaxItems > 0 && n > fc.MaxItems {
			n = fc.MaxItems
		}
		opts.Items = m.source.Items(0, n)
		opts.ItemExtent = float64(m.config.UI.RowHeight)
		opts.LoadMore = m.loadMore
		opts.HasMore = fc.MaxItems == 0 || n < fc.MaxItems
		if m.config.UI.Mode == config.ModeGrid {
			opts.Columns = m.config.UI.Columns
		}
	}
	return opts
}

// loadMore fetches the next page and hands it to the coordinator. It runs on
// the coordinator's load goroutine.
func (m *Model) loadMore(ctx context.Context) error {
	select {
	case <-m.ready:
	case <-ctx.Done():
		return ctx.Err()
	}

	items := m.coord.Items()
	page, err := m.source.Page(ctx, len(items), m.config.Feed.PageSize)
	if err != nil {
		return err
	}

	grown := make([]feed.Item, 0, len(items)+len(page.Items))
	grown = append(append(grown, items...), page.Items...)
	if err := m.coord.SetItems(grown); err != nil {
		return err
	}
	m.coord.SetHasMore(page.HasMore)
	m.publish(eventbus.ItemsAppendedEvent{Count: len(page.Items), HasMore: page.HasMore})
	return nil
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.config.UI.Mode == config.ModeChat && m.config.Feed.AppendInterval() > 0 {
		cmds = append(cmds, m.appendTick())
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if m.jumping {
			return m.updateJump(msg)
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	default:
		return m.handleNonKeyboardMsg(msg)
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.scrollBy(-m.lineStep())
	case key.Matches(msg, m.keys.Down):
		m.scrollBy(m.lineStep())
	case key.Matches(msg, m.keys.PageUp):
		m.scrollBy(-m.pageStep())
	case key.Matches(msg, m.keys.PageDown):
		m.scrollBy(m.pageStep())
	case key.Matches(msg, m.keys.Top):
		m.coord.ScrollToTop()
	case key.Matches(msg, m.keys.Bottom):
		m.coord.ScrollToBottom()
	case key.Matches(msg, m.keys.Jump):
		m.jumping = true
		m.jump.SetValue("")
		return m, m.jump.Focus()
	case key.Matches(msg, m.keys.Yank):
		return m, m.yankTop()
	case key.Matches(msg, m.keys.Refresh):
		return m, m.refresh()
	case key.Matches(msg, m.keys.Append):
		if m.config.UI.Mode == config.ModeChat {
			m.appendMessages(appendBurst)
		}
	case key.Matches(msg, m.keys.Help):
		return m, m.fetchHelpPager(m.helpText.RenderHelpContentPlain())
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionPress {
		return
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scrollBy(-wheelStep)
	case tea.MouseButtonWheelDown:
		m.scrollBy(wheelStep)
	}
}

// scrollBy feeds a user scroll sample relative to the current offset
func (m *Model) scrollBy(delta float64) {
	m.coord.HandleScroll(m.coord.State().ScrollOffset + delta)
}

func (m *Model) updateJump(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.jumping = false
		m.jump.Blur()
		return m, nil
	case tea.KeyEnter:
		m.jumping = false
		m.jump.Blur()
		return m, m.jumpTo(m.jump.Value())
	}

	var cmd tea.Cmd
	m.jump, cmd = m.jump.Update(msg)
	return m, cmd
}

// jumpTo scrolls to "#id" or to the best fuzzy match of author and body
func (m *Model) jumpTo(query string) tea.Cmd {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	items := m.coord.Items()

	target := -1
	if id, err := strconv.Atoi(strings.TrimPrefix(query, "#")); err == nil && strings.HasPrefix(query, "#") {
		for i, it := range items {
			if it.ID == id {
				target = i
				break
			}
		}
	} else {
		data := make([]string, len(items))
		for i, it := range items {
			data[i] = it.Author + " " + it.Body
		}
		if matches := fuzzy.Find(query, data); len(matches) > 0 {
			target = matches[0].Index
		}
	}

	if target < 0 {
		return m.setStatus(fmt.Sprintf("No match for %q", query), true)
	}
	m.coord.ScrollToIndex(target)
	return m.setStatus(fmt.Sprintf("Jumped to #%d", items[target].ID), false)
}

func (m *Model) yankTop() tea.Cmd {
	i := m.coord.IndexAt(m.coord.State().ScrollOffset)
	if i < 0 {
		return nil
	}
	it := m.coord.Items()[i]
	yank := m.yank
	return func() tea.Msg {
		return yankMsg{id: it.ID, err: yank(fmt.Sprintf("%s: %s", it.Author, it.Body))}
	}
}

// refresh tells an exhausted view that the source has data again
func (m *Model) refresh() tea.Cmd {
	if m.config.UI.Mode == config.ModeChat {
		return nil
	}
	m.source.Extend(m.config.Feed.PageSize)
	m.coord.SetHasMore(true)
	// resample in place so a view already near the end loads right away
	m.scrollBy(0)
	return m.setStatus("Fetching more", false)
}

func (m *Model) appendMessages(n int) {
	items := m.coord.Items()
	grown := make([]feed.Item, 0, len(items)+n)
	grown = append(grown, items...)
	for i := 0; i < n; i++ {
		grown = append(grown, m.source.Next())
	}
	if err := m.coord.SetItems(grown); err != nil {
		log.Printf("Failed to append messages: %v", err)
		return
	}
	m.publish(eventbus.ItemsAppendedEvent{Count: n, HasMore: true})
}

func (m *Model) appendTick() tea.Cmd {
	return tea.Tick(m.config.Feed.AppendInterval(), func(t time.Time) tea.Msg {
		return appendTickMsg(t)
	})
}

// fetchHelpPager returns a command that shows help using ov pager
func (m *Model) fetchHelpPager(helpContent string) tea.Cmd {
	if m.helpOps == nil {
		return nil
	}
	return func() tea.Msg {
		m.program.Send(pauseRenderingMsg{})
		err := m.helpOps.ShowHelpInPager(helpContent)
		m.program.Send(resumeRenderingMsg{})
		return helpPagerMsg{err: err}
	}
}

// handleNonKeyboardMsg handles non-keyboard messages
func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EventMsg:
		return m, m.handleEvent(msg.Event)

	case appendTickMsg:
		if m.inPagerMode {
			return m, m.appendTick()
		}
		m.appendMessages(1)
		return m, m.appendTick()

	case yankMsg:
		if msg.err != nil {
			log.Printf("Clipboard write failed: %v", msg.err)
			return m, m.setStatus(fmt.Sprintf("Copy failed: %v", msg.err), true)
		}
		return m, m.setStatus(fmt.Sprintf("Copied #%d", msg.id), false)

	case helpPagerMsg:
		if msg.err != nil {
			log.Printf("Help pager failed: %v", msg.err)
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, nil

	case clearStatusMsg:
		m.status = ""
		m.statusErr = false
		return m, nil
	}
	return m, nil
}

// handleEvent reacts to engine events forwarded from the bus; every event
// also causes a repaint
func (m *Model) handleEvent(event eventbus.DomainEvent) tea.Cmd {
	switch e := event.(type) {
	case eventbus.LoadMoreFailedEvent:
		return m.setStatus(fmt.Sprintf("Load failed: %v (scroll to retry)", e.Err), true)
	case eventbus.ItemsAppendedEvent:
		if !e.HasMore {
			return m.setStatus("Reached the end of the feed", false)
		}
	case eventbus.ErrorEvent:
		return m.setStatus(e.Message, true)
	}
	return nil
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.status = text
	m.statusErr = isErr
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
	m.jump.Width = max(1, width-len(m.jump.Prompt)-1)

	if err := m.coord.SetViewportExtent(float64(m.viewportHeight())); err != nil {
		log.Printf("Failed to resize viewport: %v", err)
	}
	if m.config.UI.Mode == config.ModeChat && m.bodyWidth() != m.estimatedWidth {
		if err := m.coord.SetEstimator(feed.Estimator(m.bodyWidth())); err != nil {
			log.Printf("Failed to re-estimate messages: %v", err)
			return
		}
		m.estimatedWidth = m.bodyWidth()
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.inPagerMode {
		return ""
	}

	snap, placements := m.coord.Frame()
	blocks := make([]views.Block, 0, len(placements))
	for _, p := range placements {
		blocks = append(blocks, views.Block{Offset: p.Offset, Column: p.Column, Lines: m.renderPlacement(p)})
	}

	loadState := snap.LoadState.String()
	if m.config.UI.Mode == config.ModeChat {
		loadState = "off"
	}

	state := views.ViewState{
		Width:          m.width,
		Height:         m.height,
		Mode:           m.config.UI.Mode,
		ItemCount:      snap.ItemCount,
		Blocks:         blocks,
		ScrollOffset:   snap.Viewport.ScrollOffset,
		MaxOffset:      snap.Viewport.MaxScrollOffset(),
		ViewportHeight: m.viewportHeight(),
		Columns:        m.columns(),
		RangeStart:     snap.Range.Start,
		RangeEnd:       snap.Range.End,
		LoadState:      loadState,
		Loading:        snap.LoadingMore,
		Scrolling:      snap.Scrolling,
		Pinned:         snap.Pinned,
		ShowStatus:     m.config.UI.ShowStatus,
		StatusMessage:  m.status,
		StatusIsError:  m.statusErr,
		HelpView:       m.help.View(m.keys),
	}
	if m.jumping {
		state.Prompt = m.jump.View()
	}
	return m.renderer.Render(state)
}

func (m *Model) renderPlacement(p coordinator.Placement[feed.Item]) []string {
	items := m.renderer.Items()
	height := max(1, int(p.Extent))
	if p.Sentinel != coordinator.SentinelNone {
		return items.Sentinel(p.Sentinel, m.spinner.View(), m.cellWidth(), height)
	}
	switch m.config.UI.Mode {
	case config.ModeChat:
		return items.Message(p.Item, m.bodyWidth())
	case config.ModeGrid:
		return items.Cell(p.Item, m.cellWidth(), height)
	default:
		return items.ListRow(p.Item, m.width, height)
	}
}

// viewportHeight is the terminal height minus the title, status and help lines
func (m *Model) viewportHeight() int {
	chrome := 2
	if m.config.UI.ShowStatus {
		chrome++
	}
	return max(1, m.height-chrome)
}

func (m *Model) bodyWidth() int {
	return max(1, m.width)
}

func (m *Model) columns() int {
	if m.config.UI.Mode == config.ModeGrid {
		return m.config.UI.Columns
	}
	return 1
}

func (m *Model) cellWidth() int {
	return max(1, m.width/m.columns())
}

func (m *Model) lineStep() float64 {
	if m.config.UI.Mode == config.ModeChat {
		return 1
	}
	return float64(m.config.UI.RowHeight)
}

func (m *Model) pageStep() float64 {
	return float64(max(1, m.viewportHeight()-1))
}

func (m *Model) publish(e eventbus.DomainEvent) {
	if m.bus != nil {
		m.bus.Publish(e)
	}
}
