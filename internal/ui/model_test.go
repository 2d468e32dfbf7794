package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scrollwin/internal/config"
	"scrollwin/internal/domain"
	"scrollwin/internal/eventbus"
	"scrollwin/internal/feed"
	"scrollwin/internal/loader"
)

func testConfig(mode string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.UI.Mode = mode
	cfg.Feed.LatencyMS = 0
	cfg.Feed.FailureRate = 0
	cfg.Feed.AppendIntervalMS = 0
	return cfg
}

func newTestModel(t *testing.T, cfg *config.Config) *Model {
	t.Helper()
	m, err := NewModel(nil, cfg, feed.NewSource(cfg.Feed))
	require.NoError(t, err)
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModelRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := testConfig(config.ModeList)
	cfg.UI.Mode = "carousel"
	_, err := NewModel(nil, cfg, feed.NewSource(cfg.Feed))
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestListScrollingKeys(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, testConfig(config.ModeList))
	require.Equal(t, 21.0, m.coord.State().ViewportExtent)

	m.Update(keyPress("j"))
	m.Update(keyPress("j"))
	m.Update(keyPress("k"))
	assert.Equal(t, 1.0, m.coord.State().ScrollOffset)

	m.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Equal(t, 21.0, m.coord.State().ScrollOffset)

	m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	assert.Equal(t, 18.0, m.coord.State().ScrollOffset)

	m.Update(keyPress("g"))
	assert.Equal(t, 0.0, m.coord.State().ScrollOffset)
	assert.True(t, m.coord.IsScrolling())
}

func TestListLoadsPagesAtTheEnd(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, testConfig(config.ModeList))
	require.Equal(t, 60, m.coord.Len())

	m.Update(keyPress("G"))
	require.Eventually(t, func() bool {
		return m.coord.Len() == 100 && m.coord.LoadState() == loader.Idle
	}, time.Second, time.Millisecond)

	for i, it := range m.coord.Items() {
		require.Equal(t, i, it.ID)
	}
}

func TestViewPaintsWindow(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, testConfig(config.ModeList))
	lines := strings.Split(ansi.Strip(m.View()), "\n")

	require.Len(t, lines, 24)
	assert.Contains(t, lines[0], "scrollwin")
	assert.Contains(t, lines[0], "60 items")
	assert.True(t, strings.HasPrefix(lines[1], "#0"), lines[1])
	assert.True(t, strings.HasPrefix(lines[21], "#20"), lines[21])
	assert.Contains(t, lines[22], "window 0–")
}

func TestGridView(t *testing.T) {
	t.Parallel()

	cfg := testConfig(config.ModeGrid)
	cfg.UI.Columns = 4
	cfg.UI.RowHeight = 3
	m := newTestModel(t, cfg)

	assert.Equal(t, 48.0, m.coord.State().TotalExtent, "60 items and the sentinel in 16 rows of 3 lines")
	lines := strings.Split(ansi.Strip(m.View()), "\n")
	assert.Contains(t, lines[1], "#0")
	assert.Contains(t, lines[1], "#3")
	assert.Contains(t, lines[4], "#4")
}

func TestChatFollowsAppendsWhilePinned(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, testConfig(config.ModeChat))
	require.True(t, m.coord.IsPinnedToBottom())
	assert.True(t, m.coord.IsAtBottom())

	m.Update(keyPress("a"))
	assert.Equal(t, 65, m.coord.Len())
	assert.True(t, m.coord.IsAtBottom())
	assert.True(t, m.coord.VisibleRange().Contains(64))

	m.Update(keyPress("k"))
	offset := m.coord.State().ScrollOffset
	m.Update(appendTickMsg(time.Now()))
	assert.Equal(t, 66, m.coord.Len())
	assert.Equal(t, offset, m.coord.State().ScrollOffset, "scrolled-up reader stays put")
}

func TestChatResizeReestimates(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, testConfig(config.ModeChat))
	wide := m.coord.State().TotalExtent

	m.Update(tea.WindowSizeMsg{Width: 30, Height: 24})
	narrow := m.coord.State()
	assert.Greater(t, narrow.TotalExtent, wide)
	assert.Equal(t, narrow.MaxScrollOffset(), narrow.ScrollOffset, "pinned view stays at the bottom")
}

func TestJumpToID(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, testConfig(config.ModeList))

	m.Update(keyPress("/"))
	require.True(t, m.jumping)
	for _, r := range "#30" {
		m.Update(keyPress(string(r)))
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, m.jumping)
	assert.Equal(t, 30.0, m.coord.State().ScrollOffset)
	assert.Equal(t, "Jumped to #30", m.status)
}

func TestJumpFuzzyAndMiss(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, testConfig(config.ModeList))
	target := m.coord.Items()[25]

	m.jumpTo(target.Author + " " + target.Body)
	assert.Equal(t, 25, m.coord.IndexAt(m.coord.State().ScrollOffset))

	m.jumpTo("zzzzzzzzzzzzzzzz")
	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "No match")

	m.Update(keyPress("/"))
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.jumping)
}

func TestYankCopiesTopItem(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, testConfig(config.ModeList))
	var copied string
	m.yank = func(s string) error {
		copied = s
		return nil
	}

	m.coord.ScrollToIndex(7)
	_, cmd := m.Update(keyPress("y"))
	require.NotNil(t, cmd)
	m.Update(cmd())

	it := m.coord.Items()[7]
	assert.Equal(t, it.Author+": "+it.Body, copied)
	assert.Equal(t, "Copied #7", m.status)

	m.yank = func(string) error { return errors.New("no clipboard") }
	_, cmd = m.Update(keyPress("y"))
	m.Update(cmd())
	assert.True(t, m.statusErr)
}

func TestLoadFailureSurfacesInStatus(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, testConfig(config.ModeList))
	m.Update(EventMsg{Event: eventbus.LoadMoreFailedEvent{Err: feed.ErrPageFailed}})
	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "page request failed")

	m.Update(clearStatusMsg{})
	assert.Empty(t, m.status)
}

func TestRefreshReopensExhaustedFeed(t *testing.T) {
	t.Parallel()

	cfg := testConfig(config.ModeList)
	cfg.Feed.InitialItems = 10
	cfg.Feed.MaxItems = 10
	m := newTestModel(t, cfg)
	require.Equal(t, loader.Exhausted, m.coord.LoadState())

	m.Update(keyPress("r"))
	require.Eventually(t, func() bool {
		return m.coord.Len() == 10+cfg.Feed.PageSize && m.coord.LoadState() == loader.Exhausted
	}, time.Second, time.Millisecond)
}

func TestQuitDetaches(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, testConfig(config.ModeList))
	_, cmd := m.Update(keyPress("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.False(t, m.coord.Attached())
}

func TestHelpContentListsBindings(t *testing.T) {
	t.Parallel()

	content := ansi.Strip(NewHelpRenderer(newKeyMap()).RenderHelpContentPlain())
	for _, want := range []string{"scrollwin Help", "jump to", "copy top item", "pinned"} {
		assert.Contains(t, content, want)
	}
}
