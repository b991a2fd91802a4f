// Package tui implements the terminal product browser behind
// `catalogctl browse`.
package tui

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/simp-lee/catalog/internal/domain"
	"github.com/simp-lee/catalog/internal/listing"
)

// Fetcher loads the product collection. *listing.Client implements it.
type Fetcher interface {
	FetchProducts(ctx context.Context) ([]domain.Product, error)
}

type productsLoadedMsg struct {
	products []domain.Product
}

type loadFailedMsg struct {
	err error
}

// Model is the bubbletea model of the product browser. It holds one
// listing.State and replaces it on every event.
type Model struct {
	fetcher Fetcher
	ctx     context.Context
	cancel  context.CancelFunc

	state  listing.State
	search textinput.Model
	table  table.Model
	styles Styles
}

// New creates a browser that fetches from f once Init runs. The fetch is
// bound to a context derived from parent and is cancelled when the browser
// quits.
func New(parent context.Context, f Fetcher) Model {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 6},
			{Title: "Product Name", Width: 30},
			{Title: "Price", Width: 14},
			{Title: "Owner", Width: 20},
		}),
		table.WithFocused(true),
		table.WithHeight(listing.PageSize+2),
	)

	si := textinput.New()
	si.Placeholder = "Search products..."
	si.CharLimit = 100
	si.Width = 40
	si.Focus()

	return Model{
		fetcher: f,
		ctx:     ctx,
		cancel:  cancel,
		state:   listing.NewState(),
		search:  si,
		table:   t,
		styles:  DefaultStyles(),
	}
}

// Init starts the single collection fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.fetch())
}

func (m Model) fetch() tea.Cmd {
	ctx, f := m.ctx, m.fetcher
	return func() tea.Msg {
		products, err := f.FetchProducts(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return loadFailedMsg{err: err}
		}
		return productsLoadedMsg{products: products}
	}
}

// State returns the current listing state.
func (m Model) State() listing.State {
	return m.state
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case productsLoadedMsg:
		if m.ctx.Err() != nil {
			return m, nil
		}
		m.state = m.state.Loaded(msg.products)
		m.refreshRows()
		return m, nil

	case loadFailedMsg:
		if m.ctx.Err() != nil {
			return m, nil
		}
		m.state = m.state.Failed(msg.err)
		return m, nil

	case tea.WindowSizeMsg:
		m.search.Width = max(20, msg.Width/2)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancel()
			return m, tea.Quit
		case "left", "pgup":
			m.state = m.state.Prev()
			m.refreshRows()
			return m, nil
		case "right", "pgdown":
			m.state = m.state.Next()
			m.refreshRows()
			return m, nil
		case "home":
			m.state = m.state.First()
			m.refreshRows()
			return m, nil
		case "end":
			m.state = m.state.Last()
			m.refreshRows()
			return m, nil
		case "up", "down":
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.state = m.state.Search(m.search.Value())
		m.refreshRows()
		return m, cmd
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m *Model) refreshRows() {
	items := m.state.Items()
	rows := make([]table.Row, 0, len(items))
	for _, p := range items {
		rows = append(rows, table.Row{
			strconv.FormatUint(uint64(p.ID), 10),
			p.Name,
			listing.FormatPrice(p.Price),
			p.User.Name,
		})
	}
	if len(rows) == 0 {
		rows = append(rows, table.Row{"", "No products found", "", ""})
	}
	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

// View renders the browser.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Title.Render("Products"))
	sb.WriteString("\n\n")
	sb.WriteString(m.styles.Search.Render(m.search.View()))
	sb.WriteString("\n\n")

	switch m.state.Status {
	case listing.StatusLoading:
		sb.WriteString(m.styles.Muted.Render("Loading products..."))
		sb.WriteString("\n")
		return sb.String()
	case listing.StatusFailed:
		sb.WriteString(m.styles.Error.Render("Error: " + m.state.Err))
		sb.WriteString("\n")
		sb.WriteString(m.styles.Help.Render("esc quit"))
		return sb.String()
	}

	if found := m.state.Found(); found != "" {
		sb.WriteString(m.styles.Muted.Render(found))
		sb.WriteString("\n")
	}
	sb.WriteString(m.styles.Muted.Render(m.state.Caption()))
	sb.WriteString("\n")
	sb.WriteString(m.table.View())
	sb.WriteString("\n")
	sb.WriteString(m.styles.Total.Render("Page total: " + listing.FormatPrice(m.state.Total())))
	sb.WriteString("\n")
	sb.WriteString(m.renderRange())
	sb.WriteString("\n")
	sb.WriteString(m.styles.Muted.Render(m.state.Summary().String()))
	sb.WriteString("\n\n")
	sb.WriteString(m.styles.Help.Render("type to search  ←/→ page  home/end first/last  esc quit"))

	return sb.String()
}

// renderRange renders the pagination range with the current page highlighted.
func (m Model) renderRange() string {
	links := m.state.Range()
	parts := make([]string, 0, len(links))
	for _, l := range links {
		if l.Page == m.state.Page {
			parts = append(parts, m.styles.Current.Render("["+l.String()+"]"))
			continue
		}
		parts = append(parts, m.styles.Page.Render(l.String()))
	}
	return strings.Join(parts, " ")
}

// Run starts the browser and blocks until the user
// quits or ctx is cancelled.
func Run(ctx context.Context, f Fetcher, opts ...tea.ProgramOption) error {
	m := New(ctx, f)
	defer m.cancel()

	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(m, opts...)
	_, err := p.Run()
	return err
}
