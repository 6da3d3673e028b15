package tui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/jask/quarta/internal/config"
	"github.com/jask/quarta/internal/dataframe"
	"github.com/jask/quarta/internal/insights"
	"github.com/jask/quarta/internal/service"
)

// SearchDebounce is how long typing must pause before debtors are searched.
const SearchDebounce = 500 * time.Millisecond

const barWidth = 28

// App is the insights view for one sheet.
type App struct {
	ctx     context.Context
	sheets  *service.SheetService
	sheetID string

	currency   string
	dateFormat string

	session *service.Session
	snap    insights.Snapshot
	minIdx  int // -1 = unset
	maxIdx  int

	focus     focusState
	search    textinput.Model
	searchSeq int
	debts     table.Model
	keys      keyMap
	help      help.Model
	status    string
}

type focusState string

const (
	focusChart  focusState = "chart"
	focusSearch focusState = "search"
)

type keyMap struct {
	Quit    key.Binding
	MinPrev key.Binding
	MinNext key.Binding
	MaxPrev key.Binding
	MaxNext key.Binding
	Reset   key.Binding
	Search  key.Binding
	Blur    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		MinPrev: key.NewBinding(key.WithKeys("["), key.WithHelp("[/]", "from month")),
		MinNext: key.NewBinding(key.WithKeys("]")),
		MaxPrev: key.NewBinding(key.WithKeys("{"), key.WithHelp("{/}", "to month")),
		MaxNext: key.NewBinding(key.WithKeys("}")),
		Reset:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "all months")),
		Search:  key.NewBinding(key.WithKeys("/", "tab"), key.WithHelp("/", "search debts")),
		Blur:    key.NewBinding(key.WithKeys("esc", "tab"), key.WithHelp("esc", "back")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.MinPrev, k.MaxPrev, k.Reset, k.Search, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// New returns a view that opens sheetID on Init.
func New(ctx context.Context, cfg config.Config, sheets *service.SheetService, sheetID string) *App {
	in := textinput.New()
	in.Placeholder = "search debts"
	in.Prompt = "/ "
	in.PromptStyle = focusStyle
	in.CharLimit = 64

	cols := []table.Column{
		{Title: "Who", Width: 24},
		{Title: "Balance", Width: 14},
		{Title: "Direction", Width: 12},
		{Title: "Paid", Width: 5},
	}
	t := table.New(table.WithColumns(cols), table.WithHeight(8), table.WithStyles(tableStyles()))

	return &App{
		ctx:        ctx,
		sheets:     sheets,
		sheetID:    sheetID,
		currency:   cfg.UI.CurrencySymbol,
		dateFormat: cfg.UI.DateFormat,
		minIdx:     -1,
		maxIdx:     -1,
		focus:      focusChart,
		search:     in,
		debts:      t,
		keys:       defaultKeyMap(),
		help:       help.New(),
	}
}

// Close releases the opened sheet.
func (a *App) Close() {
	if a.session != nil {
		a.session.Close()
		a.session = nil
	}
}

func (a *App) Init() tea.Cmd {
	return a.loadSession()
}

func (a *App) loadSession() tea.Cmd {
	return func() tea.Msg {
		sess, err := a.sheets.Open(a.ctx, a.sheetID)
		if err != nil {
			return errMsg{err}
		}
		return sessionMsg{sess}
	}
}

func searchTick(seq int) tea.Cmd {
	return tea.Tick(SearchDebounce, func(time.Time) tea.Msg {
		return searchTickMsg{seq: seq}
	})
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		if a.focus == focusSearch {
			return a.handleSearchKey(m)
		}
		return a.handleChartKey(m)
	case sessionMsg:
		a.Close()
		a.session = m.session
		if a.session.Report == nil {
			a.status = service.ErrUnreadableSheet.Error()
		}
		a.refresh()
	case searchTickMsg:
		// a newer keystroke restarted the timer
		if m.seq == a.searchSeq {
			a.refreshDebts()
		}
	case errMsg:
		a.status = "error: " + m.Error()
	case tea.WindowSizeMsg:
		a.help.Width = m.Width
	}
	return a, nil
}

func (a *App) handleChartKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := a.snap.Series.Len()
	switch {
	case key.Matches(m, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(m, a.keys.MinPrev):
		a.minIdx = step(a.minIdx, -1, 0, n)
	case key.Matches(m, a.keys.MinNext):
		a.minIdx = step(a.minIdx, 1, 0, n)
	case key.Matches(m, a.keys.MaxPrev):
		a.maxIdx = step(a.maxIdx, -1, n-1, n)
	case key.Matches(m, a.keys.MaxNext):
		a.maxIdx = step(a.maxIdx, 1, n-1, n)
	case key.Matches(m, a.keys.Reset):
		a.minIdx, a.maxIdx = -1, -1
	case key.Matches(m, a.keys.Search):
		a.focus = focusSearch
		a.debts.Focus()
		return a, a.search.Focus()
	default:
		return a, nil
	}
	a.refreshWindow()
	return a, nil
}

func (a *App) handleSearchKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.String() == "ctrl+c":
		return a, tea.Quit
	case key.Matches(m, a.keys.Blur):
		a.focus = focusChart
		a.search.Blur()
		a.debts.Blur()
		return a, nil
	case m.String() == "up" || m.String() == "down":
		var cmd tea.Cmd
		a.debts, cmd = a.debts.Update(m)
		return a, cmd
	}

	before := a.search.Value()
	var cmd tea.Cmd
	a.search, cmd = a.search.Update(m)
	if a.search.Value() == before {
		return a, cmd
	}
	a.searchSeq++
	return a, tea.Batch(cmd, searchTick(a.searchSeq))
}

// step moves an unset index from its edge, then within [0, n).
func step(idx, delta, edge, n int) int {
	if n == 0 {
		return -1
	}
	if idx < 0 {
		idx = edge
	}
	idx += delta
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	return idx
}

func (a *App) monthAt(idx int) string {
	if idx < 0 || idx >= a.snap.Series.Len() {
		return ""
	}
	return a.snap.Series.Months[idx]
}

func (a *App) query() insights.Query {
	return insights.Query{
		Debtors:  a.search.Value(),
		MinMonth: a.monthAt(a.minIdx),
		MaxMonth: a.monthAt(a.maxIdx),
	}
}

func (a *App) refresh() {
	if a.session == nil || a.session.Frame == nil {
		return
	}
	a.snap = insights.Build(a.session.Frame, a.query())
	a.setDebtRows(a.snap.Debtors)
}

func (a *App) refreshWindow() {
	q := a.query()
	a.snap.Window = insights.Window(a.snap.Series, q.MinMonth, q.MaxMonth)
}

func (a *App) refreshDebts() {
	if a.session == nil || a.session.Frame == nil {
		return
	}
	a.snap.Debtors = a.session.Frame.SearchDebtors(a.search.Value())
	a.setDebtRows(a.snap.Debtors)
}

func (a *App) setDebtRows(records []dataframe.DebtRecord) {
	rows := make([]table.Row, 0, len(records))
	for _, d := range records {
		paid := ""
		if d.Paid {
			paid = "yes"
		}
		rows = append(rows, table.Row{d.ID, a.money(d.Balance), directionLabel(d.Direction), paid})
	}
	a.debts.SetRows(rows)
}

func directionLabel(d dataframe.Direction) string {
	if d == dataframe.OwedByUser {
		return "you owe"
	}
	return "owes you"
}

// messages
type sessionMsg struct{ session *service.Session }

type searchTickMsg struct{ seq int }

type errMsg struct{ error }

func (a *App) View() string {
	if a.session == nil {
		if a.status != "" {
			return errStyle.Render(a.status) + "\n"
		}
		return "loading sheet...\n"
	}

	var b strings.Builder
	sheet := a.session.Sheet
	b.WriteString(titleStyle.Render(sheet.Name))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Last opened " + sheet.LastOpenedAt.Local().Format(a.dateFormat)))
	b.WriteString("\n\n")

	if a.session.Report == nil {
		b.WriteString(errStyle.Render(a.status))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(a.renderSummary())
	b.WriteString("\n\n")
	b.WriteString(a.renderMonthly())
	b.WriteString("\n\n")
	b.WriteString(a.renderDebts())
	b.WriteString("\n")
	b.WriteString(a.help.View(a.keys))
	if a.status != "" {
		b.WriteString("\n" + a.status)
	}
	return b.String()
}

func (a *App) renderSummary() string {
	s := a.snap.Stats
	quick := fmt.Sprintf("%s %s   %s %s",
		labelStyle.Render("Total earned"), inStyle.Render(a.money(s.TotalEarned)),
		labelStyle.Render("Lifetime savings"), percent(s.LifetimeSavingsDecimal))
	split := fmt.Sprintf("%s %s   %s %s   %s %s",
		labelStyle.Render("Earned"), inStyle.Render(a.money(s.TotalEarned)),
		labelStyle.Render("Spent"), outStyle.Render(a.money(s.TotalSpent)),
		labelStyle.Render("Net"), a.money(s.NetIncome))
	return titleStyle.Render("Summary") + "\n" + quick + "\n" + split
}

func (a *App) renderMonthly() string {
	w := a.snap.Window
	var b strings.Builder
	b.WriteString(titleStyle.Render("Inflows vs outflows"))
	b.WriteString("\n")
	if w.Len() == 0 {
		b.WriteString(labelStyle.Render("no months in range"))
		return b.String()
	}

	var peak float64
	for i := range w.Months {
		peak = math.Max(peak, math.Max(w.Inflows[i], math.Abs(w.Outflows[i])))
	}
	for i, month := range w.Months {
		fmt.Fprintf(&b, "%s  %s %-14s %s %s\n",
			month,
			inStyle.Render(bar(w.Inflows[i], peak)), a.money(w.Inflows[i]),
			outStyle.Render(bar(math.Abs(w.Outflows[i]), peak)), a.money(w.Outflows[i]))
	}
	badges := lipgloss.JoinHorizontal(lipgloss.Top,
		badgeStyle.Render("savings "+percent(w.SavingsAverage)),
		badgeStyle.Render("avg in "+a.money(w.AverageIn)),
		badgeStyle.Render("avg out "+a.money(w.AverageOut)),
	)
	fmt.Fprintf(&b, "%s %s .. %s\n", labelStyle.Render("range"), w.Months[0], w.Months[len(w.Months)-1])
	b.WriteString(badges)
	return b.String()
}

func (a *App) renderDebts() string {
	out := titleStyle.Render("Debts") + "\n" + a.search.View() + "\n"
	if len(a.snap.Debtors) == 0 {
		return out + labelStyle.Render("no matching debts")
	}
	return out + a.debts.View()
}

func bar(v, peak float64) string {
	if peak <= 0 || v <= 0 {
		return strings.Repeat(" ", barWidth)
	}
	n := int(math.Round(v / peak * barWidth))
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n) + strings.Repeat(" ", barWidth-n)
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

func (a *App) money(v float64) string {
	return dataframe.FormatAmount(decimal.NewFromFloat(v), a.currency)
}
