package ui

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fd1az/swap-explorer/business/explorer/app"
	"github.com/fd1az/swap-explorer/business/explorer/domain"
	"github.com/fd1az/swap-explorer/internal/apperror"
	"github.com/fd1az/swap-explorer/internal/asset"
	"github.com/fd1az/swap-explorer/pkg/ui/components"
)

const (
	fieldMint = iota
	fieldAmount
	fieldThreshold
	fieldCount
)

const (
	catalogIndicator = "Jupiter tokens"
	maxVisibleRoutes = 12
)

// Explorer runs route queries.
type Explorer interface {
	Run(ctx context.Context, in app.QueryInput) (*app.Outcome, error)
}

// Catalog is the token directory as seen by the TUI.
type Catalog interface {
	Load(ctx context.Context) error
	Refresh(ctx context.Context) (int, error)
	Len() int
}

// Options configures the TUI.
type Options struct {
	ReferenceSymbol  string
	DefaultThreshold string
}

// Model is the main Bubble Tea model for the TUI. All session state lives
// in state and changes only through domain.Reduce.
type Model struct {
	ctx      context.Context
	explorer Explorer
	catalog  Catalog
	refSym   string

	state  domain.State
	cancel context.CancelFunc

	// Components
	inputs  [fieldCount]textinput.Model
	focus   int
	spinner spinner.Model
	help    help.Model
	keys    KeyMap
	routes  *components.RoutesComponent
	status  *components.StatusComponent

	outSym   string
	width    int
	quitting bool
}

// New creates a new TUI model.
func New(ctx context.Context, explorer Explorer, catalog Catalog, opts Options) Model {
	if opts.ReferenceSymbol == "" {
		opts.ReferenceSymbol = "SOL"
	}

	state := domain.NewState()
	if opts.DefaultThreshold != "" {
		state = domain.Reduce(state, domain.ThresholdEdited{Threshold: opts.DefaultThreshold})
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = LoadingStyle

	m := Model{
		ctx:      ctx,
		explorer: explorer,
		catalog:  catalog,
		refSym:   opts.ReferenceSymbol,
		state:    state,
		spinner:  sp,
		help:     help.New(),
		keys:     DefaultKeyMap(),
		routes:   components.NewRoutesComponent(maxVisibleRoutes),
		status:   components.NewStatusComponent(),
	}

	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = "› "
		ti.CharLimit = 64
		m.inputs[i] = ti
	}
	m.inputs[fieldMint].Placeholder = asset.MintBONK + " (BONK)"
	m.inputs[fieldThreshold].CharLimit = 16
	m.inputs[fieldAmount].CharLimit = 32
	m.syncInputs()
	m.inputs[fieldMint].Focus()

	m.status.Update(components.Indicator{Name: catalogIndicator, State: components.IndicatorPending, Detail: "loading"})
	return m
}

// State returns the current session state.
func (m Model) State() domain.State {
	return m.state
}

// Init initializes the TUI model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadCatalog())
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case spinner.TickMsg:
		if !m.state.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case QueryResultMsg:
		return m.handleResult(msg), nil

	case CatalogStatusMsg:
		ind := components.Indicator{Name: catalogIndicator, State: components.IndicatorOK}
		switch {
		case msg.Err != nil:
			ind.State = components.IndicatorFailed
			ind.Detail = apperror.UserMessage(msg.Err)
		default:
			ind.Detail = formatCount(msg.Tokens) + " tokens"
		}
		m.status.Update(ind)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancelQuery()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.ToggleMode):
		return m.selectMode(m.state.Mode.Toggle()), nil

	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.Refresh):
		m.status.Update(components.Indicator{Name: catalogIndicator, State: components.IndicatorPending, Detail: "reloading"})
		return m, m.refreshCatalog()

	case key.Matches(msg, m.keys.NextField):
		return m, m.setFocus(m.focus + 1)

	case key.Matches(msg, m.keys.PrevField):
		return m, m.setFocus(m.focus - 1)

	case key.Matches(msg, m.keys.ScrollUp):
		m.routes.ScrollUp()
		return m, nil

	case key.Matches(msg, m.keys.ScrollDown):
		m.routes.ScrollDown()
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.state = domain.Reduce(m.state, editEvent(m.focus, m.inputs[m.focus].Value()))
	return m, cmd
}

func editEvent(field int, value string) domain.Event {
	switch field {
	case fieldAmount:
		return domain.AmountEdited{Amount: value}
	case fieldThreshold:
		return domain.ThresholdEdited{Threshold: value}
	default:
		return domain.TokenMintEdited{Mint: value}
	}
}

// selectMode switches direction. An in-flight query is cancelled and its
// result will be ignored.
func (m Model) selectMode(mode domain.SwapMode) Model {
	m.cancelQuery()
	m.state = domain.Reduce(m.state, domain.ModeSelected{Mode: mode})
	m.routes.SetRows(nil)
	m.outSym = ""
	m.syncInputs()
	return m
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.state.Loading {
		return m, nil
	}

	threshold, thresholdErr := domain.ParseThreshold(m.state.Threshold)

	m.state = domain.Reduce(m.state, domain.QuerySubmitted{})
	m.routes.SetRows(nil)
	seq := m.state.Seq

	if thresholdErr != nil {
		m.state = domain.Reduce(m.state, domain.QueryFailed{Seq: seq, Message: apperror.UserMessage(thresholdErr)})
		return m, nil
	}

	m.cancelQuery()
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel

	in := app.QueryInput{
		Mode:      m.state.Mode,
		TokenMint: m.state.TokenMint(),
		Amount:    m.state.Amount,
		Threshold: threshold,
	}
	return m, tea.Batch(runQuery(ctx, m.explorer, seq, in), m.spinner.Tick)
}

func runQuery(ctx context.Context, explorer Explorer, seq uint64, in app.QueryInput) tea.Cmd {
	return func() tea.Msg {
		out, err := explorer.Run(ctx, in)
		return QueryResultMsg{Seq: seq, Outcome: out, Err: err}
	}
}

func (m Model) handleResult(msg QueryResultMsg) Model {
	if msg.Seq != m.state.Seq {
		return m
	}

	if msg.Err == nil && msg.Outcome == nil {
		msg.Err = apperror.New(apperror.CodeUnknownError)
	}
	if msg.Err != nil {
		m.state = domain.Reduce(m.state, domain.QueryFailed{Seq: msg.Seq, Message: apperror.UserMessage(msg.Err)})
		return m
	}

	out := msg.Outcome
	var bestRate string
	if !out.BestRate.IsZero() {
		bestRate = out.BestRate.String()
	}
	m.state = domain.Reduce(m.state, domain.QuerySucceeded{
		Seq:      msg.Seq,
		Rows:     out.Rows,
		Alarm:    out.Evaluation.AlarmTriggered,
		BestRate: bestRate,
	})
	m.outSym = out.OutputToken.Symbol

	rows := make([]components.RouteRow, len(out.Rows))
	for i, r := range out.Rows {
		output := r.OutputAmountHuman
		if i < len(out.Evaluation.Candidates) {
			output = asset.ToHumanGrouped(out.Evaluation.Candidates[i].OutAmount, out.OutputToken.Decimals)
		}
		rows[i] = components.RouteRow{
			Dex:         r.DexLabels,
			Output:      output,
			PriceImpact: r.PriceImpactText,
			Path:        r.PathText,
		}
	}
	m.routes.SetRows(rows)
	return m
}

func (m *Model) cancelQuery() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m *Model) setFocus(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = (i + fieldCount) % fieldCount
	return m.inputs[m.focus].Focus()
}

// syncInputs copies the editable fields of the state into the inputs.
func (m *Model) syncInputs() {
	m.inputs[fieldMint].SetValue(m.state.TokenMint())
	m.inputs[fieldAmount].SetValue(m.state.Amount)
	m.inputs[fieldThreshold].SetValue(m.state.Threshold)
}

func (m Model) loadCatalog() tea.Cmd {
	ctx, catalog := m.ctx, m.catalog
	return func() tea.Msg {
		err := catalog.Load(ctx)
		return CatalogStatusMsg{Tokens: catalog.Len(), Err: err}
	}
}

func (m Model) refreshCatalog() tea.Cmd {
	ctx, catalog := m.ctx, m.catalog
	return func() tea.Msg {
		n, err := catalog.Refresh(ctx)
		if err != nil {
			n = catalog.Len()
		}
		return CatalogStatusMsg{Tokens: n, Refreshed: true, Err: err}
	}
}

func formatCount(n int) string {
	return asset.GroupThousands(strconv.Itoa(n))
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "\n  Goodbye!\n\n"
	}

	var b strings.Builder

	b.WriteString(TitleStyle.Render(" 🔁 Solana Swap Explorer "))
	b.WriteString("  ")
	b.WriteString(m.status.View())
	b.WriteString("\n\n")

	b.WriteString(m.renderModeTabs())
	b.WriteString("\n\n")

	b.WriteString(m.renderForm())
	b.WriteString("\n")

	if m.state.Loading {
		b.WriteString(LoadingStyle.Render(m.spinner.View() + " Fetching routes..."))
	} else {
		b.WriteString(ButtonStyle.Render("🔍 Find swap routes"))
	}
	b.WriteString("\n\n")

	if m.state.Error != "" {
		b.WriteString(ErrorStyle.Render("⚠ " + m.state.Error))
		b.WriteString("\n\n")
	}

	if m.state.Alarm {
		b.WriteString(AlarmStyle.Render("🚨 Profitable swap route found!"))
		b.WriteString("\n\n")
	}

	if m.state.HasResults() {
		if m.state.BestRate != "" {
			b.WriteString(MutedValue.Render("Best rate: " + m.state.BestRate))
			b.WriteString("\n")
		}
		b.WriteString(m.routes.View(m.outputSymbol()))
		b.WriteString("\n\n")
	}

	b.WriteString(HelpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) renderModeTabs() string {
	tabs := make([]string, 0, 2)
	for _, mode := range []domain.SwapMode{domain.TokenToReference, domain.ReferenceToToken} {
		style := InactiveTabStyle
		if mode == m.state.Mode {
			style = ActiveTabStyle
		}
		tabs = append(tabs, style.Render(mode.Label(m.refSym)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs[0], "  ", tabs[1])
}

func (m Model) renderForm() string {
	labels := [fieldCount]string{
		fieldMint:      "Token input (mint address)",
		fieldAmount:    "Token input amount",
		fieldThreshold: "🎯 Alarm when profit > (%)",
	}
	if m.state.Mode == domain.ReferenceToToken {
		labels[fieldMint] = "Token output (mint address)"
		labels[fieldAmount] = m.refSym + " input amount"
	}

	var b strings.Builder
	for i := range m.inputs {
		style := LabelStyle
		if i == m.focus {
			style = FocusedLabelStyle
		}
		b.WriteString(style.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}
	return BoxStyle.Render(strings.TrimSuffix(b.String(), "\n"))
}

func (m Model) outputSymbol() string {
	if m.outSym != "" {
		return m.outSym
	}
	if m.state.Mode == domain.ReferenceToToken {
		return "token"
	}
	return m.refSym
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, explorer Explorer, catalog Catalog, opts Options) error {
	program := tea.NewProgram(New(ctx, explorer, catalog, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
