package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"foodwagen/internal/api"
	"foodwagen/internal/debounce"
	"foodwagen/internal/model"
	"foodwagen/internal/store"
	"foodwagen/internal/util"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Options carries the collaborators the root model needs besides the store.
type Options struct {
	Notifier    *ChannelNotifier
	Debouncer   *debounce.Debouncer
	ImageClient *http.Client
	Logger      *slog.Logger
	PrefsPath   string
	APIBaseURL  string
	Clipboard   func(string) error
}

// Model is the root Bubble Tea model.
type Model struct {
	store       *store.Store
	notifier    *ChannelNotifier
	imageClient *http.Client
	logger      *slog.Logger
	prefsPath   string
	apiBaseURL  string
	copyText    func(string) error

	screen       model.Screen
	mode         model.Mode
	gState       GState
	returnScreen model.Screen

	width  int
	height int

	error       string
	info        string
	showingHelp bool

	// Screen models
	meals   *MealsModel
	search  *SearchBarModel
	detail  *MealDetailModel
	form    *MealFormModel
	confirm *DeleteModalModel
	toasts  toastStack
	spinner spinner.Model

	keys  KeyMap
	prefs UIPreferences
}

// New creates the root model around the one store instance the app uses.
func New(st *store.Store, opts Options) Model {
	if opts.Notifier == nil {
		opts.Notifier = NewChannelNotifier(notifierBuffer)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}

	prefs := loadUIPreferences(opts.PrefsPath)
	meals := NewMealsModel(nil, prefs.View)
	meals.ApplyPrefs(prefs.Table)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorAccent)

	return Model{
		store:       st,
		notifier:    opts.Notifier,
		imageClient: opts.ImageClient,
		logger:      opts.Logger,
		prefsPath:   opts.PrefsPath,
		apiBaseURL:  opts.APIBaseURL,
		copyText:    opts.Clipboard,
		screen:      model.ScreenMeals,
		mode:        model.ModeNav,
		gState:      GStateIdle,
		meals:       meals,
		search:      NewSearchBarModel(opts.Debouncer),
		spinner:     s,
		keys:        DefaultKeyMap(),
		prefs:       prefs,
	}
}

// Init starts the initial load and begins listening for notifications.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		loadFoodsCmd(m.store),
		m.spinner.Tick,
		m.notifier.Wait(),
	)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Handle ctrl+c globally
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if key.Matches(msg, m.keys.Help) && m.mode == model.ModeNav {
			m.showingHelp = !m.showingHelp
			return m, nil
		}

		if m.showingHelp {
			if msg.String() == "esc" || key.Matches(msg, m.keys.Help) {
				m.showingHelp = false
			}
			return m, nil
		}

		switch m.mode {
		case model.ModeInsert:
			return m.handleInsertMode(msg)
		case model.ModeSearch:
			return m.handleSearchMode(msg)
		}
		return m.handleNavMode(msg)

	case spinner.TickMsg:
		var cmds []tea.Cmd
		if m.loading() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		if m.form != nil {
			newForm, cmd := m.form.Update(msg)
			m.form = &newForm
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case model.FoodsLoadedMsg:
		m.syncMeals()
		return m, nil

	case debounce.FiredMsg:
		if m.search.Accept(msg) {
			m.meals.SetFoods(m.store.Search(msg.Payload))
		}
		return m, nil

	case searchSubmittedMsg:
		m.meals.SetFoods(m.store.Search(msg.query))
		m.search.Blur()
		m.mode = model.ModeNav
		return m, nil

	case searchClosedMsg:
		m.mode = model.ModeNav
		m.meals.SetFoods(m.store.Search(""))
		return m, nil

	case model.NotificationMsg:
		expire := m.toasts.push(msg.Notification)
		return m, tea.Batch(expire, m.notifier.Wait())

	case toastExpiredMsg:
		m.toasts.expire(msg.id)
		return m, nil

	case model.SubmitFoodMsg:
		return m, saveFoodCmd(m.store, msg)

	case model.FoodSavedMsg:
		m.form = nil
		m.mode = model.ModeNav
		m.syncMeals()
		if m.returnScreen == model.ScreenMealDetail {
			return m.openDetail(msg.Food)
		}
		m.screen = model.ScreenMeals
		return m, nil

	case model.SaveFailedMsg:
		if m.form != nil {
			m.form.SetError(errorText(msg.Err))
		}
		return m, nil

	case model.FormCancelledMsg:
		m.form = nil
		m.mode = model.ModeNav
		m.screen = m.returnScreen
		return m, nil

	case confirmDeleteMsg:
		return m, deleteFoodCmd(m.store, msg.id)

	case deleteCancelledMsg:
		m.confirm = nil
		m.screen = m.returnScreen
		return m, nil

	case model.DeleteFoodMsg:
		m.confirm = nil
		m.detail = nil
		m.screen = model.ScreenMeals
		m.syncMeals()
		return m, nil

	case model.DeleteFailedMsg:
		if m.confirm != nil {
			m.confirm.SetError(errorText(msg.Err))
		}
		return m, nil

	case previewLoadedMsg:
		if m.detail != nil {
			m.detail.SetPreview(msg)
		}
		return m, nil

	case clipboardCopiedMsg:
		if msg.err != nil {
			m.logger.Warn("copy to clipboard failed", "error", msg.err)
			m.error = "Clipboard unavailable: " + msg.err.Error()
			m.info = ""
			return m, nil
		}
		m.error = ""
		m.info = "Image URL copied"
		return m, nil

	case model.ErrorMsg:
		m.error = msg.Err.Error()
		return m, nil

	default:
		switch m.mode {
		case model.ModeInsert:
			return m.handleInsertMode(msg)
		case model.ModeSearch:
			return m, m.search.Forward(msg)
		}
	}

	return m, nil
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if m.showingHelp {
		return RenderFullHelp(m.width, m.height)
	}

	var breadcrumbParts []string
	switch m.screen {
	case model.ScreenMeals:
		breadcrumbParts = []string{"Meals"}
	case model.ScreenMealDetail:
		breadcrumbParts = []string{"Meals", "Detail"}
		if m.detail != nil {
			breadcrumbParts = []string{"Meals", m.detail.food.Name}
		}
	case model.ScreenMealForm:
		breadcrumbParts = []string{"Meals", "Add"}
		if m.form != nil && m.form.Editing() {
			breadcrumbParts = []string{"Meals", "Edit"}
		}
	case model.ScreenDeleteConfirm:
		breadcrumbParts = []string{"Meals", "Delete"}
	}

	header := renderHeader(breadcrumbParts, m.prefs.Delivery, m.width)
	footer := RenderHelp(m.screen, m.mode, m.meals.ViewMode(), m.width)

	var banners []string
	if m.error != "" {
		banners = append(banners, ErrorStyle.Width(m.width).Render("Error: "+m.error))
	}
	if m.info != "" {
		banners = append(banners, SuccessStyle.Width(m.width).Render(m.info))
	}
	if toasts := m.toasts.View(m.width); toasts != "" {
		banners = append(banners, toasts)
	}

	used := lipgloss.Height(header) + lipgloss.Height(footer)
	for _, b := range banners {
		used += lipgloss.Height(b)
	}
	contentHeight := max(0, m.height-used)

	var content string
	switch m.screen {
	case model.ScreenMeals:
		content = m.mealsView(m.width, contentHeight)
	case model.ScreenMealDetail:
		if m.detail != nil {
			content = m.detail.View(m.width, contentHeight)
		}
	case model.ScreenMealForm:
		if m.form != nil {
			content = m.form.View(m.width, contentHeight)
		}
	case model.ScreenDeleteConfirm:
		if m.confirm != nil {
			content = m.confirm.View(m.width, contentHeight)
		}
	}

	// Ensure content fills the available height to anchor footer at bottom
	content = lipgloss.NewStyle().
		Width(m.width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	parts := []string{header}
	parts = append(parts, banners...)
	parts = append(parts, content, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) mealsView(width, height int) string {
	st := m.store.Snapshot()

	search := m.search.View(width - 2)
	title := LabelStyle.Padding(0, 1).Render("Featured Meals")
	bodyHeight := max(0, height-lipgloss.Height(search)-lipgloss.Height(title)-1)

	var body string
	switch {
	case st.Status == model.LoadIdle || st.Status == model.LoadLoading:
		body = renderSkeleton(width, bodyHeight, m.spinner.View())
	case st.Status == model.LoadFailed:
		body = renderErrorPanel(width, bodyHeight, st.Err)
	case m.meals.Len() == 0:
		body = renderEmptyState(width, bodyHeight, st.Query, len(st.All))
	default:
		status := m.renderStatusBar(st)
		loadMore := lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
			Render(InactiveButtonStyle.Render("Load More"))
		grid := m.meals.View(width, max(1, bodyHeight-lipgloss.Height(status)-lipgloss.Height(loadMore)))
		spacer := lipgloss.NewStyle().
			Height(max(0, bodyHeight-lipgloss.Height(grid)-lipgloss.Height(status)-lipgloss.Height(loadMore))).
			Render("")
		body = lipgloss.JoinVertical(lipgloss.Left, grid, loadMore, spacer, status)
	}

	return lipgloss.JoinVertical(lipgloss.Left, search, "", title, body)
}

func (m Model) renderStatusBar(st store.State) string {
	parts := []string{util.FormatCount(m.meals.Len(), "meal", "meals")}
	if m.meals.Len() > 0 {
		parts = append(parts, fmt.Sprintf("row %d/%d", m.meals.cursor+1, m.meals.Len()))
	}
	if !isBlank(st.Query) {
		parts = append(parts, fmt.Sprintf("filtered %d/%d for %q", len(st.Filtered), len(st.All), strings.TrimSpace(st.Query)))
	}
	if m.meals.ViewMode() == ViewList {
		if meta := m.meals.TableMeta(); meta != "" {
			parts = append(parts, meta)
		}
	}
	if since := util.FormatSince(st.LoadedAt); since != "" {
		parts = append(parts, since)
	}
	if m.apiBaseURL != "" {
		parts = append(parts, m.apiBaseURL)
	}
	return StatusBarStyle.Render(strings.Join(parts, "  ·  "))
}

func renderSkeleton(width, height int, spin string) string {
	cols := max(1, width/(cardWidth+1))
	rows := max(1, (height-2)/cardHeight)

	block := SkeletonStyle.Render(strings.Repeat("░", cardInnerWidth))
	cardBody := strings.TrimSuffix(strings.Repeat(block+"\n", cardHeight-2), "\n")
	card := CardStyle.Width(cardWidth - 2).Render(cardBody)

	var lines []string
	for r := 0; r < rows; r++ {
		cards := make([]string, 0, cols*2)
		for c := 0; c < cols; c++ {
			if c > 0 {
				cards = append(cards, " ")
			}
			cards = append(cards, card)
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}

	status := HelpDescStyle.Render(spin + " Loading meals...")
	return lipgloss.JoinVertical(lipgloss.Left, status, "", lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func renderErrorPanel(width, height int, msg string) string {
	if msg == "" {
		msg = "Failed to load meals"
	}
	panel := PanelStyle.BorderForeground(ColorRed).Render(lipgloss.JoinVertical(
		lipgloss.Center,
		ErrorStyle.Bold(true).Render("Connection Failed"),
		"",
		NormalRowStyle.Render(msg),
		"",
		ButtonStyle.Render("Retry (r)"),
	))
	return placeCenter(width, height, panel)
}

func renderEmptyState(width, height int, query string, total int) string {
	var text string
	if !isBlank(query) && total > 0 {
		text = fmt.Sprintf("No meals found\n\nNothing matches %q.\nPress esc to clear the search.", strings.TrimSpace(query))
	} else {
		text = "No meals available\n\nPress  a  to add the first meal."
	}
	return EmptyStateStyle.Width(width).Height(height).Render(text)
}

func renderHeader(breadcrumbParts []string, delivery model.DeliveryMode, width int) string {
	title := HeaderStyle.Render("FoodWagen")

	var breadcrumb string
	if len(breadcrumbParts) > 0 {
		separator := BreadcrumbStyle.Render(" › ")
		parts := make([]string, len(breadcrumbParts))
		for i, part := range breadcrumbParts {
			if i == len(breadcrumbParts)-1 {
				parts[i] = BreadcrumbActiveStyle.Render(util.TruncateString(part, 40))
			} else {
				parts[i] = BreadcrumbStyle.Render(part)
			}
		}
		breadcrumb = separator + strings.Join(parts, separator)
	}

	left := "  " + title + breadcrumb

	right := renderDeliveryToggle(delivery) + "  " + helpKey("a", "Add Meal") + "  "

	padding := max(0, width-lipgloss.Width(left)-lipgloss.Width(right))
	headerContent := left + strings.Repeat(" ", padding) + right
	return TitleStyle.Width(width).Render(headerContent)
}

func (m *Model) loading() bool {
	st := m.store.Snapshot().Status
	return st == model.LoadIdle || st == model.LoadLoading
}

func (m *Model) syncMeals() {
	m.meals.SetFoods(m.store.Snapshot().Filtered)
}

func (m *Model) persistPrefs() {
	m.prefs.View = m.meals.ViewMode()
	m.prefs.Table = m.meals.Prefs()
	if err := saveUIPreferences(m.prefsPath, m.prefs); err != nil {
		m.logger.Warn("save ui prefs failed", "error", err)
	}
}

// handleNavMode handles navigation mode input.
func (m Model) handleNavMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.info = ""

	// Handle "gg" state machine
	if key.Matches(msg, m.keys.Top) && m.screen == model.ScreenMeals {
		if m.gState == GStateIdle {
			m.gState = GStateFirstG
			return m, nil
		}
		m.gState = GStateIdle
		m.meals.JumpToTop()
		return m, nil
	}
	m.gState = GStateIdle

	switch m.screen {
	case model.ScreenMeals:
		return m.handleMealsNav(msg)
	case model.ScreenMealDetail:
		return m.handleMealDetailNav(msg)
	case model.ScreenDeleteConfirm:
		if m.confirm != nil {
			return m, m.confirm.Update(msg)
		}
	}
	return m, nil
}

func (m Model) handleMealsNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	listView := m.meals.ViewMode() == ViewList

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Search):
		m.mode = model.ModeSearch
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Add):
		return m.openForm(nil, model.ScreenMeals)
	case key.Matches(msg, m.keys.Retry):
		if m.store.Snapshot().Status != model.LoadFailed {
			return m, nil
		}
		return m, tea.Batch(loadFoodsCmd(m.store), m.spinner.Tick)
	case key.Matches(msg, m.keys.Refetch):
		m.search.Reset()
		m.meals.SetFoods(nil)
		return m, tea.Batch(refetchFoodsCmd(m.store), m.spinner.Tick)
	case key.Matches(msg, m.keys.ToggleView):
		if listView {
			m.meals.SetView(ViewGrid)
		} else {
			m.meals.SetView(ViewList)
		}
		m.persistPrefs()
		return m, nil
	case key.Matches(msg, m.keys.ToggleDelivery):
		if m.prefs.Delivery == model.DeliveryModePickup {
			m.prefs.Delivery = model.DeliveryModeDelivery
		} else {
			m.prefs.Delivery = model.DeliveryModePickup
		}
		m.persistPrefs()
		return m, nil
	case key.Matches(msg, m.keys.LoadMore):
		return m, nil
	case key.Matches(msg, m.keys.Back):
		if m.search.Applied() != "" || m.search.Value() != "" {
			m.search.Reset()
			m.meals.SetFoods(m.store.Search(""))
		}
		return m, nil
	}

	if listView {
		switch {
		case key.Matches(msg, m.keys.NextColumn):
			m.meals.NextColumn()
			m.persistPrefs()
			return m, nil
		case key.Matches(msg, m.keys.PrevColumn):
			m.meals.PrevColumn()
			m.persistPrefs()
			return m, nil
		case key.Matches(msg, m.keys.Sort):
			m.info = m.meals.CycleSortActiveColumn()
			m.persistPrefs()
			return m, nil
		}
	}

	selected := m.meals.Selected()
	switch {
	case key.Matches(msg, m.keys.Select), listView && key.Matches(msg, m.keys.Right):
		if selected != nil {
			return m.openDetail(*selected)
		}
	case key.Matches(msg, m.keys.Edit):
		if selected != nil {
			return m.openForm(selected, model.ScreenMeals)
		}
	case key.Matches(msg, m.keys.Delete):
		if selected != nil {
			return m.openConfirm(*selected, model.ScreenMeals)
		}
	case key.Matches(msg, m.keys.Down):
		m.meals.MoveDown()
	case key.Matches(msg, m.keys.Up):
		m.meals.MoveUp()
	case key.Matches(msg, m.keys.Right):
		m.meals.MoveRight()
	case key.Matches(msg, m.keys.Left):
		m.meals.MoveLeft()
	case key.Matches(msg, m.keys.Bottom):
		m.meals.JumpToBottom()
	case key.Matches(msg, m.keys.HalfPageDown):
		m.meals.HalfPageDown(m.meals.viewportHeight)
	case key.Matches(msg, m.keys.HalfPageUp):
		m.meals.HalfPageUp(m.meals.viewportHeight)
	}
	return m, nil
}

func (m Model) handleMealDetailNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.detail == nil {
		m.screen = model.ScreenMeals
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Left):
		m.screen = model.ScreenMeals
		m.detail = nil
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		food := m.detail.Food()
		return m.openForm(&food, model.ScreenMealDetail)
	case key.Matches(msg, m.keys.Delete):
		return m.openConfirm(m.detail.Food(), model.ScreenMealDetail)
	case key.Matches(msg, m.keys.CopyImage):
		return m, copyToClipboardCmd(m.copyText, m.detail.Food().Image)
	case msg.String() == "q":
		return m, tea.Quit
	}
	return m, nil
}

// handleInsertMode forwards input to the open form.
func (m Model) handleInsertMode(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		m.mode = model.ModeNav
		return m, nil
	}
	newForm, cmd := m.form.Update(msg)
	m.form = &newForm
	return m, cmd
}

func (m Model) handleSearchMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	return m, m.search.Update(msg)
}

func (m Model) openDetail(food model.Food) (tea.Model, tea.Cmd) {
	m.detail = NewMealDetailModel(food)
	m.screen = model.ScreenMealDetail
	m.error = ""
	if !util.IsValidURL(food.Image) {
		return m, nil
	}
	return m, loadPreviewCmd(m.imageClient, food.Image, previewWidth, previewHeight)
}

func (m Model) openForm(food *model.Food, from model.Screen) (tea.Model, tea.Cmd) {
	m.form = NewMealFormModel()
	if food != nil {
		m.form.LoadFood(*food)
	}
	m.returnScreen = from
	m.mode = model.ModeInsert
	m.screen = model.ScreenMealForm
	return m, textinput.Blink
}

func (m Model) openConfirm(food model.Food, from model.Screen) (tea.Model, tea.Cmd) {
	m.confirm = NewDeleteModalModel(food)
	m.returnScreen = from
	m.screen = model.ScreenDeleteConfirm
	return m, nil
}

// errorText picks the message to show inline for a failed mutation.
func errorText(err error) string {
	var statusErr *api.StatusError
	if errors.As(err, &statusErr) && statusErr.Message != "" {
		return statusErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return "Something went wrong"
}

// Commands

type clipboardCopiedMsg struct {
	err error
}

func loadFoodsCmd(st *store.Store) tea.Cmd {
	return func() tea.Msg {
		st.Load(context.Background())
		return model.FoodsLoadedMsg{}
	}
}

func refetchFoodsCmd(st *store.Store) tea.Cmd {
	return func() tea.Msg {
		st.Refetch(context.Background())
		return model.FoodsLoadedMsg{}
	}
}

func saveFoodCmd(st *store.Store, msg model.SubmitFoodMsg) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if msg.ID == "" {
			food, err := st.Add(ctx, msg.Draft)
			if err != nil {
				return model.SaveFailedMsg{Err: err}
			}
			return model.FoodSavedMsg{Food: food, Operation: "insert"}
		}

		food, err := st.Update(ctx, msg.ID, model.PatchFromDraft(msg.Draft))
		if err != nil {
			return model.SaveFailedMsg{Err: err}
		}
		return model.FoodSavedMsg{Food: food, Operation: "update"}
	}
}

func deleteFoodCmd(st *store.Store, id string) tea.Cmd {
	return func() tea.Msg {
		if err := st.Delete(context.Background(), id); err != nil {
			return model.DeleteFailedMsg{ID: id, Err: err}
		}
		return model.DeleteFoodMsg{ID: id}
	}
}

func copyToClipboardCmd(copyText func(string) error, text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardCopiedMsg{err: copyText(text)}
	}
}
