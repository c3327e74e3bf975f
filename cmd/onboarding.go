package cmd

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"foodwagen/internal/api"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Settings is what first-run onboarding writes to settings.json.
type Settings struct {
	Completed  bool   `json:"completed"`
	APIBaseURL string `json:"api_base_url"`
}

func settingsPath(configDir string) string {
	return filepath.Join(configDir, "settings.json")
}

func loadSettings(configDir string) (Settings, error) {
	data, err := os.ReadFile(settingsPath(configDir))
	if err != nil {
		if os.IsNotExist(err) {
			return Settings{}, nil
		}
		return Settings{}, err
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

func saveSettings(configDir string, settings Settings) error {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(settingsPath(configDir), data, 0644)
}

func shouldRunOnboarding(settings Settings) bool {
	if settings.Completed {
		return false
	}
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

func validBaseURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

type onboardingStep int

const (
	stepSource onboardingStep = iota
	stepURL
	stepDone
)

type onboardingModel struct {
	step     onboardingStep
	hosted   bool
	urlInput textinput.Model
	settings Settings
	status   string
	error    string
	width    int
	height   int
}

var (
	obColorMuted  = lipgloss.Color("#8A8178")
	obColorText   = lipgloss.Color("#EDE6DD")
	obColorAccent = lipgloss.Color("#F17228")
	obColorDanger = lipgloss.Color("#E5484D")

	obTitleStyle = lipgloss.NewStyle().
			Foreground(obColorAccent).
			Bold(true)

	obHeaderStyle = lipgloss.NewStyle().
			Foreground(obColorAccent).
			Bold(true).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(obColorMuted)

	obTabsStyle = lipgloss.NewStyle().
			Padding(0, 2).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(obColorMuted)

	obTabInactive = lipgloss.NewStyle().
			Foreground(obColorMuted).
			Padding(0, 2)

	obTabActive = lipgloss.NewStyle().
			Foreground(obColorText).
			Bold(true).
			Underline(true).
			Padding(0, 2)

	obPanelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(obColorMuted).
			Padding(1, 2)

	obInputStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(obColorAccent).
			Padding(0, 1)

	obLabelStyle = lipgloss.NewStyle().
			Foreground(obColorAccent).
			Bold(true)

	obMutedStyle = lipgloss.NewStyle().
			Foreground(obColorMuted)

	obOptionStyle = lipgloss.NewStyle().
			Foreground(obColorText)

	obOptionSelected = lipgloss.NewStyle().
				Foreground(obColorAccent).
				Bold(true)

	obWarnStyle = lipgloss.NewStyle().
			Foreground(obColorDanger)

	obFooterStyle = lipgloss.NewStyle().
			Foreground(obColorMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(obColorMuted)
)

func newOnboardingModel() onboardingModel {
	in := textinput.New()
	in.Placeholder = "http://localhost:8080"
	in.CharLimit = 300
	in.Prompt = "url> "
	in.TextStyle = lipgloss.NewStyle().Foreground(obColorText)
	in.PlaceholderStyle = lipgloss.NewStyle().Foreground(obColorMuted)
	in.Cursor.Style = lipgloss.NewStyle().Foreground(obColorText).Background(obColorAccent)
	in.Focus()

	return onboardingModel{
		step:     stepSource,
		hosted:   true,
		urlInput: in,
		settings: Settings{
			Completed:  true,
			APIBaseURL: api.DefaultBaseURL,
		},
	}
}

func (m onboardingModel) Init() tea.Cmd { return nil }

func (m onboardingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch m.step {
		case stepSource:
			switch msg.String() {
			case "up", "k", "left", "h":
				m.hosted = true
				return m, nil
			case "down", "j", "right", "l":
				m.hosted = false
				return m, nil
			case "enter":
				return m.nextStep()
			case "ctrl+c", "q":
				m.settings.APIBaseURL = api.DefaultBaseURL
				m.status = "Setup canceled. Using the hosted demo API."
				m.step = stepDone
				return m, tea.Quit
			default:
				return m, nil
			}
		case stepURL:
			switch msg.String() {
			case "enter":
				raw := strings.TrimRight(strings.TrimSpace(m.urlInput.Value()), "/")
				if !validBaseURL(raw) {
					m.error = "Enter an absolute http(s) URL"
					return m, nil
				}
				m.settings.APIBaseURL = raw
				m.status = "Using " + raw
				m.step = stepDone
				return m, tea.Quit
			case "esc":
				m.error = ""
				m.step = stepSource
				return m, nil
			case "ctrl+c":
				m.settings.APIBaseURL = api.DefaultBaseURL
				m.status = "Setup canceled. Using the hosted demo API."
				m.step = stepDone
				return m, tea.Quit
			}
			m.error = ""
			var cmd tea.Cmd
			m.urlInput, cmd = m.urlInput.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m onboardingModel) nextStep() (tea.Model, tea.Cmd) {
	if m.hosted {
		m.settings.APIBaseURL = api.DefaultBaseURL
		m.status = "Using the hosted demo API."
		m.step = stepDone
		return m, tea.Quit
	}
	m.step = stepURL
	return m, nil
}

func (m onboardingModel) View() string {
	width := m.width
	height := m.height
	if width <= 0 {
		width = 100
	}
	if height <= 0 {
		height = 28
	}

	header := m.renderHeader(width)
	tabs := m.renderTabs(width)
	footer := m.renderFooter(width)

	contentHeight := max(8, height-6)
	content := m.renderContent(width, contentHeight)
	ui := lipgloss.JoinVertical(lipgloss.Left, header, tabs, content, footer)

	return lipgloss.NewStyle().
		Foreground(obColorText).
		Width(width).
		Height(height).
		Render(ui)
}

func (m onboardingModel) renderHeader(width int) string {
	left := "  " + obTitleStyle.Render("FoodWagen") + " " + obMutedStyle.Render("› Setup")
	return obHeaderStyle.Width(width).Render(left)
}

func (m onboardingModel) renderTabs(width int) string {
	sourceTab := obTabInactive.Render("Food API")
	urlTab := obTabInactive.Render("Custom URL")
	if m.step == stepSource {
		sourceTab = obTabActive.Render("Food API")
	}
	if m.step == stepURL {
		urlTab = obTabActive.Render("Custom URL")
	}
	return obTabsStyle.Width(width).Render(lipgloss.JoinHorizontal(lipgloss.Left, "  ", sourceTab, urlTab))
}

func (m onboardingModel) renderFooter(width int) string {
	switch m.step {
	case stepSource:
		return obFooterStyle.Width(width).Render("↑↓/jk to choose  enter to confirm  q cancel")
	case stepURL:
		return obFooterStyle.Width(width).Render("enter save  esc back  ctrl+c cancel")
	default:
		return obFooterStyle.Width(width).Render("Setup complete")
	}
}

func (m onboardingModel) renderContent(width, height int) string {
	cardWidth := min(92, width-6)
	if cardWidth < 40 {
		cardWidth = width - 2
	}

	var body string
	switch m.step {
	case stepSource:
		question := obLabelStyle.Render("Where should FoodWagen load meals from?")
		hosted := "Hosted demo API (" + api.DefaultBaseURL + ")"
		custom := "Custom base URL (e.g. a local mockapi server)"

		var hostedDisplay, customDisplay string
		if m.hosted {
			hostedDisplay = "  " + obOptionSelected.Render("→ "+hosted)
			customDisplay = "    " + obOptionStyle.Render(custom)
		} else {
			hostedDisplay = "    " + obOptionStyle.Render(hosted)
			customDisplay = "  " + obOptionSelected.Render("→ "+custom)
		}

		body = lipgloss.JoinVertical(
			lipgloss.Left,
			question,
			"",
			hostedDisplay,
			customDisplay,
			"",
			obMutedStyle.Render("Use arrow keys or j/k to choose, Enter to confirm"),
			obMutedStyle.Render("You can change this later in ~/.foodwagen/settings.json or with -api"),
		)
	case stepURL:
		input := obInputStyle.Width(max(30, cardWidth-14)).Render(m.urlInput.View())
		lines := []string{
			obLabelStyle.Render("API base URL"),
			"",
			obMutedStyle.Render("The app requests {base}/Food for the meal list."),
			obMutedStyle.Render("Run `go run ./cmd/mockapi` for a local server on :8080."),
			"",
			input,
		}
		if m.error != "" {
			lines = append(lines, obWarnStyle.Render(m.error))
		}
		lines = append(lines, "", obMutedStyle.Render("Press Enter to save, Esc to go back."))
		body = lipgloss.JoinVertical(lipgloss.Left, lines...)
	default:
		body = lipgloss.JoinVertical(lipgloss.Left, obLabelStyle.Render("Setup Complete"), "", obMutedStyle.Render(m.status))
	}

	card := obPanelStyle.Width(cardWidth).Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, card)
}

func runOnboarding(configDir string) (Settings, error) {
	model := newOnboardingModel()
	prog := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := prog.Run()
	if err != nil {
		return Settings{}, fmt.Errorf("onboarding tui failed: %w", err)
	}
	m, ok := finalModel.(onboardingModel)
	if !ok {
		return Settings{}, fmt.Errorf("unexpected onboarding model type")
	}
	if err := saveSettings(configDir, m.settings); err != nil {
		return Settings{}, err
	}
	return m.settings, nil
}
