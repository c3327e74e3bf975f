package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"foodwagen/internal/api"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs_Defaults(t *testing.T) {
	t.Setenv("FOODWAGEN_API_URL", "")
	t.Setenv("FOODWAGEN_TIMEOUT", "")
	t.Setenv("FOODWAGEN_LOG_LEVEL", "")

	config, err := parseArgs(nil, "1.2.3")
	require.NoError(t, err)
	assert.Equal(t, "", config.APIBaseURL)
	assert.Equal(t, defaultTimeout, config.Timeout)
	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, "1.2.3", config.Version)
	assert.False(t, config.ShowVersion)
}

func TestParseArgs_EnvFallback(t *testing.T) {
	t.Setenv("FOODWAGEN_API_URL", "http://localhost:8080")
	t.Setenv("FOODWAGEN_TIMEOUT", "3s")
	t.Setenv("FOODWAGEN_LOG_LEVEL", "debug")

	config, err := parseArgs(nil, "dev")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", config.APIBaseURL)
	assert.Equal(t, 3*time.Second, config.Timeout)
	assert.Equal(t, "debug", config.LogLevel)
}

func TestParseArgs_FlagsWin(t *testing.T) {
	t.Setenv("FOODWAGEN_API_URL", "http://env.example")
	t.Setenv("FOODWAGEN_LOG_LEVEL", "debug")

	config, err := parseArgs([]string{"-api", "http://flag.example", "-timeout", "2s", "-log-level", "warn", "-version"}, "dev")
	require.NoError(t, err)
	assert.Equal(t, "http://flag.example", config.APIBaseURL)
	assert.Equal(t, 2*time.Second, config.Timeout)
	assert.Equal(t, "warn", config.LogLevel)
	assert.True(t, config.ShowVersion)
}

func TestParseArgs_BadTimeoutEnv(t *testing.T) {
	t.Setenv("FOODWAGEN_TIMEOUT", "soon")
	_, err := parseArgs(nil, "dev")
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{APIBaseURL: api.DefaultBaseURL, Timeout: time.Second, LogLevel: "info"}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"relative url", func(c *Config) { c.APIBaseURL = "/Food" }},
		{"ftp url", func(c *Config) { c.APIBaseURL = "ftp://example.com" }},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }},
		{"bad level", func(c *Config) { c.LogLevel = "verbose" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# comment\nFOODWAGEN_TEST_A=\"quoted\"\nFOODWAGEN_TEST_B=kept\nnot a pair\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("FOODWAGEN_TEST_A", "")
	t.Setenv("FOODWAGEN_TEST_B", "already set")

	loadDotEnv(path)
	assert.Equal(t, "quoted", os.Getenv("FOODWAGEN_TEST_A"))
	assert.Equal(t, "already set", os.Getenv("FOODWAGEN_TEST_B"))
}

func TestSettings_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	settings, err := loadSettings(dir)
	require.NoError(t, err)
	assert.False(t, settings.Completed)

	require.NoError(t, saveSettings(dir, Settings{Completed: true, APIBaseURL: "http://localhost:8080"}))
	settings, err = loadSettings(dir)
	require.NoError(t, err)
	assert.True(t, settings.Completed)
	assert.Equal(t, "http://localhost:8080", settings.APIBaseURL)
	assert.False(t, shouldRunOnboarding(settings))
}

func onboard(t *testing.T, m onboardingModel, msgs ...tea.Msg) (onboardingModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(onboardingModel)
	}
	return m, cmd
}

func TestOnboarding_Hosted(t *testing.T) {
	m, cmd := onboard(t, newOnboardingModel(), tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, stepDone, m.step)
	assert.Equal(t, api.DefaultBaseURL, m.settings.APIBaseURL)
	assert.True(t, m.settings.Completed)
}

func TestOnboarding_CustomURL(t *testing.T) {
	m, _ := onboard(t, newOnboardingModel(),
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")},
		tea.KeyMsg{Type: tea.KeyEnter},
	)
	require.Equal(t, stepURL, m.step)

	m, cmd := onboard(t, m,
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("nope")},
		tea.KeyMsg{Type: tea.KeyEnter},
	)
	assert.Nil(t, cmd)
	assert.Equal(t, stepURL, m.step)
	assert.NotEmpty(t, m.error)

	m.urlInput.SetValue("http://localhost:8080/")
	m, cmd = onboard(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, stepDone, m.step)
	assert.Equal(t, "http://localhost:8080", m.settings.APIBaseURL)
	assert.Contains(t, m.View(), "Setup Complete")
}
