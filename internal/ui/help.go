package ui

import (
	"strings"

	"foodwagen/internal/model"

	"github.com/charmbracelet/lipgloss"
)

// RenderHelp renders context-sensitive help footer.
func RenderHelp(screen model.Screen, mode model.Mode, view ViewMode, width int) string {
	switch mode {
	case model.ModeInsert:
		return renderFormHelp(width)
	case model.ModeSearch:
		return renderSearchHelp(width)
	}

	switch screen {
	case model.ScreenMeals:
		return renderMealsHelp(view, width)
	case model.ScreenMealDetail:
		return renderMealDetailHelp(width)
	case model.ScreenDeleteConfirm:
		return renderConfirmHelp(width)
	default:
		return renderDefaultHelp(width)
	}
}

func renderMealsHelp(view ViewMode, width int) string {
	keys := []string{
		helpKey("hjkl", "navigate"),
		helpKey("/", "search"),
		helpKey("a", "add meal"),
		helpKey("e/d", "edit/delete"),
		helpKey("enter", "details"),
		helpKey("v", "grid/list"),
	}
	if view == ViewList {
		keys = append(keys, helpKey("tab/s", "column/sort"))
	}
	keys = append(keys, helpKey("t", "delivery/pickup"), helpKey("?", "help"))
	return renderHelpLine(keys, width)
}

func renderMealDetailHelp(width int) string {
	keys := []string{
		helpKey("h/esc", "back"),
		helpKey("e", "edit"),
		helpKey("d", "delete"),
		helpKey("y", "copy image url"),
	}
	return renderHelpLine(keys, width)
}

func renderConfirmHelp(width int) string {
	keys := []string{
		helpKey("y/enter", "delete"),
		helpKey("n/esc", "cancel"),
	}
	return renderHelpLine(keys, width)
}

func renderSearchHelp(width int) string {
	keys := []string{
		helpKey("type", "filter as you go"),
		helpKey("enter", "find meal"),
		helpKey("esc", "done"),
	}
	return renderHelpLine(keys, width)
}

func renderFormHelp(width int) string {
	keys := []string{
		helpKey("tab", "next field"),
		helpKey("shift+tab", "prev field"),
		helpKey("space", "toggle status"),
		helpKey("ctrl+s/enter", "save"),
		helpKey("esc", "cancel"),
	}
	return renderHelpLine(keys, width)
}

func renderDefaultHelp(width int) string {
	keys := []string{
		helpKey("j/k", "navigate"),
		helpKey("h/l", "back/select"),
		helpKey("q", "quit"),
	}
	return renderHelpLine(keys, width)
}

func helpKey(key, desc string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(desc)
}

func renderHelpLine(keys []string, width int) string {
	line := strings.Join(keys, "  ")
	return FooterStyle.Width(width).Render(line)
}

// RenderFullHelp renders the full help screen.
func RenderFullHelp(width, height int) string {
	content := lipgloss.NewStyle().
		Width(width-4).
		Height(height-6).
		Padding(1, 2)

	sections := []string{
		titleSection("Navigation"),
		helpSection([]helpItem{
			{"j / ↓", "Move down"},
			{"k / ↑", "Move up"},
			{"h / ←", "Previous card (grid) / back (detail)"},
			{"l / →", "Next card (grid)"},
			{"enter", "Open meal detail"},
			{"gg", "Jump to top"},
			{"G", "Jump to bottom"},
			{"ctrl+d", "Half page down"},
			{"ctrl+u", "Half page up"},
			{"esc", "Cancel / close"},
			{"q", "Quit"},
			{"?", "Toggle help"},
		}),
		titleSection("Meals Screen"),
		helpSection([]helpItem{
			{"/", "Search by meal or restaurant name"},
			{"a", "Add meal"},
			{"e", "Edit selected meal"},
			{"d", "Delete selected meal"},
			{"v", "Switch grid / list"},
			{"tab / shift+tab", "Cycle active column (list)"},
			{"s", "Sort active column asc / desc / off (list)"},
			{"t", "Toggle delivery / pickup"},
			{"r", "Retry after a failed load"},
			{"R", "Reload everything"},
		}),
		titleSection("Meal Detail"),
		helpSection([]helpItem{
			{"e", "Edit"},
			{"d", "Delete"},
			{"y", "Copy image URL"},
		}),
		titleSection("Forms (Insert/Edit Mode)"),
		helpSection([]helpItem{
			{"tab", "Next field"},
			{"shift+tab", "Previous field"},
			{"space", "Toggle restaurant status"},
			{"ctrl+s / enter", "Save"},
			{"esc", "Cancel"},
		}),
	}

	helpText := content.Render(strings.Join(sections, "\n\n"))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.Width(width).Render("Help"),
		helpText,
		FooterStyle.Width(width).Render(HelpKeyStyle.Render("esc")+" "+HelpDescStyle.Render("close help")),
	)
}

type helpItem struct {
	key  string
	desc string
}

func titleSection(title string) string {
	return LabelStyle.Render(title)
}

func helpSection(items []helpItem) string {
	var lines []string
	for _, item := range items {
		lines = append(lines, "  "+HelpKeyStyle.Render(item.key)+" - "+HelpDescStyle.Render(item.desc))
	}
	return strings.Join(lines, "\n")
}
