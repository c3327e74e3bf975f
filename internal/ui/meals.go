package ui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"foodwagen/internal/model"
	"foodwagen/internal/util"

	"github.com/charmbracelet/lipgloss"
)

const (
	cardWidth      = 30
	cardInnerWidth = cardWidth - 4
	cardHeight     = 10
	imageRows      = 3
)

type mealColumn struct {
	key   string
	label string
	width int
}

// MealsModel renders the meal collection as a card grid or a compact list
// and owns cursor movement over it.
type MealsModel struct {
	allRows []model.Food
	rows    []model.Food
	cursor  int
	offset  int

	view     ViewMode
	gridCols int

	viewportHeight int

	columns      []mealColumn
	activeColumn int
	sortKey      string
	sortDesc     bool
}

// NewMealsModel creates a new meals model.
func NewMealsModel(foods []model.Food, view ViewMode) *MealsModel {
	m := &MealsModel{
		view:     view,
		gridCols: 1,
		columns: []mealColumn{
			{key: "name", label: "meal", width: 24},
			{key: "restaurant", label: "restaurant", width: 20},
			{key: "status", label: "status", width: 10},
			{key: "rating", label: "rating", width: 8},
			{key: "price", label: "price", width: 10},
		},
	}
	m.SetFoods(foods)
	return m
}

// ApplyPrefs restores list sort and active column.
func (m *MealsModel) ApplyPrefs(prefs TablePrefs) {
	m.sortKey = prefs.SortKey
	m.sortDesc = prefs.SortDesc
	if prefs.ActiveColumn != "" {
		for i, c := range m.columns {
			if c.key == prefs.ActiveColumn {
				m.activeColumn = i
				break
			}
		}
	}
	m.rebuild()
}

// Prefs returns the list preferences to persist.
func (m *MealsModel) Prefs() TablePrefs {
	return TablePrefs{
		SortKey:      m.sortKey,
		SortDesc:     m.sortDesc,
		ActiveColumn: m.columns[m.activeColumn].key,
	}
}

// SetFoods replaces the rows, keeping the cursor on the same meal when it is
// still present.
func (m *MealsModel) SetFoods(foods []model.Food) {
	selectedID := ""
	if f := m.Selected(); f != nil {
		selectedID = f.ID
	}

	m.allRows = append([]model.Food(nil), foods...)
	m.rebuild()

	if selectedID != "" {
		for i, f := range m.rows {
			if f.ID == selectedID {
				m.cursor = i
				break
			}
		}
	}
	m.clampCursor()
}

// Len returns the number of displayed meals.
func (m *MealsModel) Len() int {
	return len(m.rows)
}

// Selected returns the meal under the cursor, or nil.
func (m *MealsModel) Selected() *model.Food {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	f := m.rows[m.cursor]
	return &f
}

// View mode

// SetView switches between grid and list layouts.
func (m *MealsModel) SetView(view ViewMode) {
	m.view = view
	m.offset = 0
	m.clampCursor()
}

// ViewMode returns the current layout.
func (m *MealsModel) ViewMode() ViewMode {
	return m.view
}

func (m *MealsModel) rebuild() {
	rows := append([]model.Food(nil), m.allRows...)

	if m.sortKey != "" {
		sort.SliceStable(rows, func(i, j int) bool {
			left := strings.ToLower(m.getValue(rows[i], m.sortKey))
			right := strings.ToLower(m.getValue(rows[j], m.sortKey))
			if m.sortDesc {
				return left > right
			}
			return left < right
		})
	}

	m.rows = rows
	m.clampCursor()
}

func (m *MealsModel) clampCursor() {
	if len(m.rows) == 0 {
		m.cursor = 0
		m.offset = 0
		return
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.offset > m.cursor {
		m.offset = m.cursor
	}
}

func (m *MealsModel) getValue(f model.Food, key string) string {
	switch key {
	case "name":
		return f.Name
	case "restaurant":
		if f.Restaurant == nil {
			return ""
		}
		return f.Restaurant.Name
	case "status":
		if f.Restaurant == nil {
			return ""
		}
		return string(f.Restaurant.Status)
	case "rating":
		return fmt.Sprintf("%05.2f", f.Rating)
	case "price":
		if v, err := strconv.ParseFloat(strings.TrimPrefix(strings.TrimSpace(f.Price), "$"), 64); err == nil {
			return fmt.Sprintf("%012.2f", v)
		}
		return f.Price
	default:
		return ""
	}
}

// Columns and sorting (list view)

func (m *MealsModel) NextColumn() {
	m.activeColumn = (m.activeColumn + 1) % len(m.columns)
}

func (m *MealsModel) PrevColumn() {
	m.activeColumn--
	if m.activeColumn < 0 {
		m.activeColumn = len(m.columns) - 1
	}
}

// CycleSortActiveColumn moves the active column through ascending,
// descending and unsorted.
func (m *MealsModel) CycleSortActiveColumn() string {
	activeKey := m.columns[m.activeColumn].key
	activeLabel := strings.ToUpper(m.columns[m.activeColumn].label)
	switch {
	case m.sortKey != activeKey:
		m.sortKey = activeKey
		m.sortDesc = false
		m.rebuild()
		return fmt.Sprintf("Sorted %s ascending", activeLabel)
	case !m.sortDesc:
		m.sortDesc = true
		m.rebuild()
		return fmt.Sprintf("Sorted %s descending", activeLabel)
	default:
		m.sortKey = ""
		m.sortDesc = false
		m.rebuild()
		return "Sorting cleared"
	}
}

// TableMeta describes the active sort for the status bar.
func (m *MealsModel) TableMeta() string {
	if m.sortKey == "" {
		return ""
	}
	dir := "↑"
	if m.sortDesc {
		dir = "↓"
	}
	return fmt.Sprintf("sorted by %s %s", strings.ToUpper(m.sortKey), dir)
}

// Cursor movement

func (m *MealsModel) step() int {
	if m.view == ViewGrid {
		return max(1, m.gridCols)
	}
	return 1
}

// MoveDown moves one row down.
func (m *MealsModel) MoveDown() {
	if next := m.cursor + m.step(); next < len(m.rows) {
		m.cursor = next
	}
}

// MoveUp moves one row up.
func (m *MealsModel) MoveUp() {
	if prev := m.cursor - m.step(); prev >= 0 {
		m.cursor = prev
	}
}

// MoveRight moves to the next card in grid view.
func (m *MealsModel) MoveRight() {
	if m.view == ViewGrid && m.cursor < len(m.rows)-1 {
		m.cursor++
	}
}

// MoveLeft moves to the previous card in grid view.
func (m *MealsModel) MoveLeft() {
	if m.view == ViewGrid && m.cursor > 0 {
		m.cursor--
	}
}

// JumpToTop jumps to the first item.
func (m *MealsModel) JumpToTop() {
	m.cursor = 0
	m.offset = 0
}

// JumpToBottom jumps to the last item.
func (m *MealsModel) JumpToBottom() {
	if len(m.rows) > 0 {
		m.cursor = len(m.rows) - 1
	}
}

// HalfPageDown moves down half a page.
func (m *MealsModel) HalfPageDown(pageSize int) {
	m.cursor += max(1, pageSize/2) * m.step()
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	m.clampCursor()
}

// HalfPageUp moves up half a page.
func (m *MealsModel) HalfPageUp(pageSize int) {
	m.cursor -= max(1, pageSize/2) * m.step()
	m.clampCursor()
}

// ensureVisible scrolls so the cursor's line (row index in list view, card
// row in grid view) is within the visible window.
func (m *MealsModel) ensureVisible(line, visible int) {
	if visible <= 0 {
		visible = 1
	}
	if line < m.offset {
		m.offset = line
	}
	if line >= m.offset+visible {
		m.offset = line - visible + 1
	}
}

// View renders the meals using the current layout.
func (m *MealsModel) View(width, height int) string {
	if m.view == ViewList {
		return m.listView(width, height)
	}
	return m.gridView(width, height)
}

func (m *MealsModel) gridView(width, height int) string {
	m.gridCols = max(1, width/(cardWidth+1))
	visibleRows := max(1, height/cardHeight)
	m.viewportHeight = visibleRows

	cursorRow := m.cursor / m.gridCols
	m.ensureVisible(cursorRow, visibleRows)

	var lines []string
	for r := m.offset; r < m.offset+visibleRows; r++ {
		start := r * m.gridCols
		if start >= len(m.rows) {
			break
		}
		end := min(start+m.gridCols, len(m.rows))

		cards := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			if i > start {
				cards = append(cards, " ")
			}
			cards = append(cards, renderCard(m.rows[i], i == m.cursor))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderCard(f model.Food, selected bool) string {
	style := CardStyle
	if selected {
		style = SelectedCardStyle
	}

	imageLabel := "[ image ]"
	if !util.IsValidURL(f.Image) {
		imageLabel = "[ no image ]"
	}
	image := ImagePlaceholderStyle.
		Width(cardInnerWidth).
		Height(imageRows).
		Render("\n" + imageLabel)

	price := PriceTagStyle.Render(util.FormatPrice(f.Price))
	name := LabelStyle.Render(util.TruncateString(f.Name, cardInnerWidth))
	rating := RatingStyle.Render(util.FormatRatingStars(f.Rating) + " " + util.FormatRating(f.Rating))

	restaurant := HelpDescStyle.Render("—")
	badge := ""
	if f.Restaurant != nil {
		restaurant = NormalRowStyle.Render(util.TruncateString(f.Restaurant.Name, cardInnerWidth))
		badge = renderStatusBadge(f.Restaurant)
	}

	body := lipgloss.JoinVertical(lipgloss.Left, image, price, name, rating, restaurant, badge)
	return style.Width(cardWidth - 2).Render(body)
}

func renderStatusBadge(r *model.Restaurant) string {
	if r == nil {
		return ""
	}
	if r.IsOpen() {
		return OpenBadgeStyle.Render(string(model.StatusOpen))
	}
	return ClosedBadgeStyle.Render(string(model.StatusClosed))
}

func (m *MealsModel) listView(width, height int) string {
	widths := make([]int, 0, len(m.columns))
	headers := make([]string, 0, len(m.columns))
	totalFixed := 0
	for idx, col := range m.columns {
		label := formatHeaderLabel(col.label)
		if idx == m.activeColumn {
			label = renderActiveHeaderLabel(label)
		}
		if m.sortKey == col.key {
			if m.sortDesc {
				label += " ↓"
			} else {
				label += " ↑"
			}
		}
		cellWidth := max(col.width+2, lipgloss.Width(label)+4)
		totalFixed += cellWidth
		widths = append(widths, cellWidth)
		headers = append(headers, label)
	}
	sepTotal := (len(widths) - 1) * tableSeparatorWidth()
	if extra := width - totalFixed - sepTotal - 2; extra > 0 {
		widths[0] += extra
	}

	header := renderTableRow(headers, widths, TableHeaderStyle)
	divider := renderTableDivider(widths)

	visibleHeight := max(1, height-2)
	m.viewportHeight = visibleHeight
	m.ensureVisible(m.cursor, visibleHeight)

	var rows []string
	for i := m.offset; i < len(m.rows) && i < m.offset+visibleHeight; i++ {
		f := m.rows[i]
		style := NormalRowStyle
		if i == m.cursor {
			style = SelectedRowStyle
		}

		cells := make([]string, 0, len(m.columns))
		for idx, col := range m.columns {
			w := widths[idx] - 2
			switch col.key {
			case "name":
				cells = append(cells, util.TruncateString(f.Name, w))
			case "restaurant":
				name := "—"
				if f.Restaurant != nil {
					name = f.Restaurant.Name
				}
				cells = append(cells, util.TruncateString(name, w))
			case "status":
				status := "—"
				if f.Restaurant != nil {
					status = string(f.Restaurant.Status)
				}
				cells = append(cells, status)
			case "rating":
				cells = append(cells, util.FormatRatingWithStar(f.Rating))
			case "price":
				cells = append(cells, util.FormatPrice(f.Price))
			}
		}
		rows = append(rows, renderTableRow(cells, widths, style))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		divider,
		strings.Join(rows, "\n"),
	)
}
