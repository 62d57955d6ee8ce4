package e2e

import (
	"regexp"
	"strings"
)

// ansiEscape matches CSI sequences, including private ones such as ESC[?25l
var ansiEscape = regexp.MustCompile(`\x1b\[\??[0-9;]*[a-zA-Z]`)

// TerminalScreen is a minimal virtual terminal: enough cursor movement and
// clearing to reconstruct the last frame a full-screen view drew.
type TerminalScreen struct {
	rows    int
	cols    int
	buffer  [][]rune
	cursorX int
	cursorY int
}

// NewTerminalScreen creates a blank screen of the given size
func NewTerminalScreen(rows, cols int) *TerminalScreen {
	s := &TerminalScreen{rows: rows, cols: cols, buffer: make([][]rune, rows)}
	for i := range s.buffer {
		s.buffer[i] = blankRow(cols)
	}
	return s
}

// StripANSI removes all ANSI escape codes from a string
func StripANSI(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}

// ParseTerminalOutput replays output on a 24x80 screen
func ParseTerminalOutput(output string) *TerminalScreen {
	return ParseTerminalOutputSize(output, 24, 80)
}

// ParseTerminalOutputSize replays output on a screen of the given size
func ParseTerminalOutputSize(output string, rows, cols int) *TerminalScreen {
	screen := NewTerminalScreen(rows, cols)

	runes := []rune(output)
	for i := 0; i < len(runes); {
		switch {
		case runes[i] == '\x1b' && i+1 < len(runes) && runes[i+1] == '[':
			i = screen.handleCSI(runes, i+2)
		case runes[i] == '\r':
			screen.cursorX = 0
			i++
		case runes[i] == '\n':
			// Output is assumed to go through ONLCR
			screen.lineFeed()
			i++
		case runes[i] == '\b':
			screen.cursorX = max(0, screen.cursorX-1)
			i++
		default:
			screen.putChar(runes[i])
			i++
		}
	}

	return screen
}

// handleCSI consumes one control sequence starting after ESC[ and returns the next index
func (s *TerminalScreen) handleCSI(runes []rune, i int) int {
	private := false
	if i < len(runes) && runes[i] == '?' {
		private = true
		i++
	}

	params := []int{}
	current := 0
	for ; i < len(runes); i++ {
		switch r := runes[i]; {
		case r >= '0' && r <= '9':
			current = current*10 + int(r-'0')
		case r == ';':
			params = append(params, current)
			current = 0
		default:
			params = append(params, current)
			if private {
				// Mode switches: ESC[?1049h starts on a fresh screen
				if r == 'h' && len(params) > 0 && params[0] == 1049 {
					s.clear()
					s.cursorX, s.cursorY = 0, 0
				}
			} else {
				s.handleCommand(r, params)
			}
			return i + 1
		}
	}
	return i
}

func (s *TerminalScreen) handleCommand(cmd rune, params []int) {
	arg := func(idx, def int) int {
		if idx < len(params) && params[idx] > 0 {
			return params[idx]
		}
		return def
	}

	switch cmd {
	case 'H', 'f':
		s.cursorY = min(s.rows-1, arg(0, 1)-1)
		s.cursorX = min(s.cols-1, arg(1, 1)-1)
	case 'J':
		switch arg(0, 0) {
		case 0:
			s.clearFromCursor()
		case 2, 3:
			s.clear()
		}
	case 'K':
		s.clearLineFromCursor()
	case 'A':
		s.cursorY = max(0, s.cursorY-arg(0, 1))
	case 'B':
		s.cursorY = min(s.rows-1, s.cursorY+arg(0, 1))
	case 'C':
		s.cursorX = min(s.cols-1, s.cursorX+arg(0, 1))
	case 'D':
		s.cursorX = max(0, s.cursorX-arg(0, 1))
	}
	// 'm' (colors) and anything else do not move the cursor
}

func (s *TerminalScreen) putChar(ch rune) {
	if s.cursorX >= s.cols {
		s.lineFeed()
	}
	s.buffer[s.cursorY][s.cursorX] = ch
	s.cursorX++
}

func (s *TerminalScreen) lineFeed() {
	s.cursorX = 0
	s.cursorY++
	if s.cursorY >= s.rows {
		s.scrollUp()
	}
}

func (s *TerminalScreen) clear() {
	for i := range s.buffer {
		s.buffer[i] = blankRow(s.cols)
	}
}

func (s *TerminalScreen) clearFromCursor() {
	s.clearLineFromCursor()
	for i := s.cursorY + 1; i < s.rows; i++ {
		s.buffer[i] = blankRow(s.cols)
	}
}

func (s *TerminalScreen) clearLineFromCursor() {
	for j := s.cursorX; j < s.cols; j++ {
		s.buffer[s.cursorY][j] = ' '
	}
}

func (s *TerminalScreen) scrollUp() {
	copy(s.buffer, s.buffer[1:])
	s.buffer[s.rows-1] = blankRow(s.cols)
	s.cursorY = s.rows - 1
}

func blankRow(cols int) []rune {
	row := make([]rune, cols)
	for j := range row {
		row[j] = ' '
	}
	return row
}

// Render returns the screen content with trailing spaces trimmed
func (s *TerminalScreen) Render() string {
	lines := make([]string, s.rows)
	for i := range s.buffer {
		lines[i] = s.GetLine(i)
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// GetLine returns one screen line
func (s *TerminalScreen) GetLine(line int) string {
	if line >= 0 && line < s.rows {
		return strings.TrimRight(string(s.buffer[line]), " ")
	}
	return ""
}

// ContainsText checks if the screen contains specific text
func (s *TerminalScreen) ContainsText(text string) bool {
	return strings.Contains(s.Render(), text)
}
