package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/speedtype/internal/scoring"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildStyledRunes renders each sample rune from its correctness flag.
// cursorIndex < 0 hides the cursor.
func buildStyledRunes(targetRunes []rune, flags []scoring.Flag, cursorIndex int) []styledRune {
	wordStart, wordEnd := currentWord(targetRunes, cursorIndex)

	out := make([]styledRune, len(targetRunes))
	for i, target := range targetRunes {
		flag := scoring.Pending
		if i < len(flags) {
			flag = flags[i]
		}
		shown := target
		style := pendingStyle
		switch {
		case flag == scoring.Correct:
			style = correctStyle
		case flag == scoring.Incorrect:
			style = incorrectStyle
			if target == ' ' {
				shown = '•'
			}
		case i == cursorIndex:
			style = cursorStyle
		case i >= wordStart && i < wordEnd:
			style = currentWordStyle
		}
		out[i] = styledRune{
			s:       style.Render(string(shown)),
			width:   runewidth.RuneWidth(shown),
			isSpace: target == ' ',
		}
	}
	return out
}

// currentWord returns the bounds of the word under the cursor, or of the next
// word when the cursor sits on a space. It returns -1, -1 when there is none.
func currentWord(target []rune, cursor int) (int, int) {
	if cursor < 0 || cursor >= len(target) {
		return -1, -1
	}
	i := cursor
	for i < len(target) && target[i] == ' ' {
		i++
	}
	if i == len(target) {
		return -1, -1
	}
	start, end := i, i
	for start > 0 && target[start-1] != ' ' {
		start--
	}
	for end < len(target) && target[end] != ' ' {
		end++
	}
	return start, end
}

// wrapStyledRunes breaks lines between words so no line is wider than width.
// A word keeps its trailing spaces; a word wider than a whole line is split.
func wrapStyledRunes(runes []styledRune, width int) string {
	var b strings.Builder
	if width <= 0 {
		writeRunes(&b, runes)
		return b.String()
	}
	used := 0
	for _, tok := range tokenize(runes) {
		w := widthOf(tok)
		if used > 0 && used+w > width {
			b.WriteByte('\n')
			used = 0
		}
		if w <= width {
			writeRunes(&b, tok)
			used += w
			continue
		}
		for _, r := range tok {
			if used > 0 && used+r.width > width {
				b.WriteByte('\n')
				used = 0
			}
			b.WriteString(r.s)
			used += r.width
		}
	}
	return b.String()
}

// tokenize splits runes into words, each followed by its trailing spaces.
func tokenize(runes []styledRune) [][]styledRune {
	var tokens [][]styledRune
	start := 0
	for i := 1; i <= len(runes); i++ {
		if i == len(runes) || (!runes[i].isSpace && runes[i-1].isSpace) {
			tokens = append(tokens, runes[start:i])
			start = i
		}
	}
	return tokens
}

func widthOf(runes []styledRune) int {
	total := 0
	for _, r := range runes {
		total += r.width
	}
	return total
}

func writeRunes(b *strings.Builder, runes []styledRune) {
	for _, r := range runes {
		b.WriteString(r.s)
	}
}
