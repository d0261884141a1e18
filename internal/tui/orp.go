package tui

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// ORPPosition returns the rune index of the optimal recognition point.
func ORPPosition(word string) int {
	length := utf8.RuneCountInString(word)
	if length <= 1 {
		return 0
	} else if length <= 5 {
		return 1
	}
	return length / 3
}

// splitORP splits word around its recognition point.
func splitORP(word string) (before, focus, after string) {
	runes := []rune(word)
	if len(runes) == 0 {
		return "", "", ""
	}
	orp := ORPPosition(word)
	return string(runes[:orp]), string(runes[orp]), string(runes[orp+1:])
}

func formatWord(word string) string {
	before, focus, after := splitORP(word)
	return wordStyle.Render(before) + orpStyle.Render(focus) + wordStyle.Render(after)
}

// anchorORP left-pads text so the recognition point of word lands on the
// center column.
func anchorORP(text, word string, width int) string {
	before, _, _ := splitORP(word)
	pad := width/2 - runewidth.StringWidth(before)
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + text
}
