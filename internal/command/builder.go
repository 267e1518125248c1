package command

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// scrollMagnitude is the wheel delta one scroll command produces.
const scrollMagnitude = 3

// BuildActions expands a definition matched by an intent into its concrete
// action list. An empty result means the definition could not be applied
// to this intent; that is not an error, the caller falls through to the
// next resolver.
func BuildActions(def Definition, intent Intent) []Action {
	switch def.Action {
	case ActionKeyChord:
		if def.MainKey == "" {
			return nil
		}
		return []Action{KeyChord(def.MainKey, def.Modifiers...)}

	case ActionScroll:
		switch {
		case strings.Contains(strings.ToLower(def.Kind), "down"):
			return []Action{ScrollVertical(-scrollMagnitude)}
		case strings.Contains(strings.ToLower(def.Kind), "up"):
			return []Action{ScrollVertical(scrollMagnitude)}
		}
		return nil

	case ActionTextInput:
		text := stripTrigger(def, intent.RawText)
		if text == "" {
			return nil
		}
		return []Action{TextInput(text)}
	}

	return nil
}

// stripTrigger removes everything up to and including the first phrase of
// def found in the transcript, leaving the text the user wants typed.
func stripTrigger(def Definition, raw string) string {
	for _, phrase := range def.Phrases {
		if _, end := foldIndex(raw, phrase); end >= 0 {
			return strings.TrimSpace(raw[end:])
		}
	}
	return strings.TrimSpace(raw)
}

// foldIndex finds the first case-insensitive occurrence of phrase in s and
// returns its byte bounds in s. Lowercasing can change a rune's byte
// length, so offsets into a lowered copy are not safe for slicing s.
func foldIndex(s, phrase string) (start, end int) {
	for i := range s {
		if n, ok := foldPrefix(s[i:], phrase); ok {
			return i, i + n
		}
	}
	return -1, -1
}

func foldPrefix(s, prefix string) (int, bool) {
	n := 0
	for _, pr := range prefix {
		r, size := utf8.DecodeRuneInString(s[n:])
		if size == 0 || unicode.ToLower(r) != unicode.ToLower(pr) {
			return 0, false
		}
		n += size
	}
	return n, true
}
