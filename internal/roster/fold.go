package roster

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// FoldName lowercases, strips diacritics and collapses whitespace so that
// "Loïc" and "loic" compare equal.
func FoldName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range norm.NFD.String(s) {
		if !unicode.Is(unicode.Mn, r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(strings.ToLower(b.String())), " ")
}

// FindPlayer resolves a player reference that is either a numeric id or a
// name compared with FoldName.
func (t *Team) FindPlayer(ref string) *Player {
	if id, err := strconv.Atoi(strings.TrimSpace(ref)); err == nil {
		return t.Player(id)
	}
	want := FoldName(ref)
	for i := range t.Players {
		if FoldName(t.Players[i].Name) == want {
			return &t.Players[i]
		}
	}
	return nil
}
