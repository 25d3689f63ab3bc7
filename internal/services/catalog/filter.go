package catalog

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"mall-site-backend/internal/models"
	"mall-site-backend/internal/textnorm"
)

// LetterOther selects names that do not start with a letter.
const LetterOther = "#"

type StoreFilter struct {
	Search   string `form:"search"`
	Letter   string `form:"letter"`
	Floor    string `form:"floor"`
	Category string `form:"category"`
}

func (f StoreFilter) IsZero() bool {
	return strings.TrimSpace(f.Search) == "" && strings.TrimSpace(f.Letter) == "" &&
		strings.TrimSpace(f.Floor) == "" && strings.TrimSpace(f.Category) == ""
}

// FilterStores narrows an already loaded store list. Empty criteria match everything.
func FilterStores(stores []models.Store, f StoreFilter) []models.Store {
	if f.IsZero() {
		return stores
	}
	search := textnorm.FoldCase(f.Search)
	letter := strings.TrimSpace(f.Letter)
	floor := strings.TrimSpace(f.Floor)
	category := textnorm.FoldCase(f.Category)

	out := make([]models.Store, 0, len(stores))
	for _, s := range stores {
		if search != "" && !strings.Contains(textnorm.FoldCase(s.Name), search) {
			continue
		}
		if letter != "" && !startsWith(s.Name, letter) {
			continue
		}
		if floor != "" && strings.TrimSpace(s.Floor) != floor {
			continue
		}
		if category != "" && !inCategory(s, category) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func startsWith(name, letter string) bool {
	first, _ := utf8.DecodeRuneInString(strings.TrimSpace(name))
	if first == utf8.RuneError {
		return false
	}
	if letter == LetterOther {
		return !unicode.IsLetter(first)
	}
	return textnorm.FoldCase(string(first)) == textnorm.FoldCase(letter)
}

func inCategory(s models.Store, folded string) bool {
	if textnorm.FoldCase(s.Category) == folded {
		return true
	}
	for _, c := range s.Categories {
		if textnorm.FoldCase(c.Name) == folded || c.Slug == folded {
			return true
		}
	}
	return false
}

// Floors lists the distinct floors in first-seen order, for the floor picker.
func Floors(stores []models.Store) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range stores {
		f := strings.TrimSpace(s.Floor)
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}
