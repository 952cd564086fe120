package clips

import (
	"strings"

	"github.com/killallgit/jamboard-api/internal/models"
)

// Board tabs that are not categories
const (
	TabAll     = "All"
	TabMyClips = "My Clips"
)

// Tabs lists the board tabs in display order
func Tabs() []string {
	return []string{
		TabAll,
		string(models.CategoryRiffs),
		string(models.CategoryVocals),
		string(models.CategoryDrums),
		string(models.CategorySynths),
		TabMyClips,
	}
}

// Filter returns the clips matching query and tab, in their original order.
// The query matches title or any tag by case-insensitive substring. An empty
// tab behaves like All. viewerID is the signed-in user and may be empty.
func Filter(clips []models.Clip, query, tab, viewerID string) []models.Clip {
	q := strings.ToLower(query)
	out := make([]models.Clip, 0, len(clips))
	for _, c := range clips {
		if !matchesQuery(&c, q) || !matchesTab(&c, tab, viewerID) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func matchesQuery(c *models.Clip, q string) bool {
	if strings.Contains(strings.ToLower(c.Title), q) {
		return true
	}
	for _, t := range c.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

func matchesTab(c *models.Clip, tab, viewerID string) bool {
	switch tab {
	case "", TabAll:
		return true
	case TabMyClips:
		return viewerID != "" && c.UserID == viewerID
	default:
		return string(c.Category) == tab || c.HasTag(tab)
	}
}
