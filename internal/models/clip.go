package models

import (
	"regexp"
	"strings"
)

// Category groups clips on the board
type Category string

const (
	CategoryRiffs  Category = "Riffs"
	CategoryVocals Category = "Vocals"
	CategoryDrums  Category = "Drums"
	CategorySynths Category = "Synths"
	CategoryOther  Category = "Other"
)

// Categories lists every valid category in display order
func Categories() []Category {
	return []Category{CategoryRiffs, CategoryVocals, CategoryDrums, CategorySynths, CategoryOther}
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Comment is a note left on a clip. Author fields are a snapshot taken at creation.
type Comment struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	UserName   string `json:"userName"`
	UserAvatar string `json:"userAvatar"`
	Text       string `json:"text"`
	Timestamp  int64  `json:"timestamp"`
}

// Clip is a recorded idea. User is an owned copy of the owner at the time of
// the last profile sync, Comments are in append order.
type Clip struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	AudioURL    string    `json:"audioUrl"`
	MimeType    string    `json:"mimeType,omitempty"`
	Duration    float64   `json:"duration"`
	Tags        []string  `json:"tags"`
	Category    Category  `json:"category,omitempty"`
	CreatedAt   int64     `json:"createdAt"`
	UserID      string    `json:"userId"`
	User        User      `json:"user"`
	Comments    []Comment `json:"comments"`
	AIAnalysis  string    `json:"aiAnalysis,omitempty"`
	IsAnalyzing bool      `json:"isAnalyzing,omitempty"`
}

// Clone returns a deep copy so callers never share slices with the repository
func (c Clip) Clone() Clip {
	out := c
	if c.Tags != nil {
		out.Tags = append([]string(nil), c.Tags...)
	}
	if c.Comments != nil {
		out.Comments = append([]Comment(nil), c.Comments...)
	}
	return out
}

// FindComment returns the index of the comment with the given id, or -1
func (c *Clip) FindComment(commentID string) int {
	for i, cm := range c.Comments {
		if cm.ID == commentID {
			return i
		}
	}
	return -1
}

// HasTag reports whether the clip carries tag, compared case-insensitively
func (c *Clip) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// ExportFilename is the download name of the clip's audio
func (c *Clip) ExportFilename() string {
	return whitespaceRun.ReplaceAllString(c.Title, "_") + ".webm"
}

// ClipPatch is a shallow partial update; nil fields are left untouched
type ClipPatch struct {
	Title       *string   `json:"title,omitempty"`
	Category    *Category `json:"category,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	AIAnalysis  *string   `json:"aiAnalysis,omitempty"`
	IsAnalyzing *bool     `json:"isAnalyzing,omitempty"`
}

// IsEmpty reports whether the patch changes nothing
func (p ClipPatch) IsEmpty() bool {
	return p.Title == nil && p.Category == nil && p.Tags == nil && p.AIAnalysis == nil && p.IsAnalyzing == nil
}

// Apply merges the patch into c. Tags are taken verbatim.
func (p ClipPatch) Apply(c *Clip) {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Category != nil {
		c.Category = *p.Category
	}
	if p.Tags != nil {
		c.Tags = append([]string{}, (*p.Tags)...)
	}
	if p.AIAnalysis != nil {
		c.AIAnalysis = *p.AIAnalysis
	}
	if p.IsAnalyzing != nil {
		c.IsAnalyzing = *p.IsAnalyzing
	}
}

// ParseTags splits a comma separated tag input, trimming entries and dropping empties
func ParseTags(input string) []string {
	tags := []string{}
	for _, part := range strings.Split(input, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
