package store

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Section is the statutory text of one IPC section.
type Section struct {
	Number    string `gorm:"primaryKey;size:16" json:"section_number"`
	Title     string `gorm:"size:256" json:"section_title"`
	Text      string `gorm:"type:text" json:"section_text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

const excerptLimit = 400

// Excerpt returns the first 400 characters of the section text, marked with
// "..." when truncated.
func (s *Section) Excerpt() string {
	text := strings.TrimSpace(s.Text)
	if utf8.RuneCountInString(text) <= excerptLimit {
		return text
	}
	runes := []rune(text)
	return string(runes[:excerptLimit]) + "..."
}
