package retrieval

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// KnowledgeItem is one entry of a normalized legal knowledge file.
type KnowledgeItem struct {
	LawType                 string `json:"law_type"`
	Identifier              string `json:"identifier"`
	TitleOrTerm             string `json:"title_or_term"`
	BareText                string `json:"bare_text"`
	PlainEnglishExplanation string `json:"plain_english_explanation"`
	Source                  string `json:"source"`
}

// Content renders the item as the text that gets embedded and shown to the model.
func (k KnowledgeItem) Content() string {
	out := fmt.Sprintf("%s — %s\n\n%s\n\nExplanation:\n%s",
		k.Identifier, k.TitleOrTerm, k.BareText, k.PlainEnglishExplanation)
	return strings.TrimSpace(out)
}

// Document converts the item into a storable document with a stable ID.
func (k KnowledgeItem) Document() Document {
	key := strings.Join([]string{k.LawType, k.Identifier, k.TitleOrTerm}, "|")
	return Document{
		ID:      uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String(),
		Content: k.Content(),
		Metadata: map[string]string{
			"law_type":   k.LawType,
			"source":     k.Source,
			"identifier": k.Identifier,
		},
	}
}

// LoadKnowledgeFile reads a JSON array of knowledge items. Items with no text are skipped.
func LoadKnowledgeFile(path string) ([]Document, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read knowledge file: %w", err)
	}
	var items []KnowledgeItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal knowledge file %s: %w", path, err)
	}
	docs := make([]Document, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.BareText) == "" && strings.TrimSpace(item.PlainEnglishExplanation) == "" {
			continue
		}
		docs = append(docs, item.Document())
	}
	return docs, nil
}
