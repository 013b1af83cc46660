package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/karvelis/attestor/internal/model"
	"golang.org/x/net/html"
)

// EvidenceFile is one piece of evidence handed to the analysis pass.
type EvidenceFile struct {
	ID      string           // Source document id (file name)
	Type    model.SourceType // document, email, message, transcript
	Actor   string           // Optional default-actor hint
	Content []byte           // Raw bytes as ingested
	Text    string           // Extracted plain text
}

// LoadFile reads one evidence file. HTML evidence (exported email threads,
// chat exports) is reduced to visible text; everything else is treated as
// plain text. sourceType overrides inference when non-empty.
func LoadFile(path string, sourceType model.SourceType, actorHint string) (EvidenceFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return EvidenceFile{}, fmt.Errorf("read evidence: %w", err)
	}

	id := filepath.Base(path)
	text := string(content)
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".html" || ext == ".htm" {
		text = VisibleText(text)
	}

	if sourceType == "" {
		sourceType = inferSourceType(id)
	}

	return EvidenceFile{
		ID:      id,
		Type:    sourceType,
		Actor:   actorHint,
		Content: content,
		Text:    text,
	}, nil
}

// inferSourceType guesses the source type from the file name.
func inferSourceType(name string) model.SourceType {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".eml"), strings.Contains(lower, "email"), strings.Contains(lower, "mail"):
		return model.SourceEmail
	case strings.Contains(lower, "chat"), strings.Contains(lower, "message"), strings.Contains(lower, "sms"):
		return model.SourceMessage
	case strings.Contains(lower, "transcript"), strings.Contains(lower, "deposition"), strings.Contains(lower, "interview"):
		return model.SourceTranscript
	default:
		return model.SourceDocument
	}
}

// VisibleText extracts text nodes from HTML, skipping scripts and styles.
// Unparseable input falls back to the raw string: ingestion never fails on
// malformed evidence.
func VisibleText(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return htmlContent
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return buf.String()
}
