// Package intake normalizes request free-text fields before the pipeline
// sees them. Provider portals paste rich text, so fields may arrive with
// embedded markup.
package intake

import (
	"strings"

	"github.com/caldermed/priorauth/internal/model"
	"golang.org/x/net/html"
)

// CleanText strips any HTML markup from a free-text field and collapses
// whitespace. Plain text passes through unchanged apart from trimming.
func CleanText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	// Fast path: nothing that looks like markup
	if !strings.ContainsAny(trimmed, "<>") {
		return collapseWhitespace(trimmed)
	}

	doc, err := html.Parse(strings.NewReader(trimmed))
	if err != nil {
		return collapseWhitespace(trimmed)
	}

	return collapseWhitespace(visibleText(doc))
}

// CleanRequest returns a copy of the request with all free-text fields
// sanitized. The original request is never mutated.
func CleanRequest(req model.Request) model.Request {
	req.TreatmentDescription = CleanText(req.TreatmentDescription)
	req.PatientInfo = CleanText(req.PatientInfo)
	req.Urgency = CleanText(req.Urgency)
	req.History = CleanText(req.History)
	req.ProviderNotes = CleanText(req.ProviderNotes)
	req.InsuranceType = strings.TrimSpace(req.InsuranceType)
	req.RequestID = strings.TrimSpace(req.RequestID)
	return req
}

// visibleText extracts text nodes, skipping script/style content.
func visibleText(n *html.Node) string {
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
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
