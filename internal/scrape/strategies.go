package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ReputationMonitor/internal/domain"
)

// DefaultRegistry wires the built-in cascades for the sandbox site. Each
// cascade is ordered from the most markup-specific strategy down to a
// generic heuristic, so the pipeline keeps working when the site's
// markup drifts.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	reg.Register(domain.SourceProduct, NewCascade(
		Strategy{Name: "heading-blocks", Select: selectTexts("h3")},
		Strategy{Name: "product-containers", Select: selectTexts(".product .card-title, .products .title, .product-title")},
	))
	reg.Register(domain.SourceTestimonial, NewCascade(
		Strategy{Name: "testimonial-blocks", Select: selectTexts(".testimonial")},
		Strategy{Name: "generic-cards", Select: selectTexts(".card, blockquote")},
	))
	reg.Register(domain.SourceReview, NewCascade(
		Strategy{Name: "timestamp-anchored", Select: selectDatedBlocks},
		Strategy{Name: "content-containers", Select: selectContainers(".review, .card, .review-card, article, .testimonial")},
		Strategy{Name: "long-paragraphs", Select: selectTexts("p")},
	))
	return reg
}

func selectTexts(pattern string) func(doc *goquery.Document) []Candidate {
	return func(doc *goquery.Document) []Candidate {
		var candidates []Candidate
		doc.Find(pattern).Each(func(_ int, sel *goquery.Selection) {
			if text := strings.TrimSpace(sel.Text()); text != "" {
				candidates = append(candidates, Candidate{Text: text})
			}
		})
		return candidates
	}
}

// selectContainers grabs block text and, when the block nests a <time>
// element or a date-classed node, captures its raw timestamp as well.
func selectContainers(pattern string) func(doc *goquery.Document) []Candidate {
	return func(doc *goquery.Document) []Candidate {
		var candidates []Candidate
		doc.Find(pattern).Each(func(_ int, sel *goquery.Selection) {
			text := strings.TrimSpace(sel.Text())
			if text == "" {
				return
			}
			candidates = append(candidates, Candidate{Text: text, RawDate: embeddedDate(sel)})
		})
		return candidates
	}
}

// selectDatedBlocks anchors on timestamp elements and walks up to their
// enclosing block, the most semantically specific review match.
func selectDatedBlocks(doc *goquery.Document) []Candidate {
	var candidates []Candidate
	doc.Find("time, .review-date, .date").Each(func(_ int, sel *goquery.Selection) {
		block := sel.Closest(".review, .card, article")
		if block.Length() == 0 {
			block = sel.Parent()
		}
		text := strings.TrimSpace(block.Text())
		if text == "" {
			return
		}
		candidates = append(candidates, Candidate{Text: text, RawDate: rawDate(sel)})
	})
	return candidates
}

func embeddedDate(sel *goquery.Selection) string {
	stamp := sel.Find("time, .review-date, .date").First()
	if stamp.Length() == 0 {
		return ""
	}
	return rawDate(stamp)
}

func rawDate(stamp *goquery.Selection) string {
	if value, ok := stamp.Attr("datetime"); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return strings.TrimSpace(stamp.Text())
}
