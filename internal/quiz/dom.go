package quiz

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"moodlequiz/internal/model"
	"moodlequiz/internal/util/markup"
)

const (
	classQuestionText = "qtext"
	classAnswerNumber = "answernumber"
)

// DOMExtractor parses attempt markup into a node tree and reads each answer
// from its radio input, so a label and its value always come from the same option.
type DOMExtractor struct{}

func (DOMExtractor) Extract(item model.QuizItem) ([]model.MultichoiceQuestion, error) {
	return extract(item, parseDOM)
}

// domIndex resolves label references across the whole fragment.
type domIndex struct {
	byID     map[string]*html.Node
	labelFor map[string]*html.Node
}

func newDOMIndex(elems []*html.Node) domIndex {
	idx := domIndex{
		byID:     make(map[string]*html.Node),
		labelFor: make(map[string]*html.Node),
	}
	for _, n := range elems {
		if id := markup.AttrValue(n, "id"); id != "" {
			if _, seen := idx.byID[id]; !seen {
				idx.byID[id] = n
			}
		}
		if markup.IsElement(n, "label") {
			if target := markup.AttrValue(n, "for"); target != "" {
				idx.labelFor[target] = n
			}
		}
	}
	return idx
}

func parseDOM(fragment string) ([]parsedQuestion, error) {
	root, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMarkup, err)
	}

	elems := markup.Elements(root)
	var starts []int
	for i, n := range elems {
		if markup.HasClass(n, classQuestionText) {
			starts = append(starts, i)
		}
	}
	if len(starts) == 0 {
		return nil, nil
	}

	idx := newDOMIndex(elems)

	var (
		questions []parsedQuestion
		errs      []error
	)
	for k, start := range starts {
		end := len(elems)
		if k+1 < len(starts) {
			end = starts[k+1]
		}
		q, err := parseDOMBlock(k, elems[start], elems[start+1:end], idx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		questions = append(questions, q)
	}
	return questions, errors.Join(errs...)
}

func parseDOMBlock(index int, qtext *html.Node, scope []*html.Node, idx domIndex) (parsedQuestion, error) {
	q := parsedQuestion{title: markup.InnerText(qtext, nil)}
	seen := make(map[int]bool)

	for _, n := range scope {
		if !isRadio(n) {
			continue
		}

		if q.exportCode == "" {
			name := markup.AttrValue(n, "name")
			if decoded, err := url.QueryUnescape(name); err == nil {
				name = decoded
			}
			q.exportCode = name
		}

		raw, ok := markup.LookupAttr(n, "value")
		if !ok {
			return q, malformed(index, "answer input without value")
		}
		value, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return q, malformed(index, "answer value %q is not an integer", raw)
		}
		// Moodle renders "clear my choice" as an extra radio with value -1.
		if value < 0 {
			continue
		}

		if seen[value] {
			return q, malformed(index, "answer value %d repeats", value)
		}
		seen[value] = true

		label := answerLabel(n, idx)
		if label == "" {
			return q, malformed(index, "answer %d has no label", value)
		}
		q.answers = append(q.answers, model.MultichoiceAnswer{Name: label, Value: value})
	}

	if len(q.answers) == 0 {
		return q, malformed(index, "no answer options")
	}
	if q.exportCode == "" {
		return q, malformed(index, "answer inputs carry no name")
	}
	return q, nil
}

func isRadio(n *html.Node) bool {
	return markup.IsElement(n, "input") && strings.EqualFold(markup.AttrValue(n, "type"), "radio")
}

// answerLabel looks for the option text in the order Moodle themes emit it:
// <label for>, aria-labelledby, a following <label> sibling, an enclosing <label>.
func answerLabel(input *html.Node, idx domIndex) string {
	if id := markup.AttrValue(input, "id"); id != "" {
		if l, ok := idx.labelFor[id]; ok {
			if text := labelText(l); text != "" {
				return text
			}
		}
	}

	if refs := markup.AttrValue(input, "aria-labelledby"); refs != "" {
		var parts []string
		for _, ref := range strings.Fields(refs) {
			if n, ok := idx.byID[ref]; ok {
				if text := labelText(n); text != "" {
					parts = append(parts, text)
				}
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, " ")
		}
	}

	for s := input.NextSibling; s != nil; s = s.NextSibling {
		if s.Type != html.ElementNode {
			continue
		}
		if markup.IsElement(s, "label") {
			return labelText(s)
		}
		break
	}

	for p := input.Parent; p != nil; p = p.Parent {
		if markup.IsElement(p, "label") {
			return labelText(p)
		}
	}
	return ""
}

func labelText(n *html.Node) string {
	return markup.InnerText(n, func(c *html.Node) bool {
		return markup.HasClass(c, classAnswerNumber)
	})
}
