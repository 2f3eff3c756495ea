package quiz

import (
	"errors"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"moodlequiz/internal/model"
	"moodlequiz/internal/util/markup"
)

const (
	scriptMarker      = "<script"
	answerDelimiter   = "</span>"
	paragraphCloser   = "</p>"
	questionDelimiter = classQuestionText
)

const labelCloser = "</label>"

var (
	namePattern     = regexp.MustCompile(`name="?([^"\s>]+)"?`)
	valuePattern    = regexp.MustCompile(`value="?([^"\s>]*)"?`)
	checkboxPattern = regexp.MustCompile(`(?i)type="?checkbox`)
	nonDigits       = regexp.MustCompile(`\D`)
)

// SegmentExtractor splits the raw markup on the qtext marker instead of
// building a tree. It tolerates fragments that are not well-formed HTML.
type SegmentExtractor struct{}

func (SegmentExtractor) Extract(item model.QuizItem) ([]model.MultichoiceQuestion, error) {
	return extract(item, parseSegments)
}

func parseSegments(fragment string) ([]parsedQuestion, error) {
	if i := strings.Index(fragment, scriptMarker); i >= 0 {
		fragment = fragment[:i]
	}

	segments := strings.Split(fragment, questionDelimiter)
	var (
		questions []parsedQuestion
		errs      []error
	)
	for i, seg := range segments[1:] {
		q, err := parseSegment(i, seg)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		questions = append(questions, q)
	}
	return questions, errors.Join(errs...)
}

func parseSegment(index int, seg string) (parsedQuestion, error) {
	var q parsedQuestion

	if !strings.Contains(seg, answerDelimiter) {
		return q, malformed(index, "no %s after question text", answerDelimiter)
	}

	title, err := segmentTitle(index, seg)
	if err != nil {
		return q, err
	}
	q.title = title

	m := namePattern.FindStringSubmatch(seg)
	if m == nil {
		return q, malformed(index, "no name attribute")
	}
	q.exportCode = m[1]
	if decoded, err := url.QueryUnescape(m[1]); err == nil {
		q.exportCode = decoded
	}

	// Multiple-answer questions submit one field per choice.
	if checkboxPattern.MatchString(seg) {
		return q, malformed(index, "checkbox inputs, multiple answers are not supported")
	}

	// Each option owns the text up to the next value attribute; its label
	// must close inside that window.
	matches := valuePattern.FindAllStringSubmatchIndex(seg, -1)
	seen := make(map[int]bool, len(matches))
	for i, m := range matches {
		raw := seg[m[2]:m[3]]
		if strings.HasPrefix(raw, "-") {
			continue
		}
		digits := nonDigits.ReplaceAllString(raw, "")
		if digits == "" {
			return q, malformed(index, "answer value %q has no digits", raw)
		}
		value, err := strconv.Atoi(digits)
		if err != nil {
			return q, malformed(index, "answer value %q: %v", raw, err)
		}

		end := len(seg)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		window := seg[m[1]:end]
		closing := strings.Index(window, labelCloser)
		if closing < 0 {
			return q, malformed(index, "answer %d has no label", value)
		}
		if seen[value] {
			return q, malformed(index, "answer value %d repeats", value)
		}
		seen[value] = true

		q.answers = append(q.answers, model.MultichoiceAnswer{
			Name:  segmentLabel(window[:closing]),
			Value: value,
		})
	}

	if len(q.answers) == 0 {
		return q, malformed(index, "no answer options")
	}
	return q, nil
}

// segmentTitle reads from the end of the tag that carried the marker up to the
// first closing paragraph.
func segmentTitle(index int, seg string) (string, error) {
	start := strings.Index(seg, ">") + 1
	end := strings.Index(seg, paragraphCloser)
	if end < 0 {
		end = strings.Index(seg, "</div>")
	}
	if end < start {
		return "", malformed(index, "question text is not closed")
	}
	return markup.StripTags(seg[start:end]), nil
}

// segmentLabel keeps the text after the answer number span, or after the
// last tag when there is none.
func segmentLabel(rest string) string {
	if i := strings.LastIndex(rest, answerDelimiter); i >= 0 {
		rest = rest[i+len(answerDelimiter):]
	} else if i := strings.LastIndex(rest, ">"); i >= 0 {
		rest = rest[i+1:]
	}
	return markup.StripTags(rest)
}
