package timeparse

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// "932am" -> "9:32 am"
var compactTime = regexp.MustCompile(`\b(\d{1,2})(\d{2})\s?(am|pm)\b`)

// Parser turns free-form matchup times ("tomorrow at 6pm", "next friday
// 19:30") into instants relative to a clock.
type Parser struct {
	w   *when.Parser
	loc *time.Location
	now func() time.Time
}

func New(loc *time.Location, now func() time.Time) *Parser {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Parser{w: w, loc: loc, now: now}
}

// Parse returns the instant text refers to, or nil when it is not
// recognisable as a time. Unrecognised text is not an error; callers keep it
// as a label.
func (p *Parser) Parse(text string) (*time.Time, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, text); err == nil {
		utc := t.UTC()
		return &utc, nil
	}

	normalized := compactTime.ReplaceAllString(strings.ToLower(text), "$1:$2 $3")
	r, err := p.w.Parse(normalized, p.now().In(p.loc))
	if err != nil {
		return nil, fmt.Errorf("failed to parse time %q: %w", text, err)
	}
	if r == nil {
		slog.Debug("unrecognised matchup time", "input", text)
		return nil, nil
	}

	utc := r.Time.UTC()
	return &utc, nil
}
