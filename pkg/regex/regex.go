package regex

import (
	"iter"

	"github.com/grafana/regexp"

	"github.com/ajitpratap0/rxpool/pkg/errors"
	"github.com/ajitpratap0/rxpool/pkg/pool"
)

// Regex is a compiled pattern. It is safe for concurrent use.
type Regex struct {
	pattern string
	config  Config
	re      *regexp.Regexp
	names   []string
	index   map[string]int
	scratch *pool.Pool[MatchData]
}

// String returns the pattern as given to Build.
func (r *Regex) String() string {
	return r.pattern
}

// Config returns the options the regex was built with.
func (r *Regex) Config() Config {
	return r.config
}

// CapturesLen returns the number of groups, including group 0.
func (r *Regex) CapturesLen() int {
	return len(r.names)
}

// CaptureNames returns the group names in order. Unnamed groups, and
// group 0, have the empty name.
func (r *Regex) CaptureNames() []string {
	return append([]string(nil), r.names...)
}

// PoolStats reports the scratch pool's counters.
func (r *Regex) PoolStats() pool.Stats {
	return r.scratch.Stats()
}

// IsMatch reports whether subject contains a match.
func (r *Regex) IsMatch(subject string) bool {
	return r.IsMatchAt(subject, 0)
}

// IsMatchAt is like IsMatch but searches from start.
// The search sees only subject[start:], so ^, \A and \b treat start as
// the beginning of the text. Match offsets are relative to subject.
func (r *Regex) IsMatchAt(subject string, start int) bool {
	g := r.scratch.Get()
	defer g.Put()
	md := g.Value()
	_, ok := r.search(md, subject, start)
	return ok
}

// Find returns the leftmost match in subject.
func (r *Regex) Find(subject string) (Match, bool) {
	return r.FindAt(subject, 0)
}

// FindAt is like Find but searches from start.
// The search sees only subject[start:], so ^, \A and \b treat start as
// the beginning of the text. Match offsets are relative to subject.
func (r *Regex) FindAt(subject string, start int) (Match, bool) {
	g := r.scratch.Get()
	defer g.Put()
	return r.search(g.Value(), subject, start)
}

// Captures returns the groups of the leftmost match in subject.
func (r *Regex) Captures(subject string) (*Captures, bool) {
	g := r.scratch.Get()
	defer g.Put()
	md := g.Value()
	if _, ok := r.search(md, subject, 0); !ok {
		return nil, false
	}
	return &Captures{re: r, subject: subject, slots: append([]int(nil), md.slots...)}, true
}

// CaptureLocations returns an empty set of group offsets sized for r.
func (r *Regex) CaptureLocations() *CaptureLocations {
	slots := make([]int, 2*r.CapturesLen())
	for i := range slots {
		slots[i] = -1
	}
	return &CaptureLocations{slots: slots}
}

// CapturesRead finds the leftmost match and stores its groups in locs.
// Reusing locs across calls avoids allocating a Captures per match.
func (r *Regex) CapturesRead(locs *CaptureLocations, subject string) (Match, bool) {
	return r.CapturesReadAt(locs, subject, 0)
}

// CapturesReadAt is like CapturesRead but searches from start.
// The search sees only subject[start:], so ^, \A and \b treat start as
// the beginning of the text. Match offsets are relative to subject.
func (r *Regex) CapturesReadAt(locs *CaptureLocations, subject string, start int) (Match, bool) {
	g := r.scratch.Get()
	defer g.Put()
	md := g.Value()
	m, ok := r.search(md, subject, start)
	if ok {
		locs.slots = append(locs.slots[:0], md.slots...)
	}
	return m, ok
}

// FindIter yields successive non-overlapping matches.
func (r *Regex) FindIter(subject string) iter.Seq[Match] {
	return func(yield func(Match) bool) {
		for _, loc := range r.re.FindAllStringIndex(subject, -1) {
			if !yield(Match{Subject: subject, Start: loc[0], End: loc[1]}) {
				return
			}
		}
	}
}

// CapturesIter yields the groups of successive non-overlapping matches.
func (r *Regex) CapturesIter(subject string) iter.Seq[*Captures] {
	return func(yield func(*Captures) bool) {
		for _, slots := range r.re.FindAllStringSubmatchIndex(subject, -1) {
			if !yield(&Captures{re: r, subject: subject, slots: slots}) {
				return
			}
		}
	}
}

// search runs the engine on subject[start:] and leaves the shifted group
// offsets in md.slots.
func (r *Regex) search(md *MatchData, subject string, start int) (Match, bool) {
	if start < 0 || start > len(subject) {
		panic(errors.Newf(errors.ErrorTypeInternal,
			"start (%d) must be <= len(subject) (%d)", start, len(subject)))
	}
	loc := r.re.FindStringSubmatchIndex(subject[start:])
	if loc == nil {
		return Match{}, false
	}
	md.slots = md.slots[:0]
	for _, off := range loc {
		if off >= 0 {
			off += start
		}
		md.slots = append(md.slots, off)
	}
	return Match{Subject: subject, Start: md.slots[0], End: md.slots[1]}, true
}
