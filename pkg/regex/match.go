package regex

// Match is one match of a regex: the half-open byte range [Start, End)
// of Subject.
type Match struct {
	Subject string
	Start   int
	End     int
}

// String returns the matched text.
func (m Match) String() string {
	return m.Subject[m.Start:m.End]
}

// Len returns the length of the match in bytes.
func (m Match) Len() int {
	return m.End - m.Start
}

// IsEmpty reports whether the match is zero-length.
func (m Match) IsEmpty() bool {
	return m.Start == m.End
}

// Prefix returns the text before the match.
func (m Match) Prefix() string {
	return m.Subject[:m.Start]
}

// Suffix returns the text after the match.
func (m Match) Suffix() string {
	return m.Subject[m.End:]
}

// Captures holds the groups of one match. Group 0 is the whole match.
type Captures struct {
	re      *Regex
	subject string
	slots   []int
}

// Get returns group i, or false if the group did not take part in the
// match or does not exist.
func (c *Captures) Get(i int) (Match, bool) {
	start, end, ok := slot(c.slots, i)
	if !ok {
		return Match{}, false
	}
	return Match{Subject: c.subject, Start: start, End: end}, true
}

// Name returns the group called name.
func (c *Captures) Name(name string) (Match, bool) {
	i, ok := c.re.index[name]
	if !ok {
		return Match{}, false
	}
	return c.Get(i)
}

// Len returns the number of groups, including group 0.
func (c *Captures) Len() int {
	return len(c.slots) / 2
}

// Expand fills template with the groups of c. $1, ${1}, $name and ${name}
// are replaced by the group text; $$ is a literal $.
func (c *Captures) Expand(template string) string {
	return string(c.re.re.ExpandString(nil, template, c.subject, c.slots))
}

// CaptureLocations is a reusable set of group offsets for CapturesRead.
// It is not safe for concurrent use.
type CaptureLocations struct {
	slots []int
}

// Get returns the byte offsets of group i from the last successful read.
func (l *CaptureLocations) Get(i int) (start, end int, ok bool) {
	return slot(l.slots, i)
}

// Len returns the number of groups, including group 0.
func (l *CaptureLocations) Len() int {
	return len(l.slots) / 2
}

func slot(slots []int, i int) (start, end int, ok bool) {
	if i < 0 || 2*i+1 >= len(slots) {
		return 0, 0, false
	}
	start, end = slots[2*i], slots[2*i+1]
	if start < 0 || end < 0 {
		return 0, 0, false
	}
	return start, end, true
}
