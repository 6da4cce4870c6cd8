package regex

// Replace replaces the leftmost match. The replacement is a template as
// in Captures.Expand.
func (r *Regex) Replace(subject, template string) string {
	return r.ReplaceN(subject, template, 1)
}

// ReplaceAll replaces every match.
func (r *Regex) ReplaceAll(subject, template string) string {
	return r.ReplaceN(subject, template, -1)
}

// ReplaceN replaces at most n matches; n < 0 means all of them.
func (r *Regex) ReplaceN(subject, template string, n int) string {
	if n == 0 {
		return subject
	}
	matches := r.re.FindAllStringSubmatchIndex(subject, n)
	if len(matches) == 0 {
		return subject
	}
	return r.substitute(subject, matches, func(dst []byte, m []int) []byte {
		return r.re.ExpandString(dst, template, subject, m)
	})
}

// ReplaceAllFunc replaces every match with the result of fn.
func (r *Regex) ReplaceAllFunc(subject string, fn func(*Captures) string) string {
	matches := r.re.FindAllStringSubmatchIndex(subject, -1)
	if len(matches) == 0 {
		return subject
	}
	return r.substitute(subject, matches, func(dst []byte, m []int) []byte {
		return append(dst, fn(&Captures{re: r, subject: subject, slots: m})...)
	})
}

// substitute builds the output in a pooled buffer.
func (r *Regex) substitute(subject string, matches [][]int, expand func([]byte, []int) []byte) string {
	g := r.scratch.Get()
	defer g.Put()
	md := g.Value()
	md.resetBuf()

	last := 0
	for _, m := range matches {
		md.buf = append(md.buf, subject[last:m[0]]...)
		md.buf = expand(md.buf, m)
		last = m[1]
	}
	md.buf = append(md.buf, subject[last:]...)
	return string(md.buf)
}

// Split slices subject into the pieces between matches.
func (r *Regex) Split(subject string) []string {
	return r.SplitN(subject, -1)
}

// SplitN is like Split but returns at most n pieces; the last piece is
// the unsplit remainder. n == 0 returns nil and n < 0 means no limit.
func (r *Regex) SplitN(subject string, n int) []string {
	if n == 0 {
		return nil
	}
	limit := -1
	if n > 0 {
		limit = n - 1
	}
	matches := r.re.FindAllStringIndex(subject, limit)

	out := make([]string, 0, len(matches)+1)
	last := 0
	for _, m := range matches {
		out = append(out, subject[last:m[0]])
		last = m[1]
	}
	return append(out, subject[last:])
}
