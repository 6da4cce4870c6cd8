package regex

// maxRetainedBuf caps the substitution buffer a MatchData keeps between
// uses. Larger buffers are released so one huge input does not pin memory
// in the pool forever.
const maxRetainedBuf = 64 << 10

// MatchData is the scratch space of one search or substitution: the
// capture offsets of the last match and an output buffer.
type MatchData struct {
	slots []int
	buf   []byte
}

func newMatchData(slots int) MatchData {
	return MatchData{slots: make([]int, 0, slots)}
}

// resetBuf empties the output buffer, dropping it if it grew too large.
func (md *MatchData) resetBuf() {
	if cap(md.buf) > maxRetainedBuf {
		md.buf = nil
		return
	}
	md.buf = md.buf[:0]
}
