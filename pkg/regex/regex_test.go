package regex

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/ajitpratap0/rxpool/pkg/errors"
	"github.com/ajitpratap0/rxpool/pkg/testutil"
)

func matchStrings(seq func(func(Match) bool)) []string {
	var out []string
	for m := range seq {
		out = append(out, m.String())
	}
	return out
}

func TestCompileError(t *testing.T) {
	_, err := Compile(`abc(`)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeCompile))

	var e *errors.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, `abc(`, e.Details["pattern"])

	assert.Panics(t, func() { MustCompile(`[`) })
}

func TestBuildLogsCompiledPattern(t *testing.T) {
	logs := testutil.ObserveLogs(t, zapcore.DebugLevel)
	_, err := NewBuilder().Caseless(true).Build(`(?P<y>\d+)-(\d+)`)
	require.NoError(t, err)

	compiled := logs.FilterMessage("regex compiled").All()
	require.Len(t, compiled, 1)
	fields := compiled[0].ContextMap()
	assert.Equal(t, "i", fields["flags"])
	assert.EqualValues(t, 3, fields["captures"])
	assert.Equal(t, 1, logs.FilterMessage("scratch pool created").Len())
}

func TestBuildRejectsNegativeRetries(t *testing.T) {
	_, err := NewBuilder().PoolRetries(-1).Build(`a`)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	re, err := FromConfig(Config{}).Build(`a`)
	require.NoError(t, err)
	assert.Equal(t, 10, re.Config().Pool.Retries)
}

func TestBuilderFlags(t *testing.T) {
	tests := []struct {
		name    string
		builder *Builder
		pattern string
		subject string
		want    string
		found   bool
	}{
		{"default is case sensitive", NewBuilder(), `hello`, "HELLO", "", false},
		{"caseless", NewBuilder().Caseless(true), `hello`, "say HELLO", "HELLO", true},
		{"dot stops at newline", NewBuilder(), `a.b`, "a\nb", "", false},
		{"dotall", NewBuilder().DotAll(true), `a.b`, "a\nb", "a\nb", true},
		{"anchors whole text", NewBuilder(), `^b$`, "a\nb\nc", "", false},
		{"multi line", NewBuilder().MultiLine(true), `^b$`, "a\nb\nc", "b", true},
		{"greedy", NewBuilder(), `a+`, "aaa", "aaa", true},
		{"ungreedy", NewBuilder().Ungreedy(true), `a+`, "aaa", "a", true},
		{"leftmost first", NewBuilder(), `a|ab`, "ab", "a", true},
		{"leftmost longest", NewBuilder().Longest(true), `a|ab`, "ab", "ab", true},
		{"extended", NewBuilder().Extended(true), "a b  # trailing\n c", "abc", "abc", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re, err := tt.builder.Build(tt.pattern)
			require.NoError(t, err)
			m, ok := re.Find(tt.subject)
			require.Equal(t, tt.found, ok)
			if ok {
				assert.Equal(t, tt.want, m.String())
			}
		})
	}
}

func TestStripExtended(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"a b\tc\nd", "abcd"},
		{`a\ b`, `a\ b`},
		{"a # comment\nb", "ab"},
		{`a\#b`, `a\#b`},
		{"[ #]x", "[ #]x"},
		{"[] ]x", "[] ]x"},
		{"[^] ]x", "[^] ]x"},
		{`\Q a # b \E c`, `\Q a # b \E` + "c"},
		{`\Q open`, `\Q open`},
		{"# only comment", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripExtended(tt.in), "input %q", tt.in)
	}
}

func TestEscape(t *testing.T) {
	assert.Equal(t, `a\.b\*c\#\-d`, Escape("a.b*c#-d"))
	assert.Equal(t, `\\\(\)\[\]\{\}\^\$\|\?\+`, Escape(`\()[]{}^$|?+`))

	lit := "1+1=2? (maybe) [x] #tag"
	re := MustCompile(Escape(lit))
	m, ok := re.Find("we know " + lit + " for sure")
	require.True(t, ok)
	assert.Equal(t, lit, m.String())
}

func TestFindAndMatchAccessors(t *testing.T) {
	re := MustCompile(`\d+`)
	m, ok := re.Find("abc 123 def")
	require.True(t, ok)
	assert.Equal(t, 4, m.Start)
	assert.Equal(t, 7, m.End)
	assert.Equal(t, "123", m.String())
	assert.Equal(t, 3, m.Len())
	assert.False(t, m.IsEmpty())
	assert.Equal(t, "abc ", m.Prefix())
	assert.Equal(t, " def", m.Suffix())

	_, ok = re.Find("no digits")
	assert.False(t, ok)
	assert.True(t, re.IsMatch("x9"))
	assert.False(t, re.IsMatch("x"))
}

func TestAtVariantsReportFullOffsets(t *testing.T) {
	re := MustCompile(`\d+`)
	subject := "12 ab 34"

	m, ok := re.FindAt(subject, 2)
	require.True(t, ok)
	assert.Equal(t, 6, m.Start)
	assert.Equal(t, "34", m.String())

	assert.True(t, re.IsMatchAt(subject, 6))
	assert.False(t, re.IsMatchAt(subject, len(subject)))

	assert.Panics(t, func() { re.FindAt(subject, len(subject)+1) })
	assert.Panics(t, func() { re.IsMatchAt(subject, -1) })
}

func TestAtVariantsTreatStartAsTextStart(t *testing.T) {
	subject := "ab cd"

	anchored := MustCompile(`^cd`)
	assert.False(t, anchored.IsMatch(subject))
	m, ok := anchored.FindAt(subject, 3)
	require.True(t, ok)
	assert.Equal(t, 3, m.Start)

	// Mid-word, but start is a text boundary for the search.
	boundary := MustCompile(`\bd`)
	assert.False(t, boundary.IsMatch(subject))
	assert.True(t, boundary.IsMatchAt(subject, 4))

	locs := boundary.CaptureLocations()
	m, ok = boundary.CapturesReadAt(locs, subject, 4)
	require.True(t, ok)
	assert.Equal(t, [2]int{4, 5}, [2]int{m.Start, m.End})
}

func TestFindIter(t *testing.T) {
	re := MustCompile(`\w+`)
	assert.Equal(t, []string{"the", "quick", "fox"}, matchStrings(re.FindIter("the quick, fox!")))

	// Early break stops the iteration.
	var first []string
	for m := range re.FindIter("a b c") {
		first = append(first, m.String())
		break
	}
	assert.Equal(t, []string{"a"}, first)
}

func TestFindIterEmptyMatchesMakeProgress(t *testing.T) {
	re := MustCompile(`a*`)
	var spans [][2]int
	for m := range re.FindIter("baaac") {
		spans = append(spans, [2]int{m.Start, m.End})
	}
	// The empty match at 4, right after "aaa", is skipped.
	assert.Equal(t, [][2]int{{0, 0}, {1, 4}, {5, 5}}, spans)

	assert.Len(t, matchStrings(MustCompile(``).FindIter("abc")), 4)
}

func TestCaptures(t *testing.T) {
	re := MustCompile(`(?P<key>\w+)=(?P<value>\w*)(;)?`)
	assert.Equal(t, 4, re.CapturesLen())
	assert.Equal(t, []string{"", "key", "value", ""}, re.CaptureNames())

	c, ok := re.Captures("x: name=gopher")
	require.True(t, ok)
	assert.Equal(t, 4, c.Len())

	whole, ok := c.Get(0)
	require.True(t, ok)
	assert.Equal(t, "name=gopher", whole.String())

	key, ok := c.Name("key")
	require.True(t, ok)
	assert.Equal(t, "name", key.String())
	assert.Equal(t, 3, key.Start)

	_, ok = c.Get(3)
	assert.False(t, ok, "optional group did not participate")
	_, ok = c.Get(9)
	assert.False(t, ok)
	_, ok = c.Name("missing")
	assert.False(t, ok)

	assert.Equal(t, "gopher<-name", c.Expand("${value}<-$key"))

	_, ok = re.Captures("nothing here")
	assert.False(t, ok)
}

func TestCapturesOutliveScratch(t *testing.T) {
	re := MustCompile(`(\d)(\d)`)
	first, ok := re.Captures("12")
	require.True(t, ok)
	_, ok = re.Captures("98")
	require.True(t, ok)

	d, _ := first.Get(2)
	assert.Equal(t, "2", d.String())
}

func TestCapturesIter(t *testing.T) {
	re := MustCompile(`(\w)(\d)`)
	var got []string
	for c := range re.CapturesIter("a1 b2 c3") {
		got = append(got, c.Expand("$2$1"))
	}
	assert.Equal(t, []string{"1a", "2b", "3c"}, got)
}

func TestCaptureLocations(t *testing.T) {
	re := MustCompile(`(\d+)-(\d+)?`)
	locs := re.CaptureLocations()
	assert.Equal(t, 3, locs.Len())
	_, _, ok := locs.Get(0)
	assert.False(t, ok, "fresh locations are unset")

	m, ok := re.CapturesRead(locs, "id 10-20")
	require.True(t, ok)
	assert.Equal(t, "10-20", m.String())
	s, e, ok := locs.Get(2)
	require.True(t, ok)
	assert.Equal(t, [2]int{6, 8}, [2]int{s, e})

	m, ok = re.CapturesReadAt(locs, "7- 10-20", 1)
	require.True(t, ok)
	assert.Equal(t, 3, m.Start)

	_, ok = re.CapturesRead(locs, "7-")
	require.True(t, ok)
	_, _, ok = locs.Get(2)
	assert.False(t, ok)
}

func TestReplace(t *testing.T) {
	re := MustCompile(`(?P<first>\w+)\s+(?P<last>\w+)`)
	assert.Equal(t, "Gopher Ada, Bob Smith", re.Replace("Ada Gopher, Bob Smith", "$last $first"))
	assert.Equal(t, "Gopher Ada, Smith Bob", re.ReplaceAll("Ada Gopher, Bob Smith", "${last} ${first}"))

	digits := MustCompile(`\d`)
	assert.Equal(t, "##3", digits.ReplaceN("123", "#", 2))
	assert.Equal(t, "123", digits.ReplaceN("123", "#", 0))
	assert.Equal(t, "$$$", digits.ReplaceN("123", "$$", -1))
	assert.Equal(t, "none", digits.ReplaceAll("none", "#"))
}

func TestReplaceAllFunc(t *testing.T) {
	re := MustCompile(`\d+`)
	out := re.ReplaceAllFunc("a1 b22 c333", func(c *Captures) string {
		m, _ := c.Get(0)
		return fmt.Sprint(m.Len())
	})
	assert.Equal(t, "a1 b2 c3", out)
}

func TestReplaceDropsOversizedBuffer(t *testing.T) {
	re := MustCompile(`x`)
	big := make([]byte, maxRetainedBuf+1)
	for i := range big {
		big[i] = 'y'
	}
	out := re.ReplaceAll(string(big)+"x", "z")
	assert.Len(t, out, len(big)+1)

	// The next substitution starts from a clean buffer.
	assert.Equal(t, "az", re.ReplaceAll("ax", "z"))
}

func TestSplit(t *testing.T) {
	re := MustCompile(`\s*,\s*`)
	assert.Equal(t, []string{"a", "b", "c"}, re.Split("a , b,c"))
	assert.Equal(t, []string{"a", "b,c"}, re.SplitN("a,b,c", 2))
	assert.Equal(t, []string{"a,b,c"}, re.SplitN("a,b,c", 1))
	assert.Nil(t, re.SplitN("a,b,c", 0))
	assert.Equal(t, []string{"", "a", ""}, re.Split(",a,"))
	assert.Equal(t, []string{""}, re.Split(""))

	assert.Equal(t, []string{"", "a", "b", "c", ""}, MustCompile(``).Split("abc"))
}

func TestConcurrentSearchesUseScratchPool(t *testing.T) {
	re := MustCompile(`(\w+)@(\w+)\.com`)
	const workers = 8
	const iterations = 2000

	var wg sync.WaitGroup
	errs := make(chan string, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				user := fmt.Sprintf("u%d_%d", w, i)
				subject := "mail " + user + "@host.com now"
				c, ok := re.Captures(subject)
				if !ok {
					errs <- "no match for " + subject
					return
				}
				if got, _ := c.Get(1); got.String() != user {
					errs <- fmt.Sprintf("got %q want %q", got.String(), user)
					return
				}
				if out := re.Replace(subject, "$2"); out != "mail host now" {
					errs <- "bad replace " + out
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}

	st := re.PoolStats()
	assert.True(t, st.Owned)
	assert.Equal(t, uint64(2*workers*iterations), st.OwnerHits+st.ShardHits+st.Created-1)
}
