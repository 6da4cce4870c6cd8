// Package regex is a compiled-pattern matcher built on github.com/grafana/regexp
// that keeps its per-search scratch space in a pool.Pool.
//
// A *Regex is safe for concurrent use. Each search borrows a MatchData
// from the regex's pool, so the goroutine that uses a regex most often
// reuses one scratch value without synchronization, and everybody else
// is spread over the pool's shards.
//
// # Building
//
//	re, err := regex.NewBuilder().
//		Caseless(true).
//		Extended(true).
//		Build(`(?P<key> \w+ ) = (?P<value> \S+ )  # assignment`)
//
// Extended mode drops unescaped whitespace and #-comments outside
// character classes and \Q...\E quotes before compiling.
//
// # Searching
//
//	if m, ok := re.Find(line); ok {
//		fmt.Println(m.Start, m.End, m.String())
//	}
//	for c := range re.CapturesIter(text) {
//		k, _ := c.Name("key")
//		fmt.Println(k.String())
//	}
//
// Iterators skip an empty match that directly follows the previous
// match, so they always make progress.
//
// The *At variants search subject[start:]. Anchors and word boundaries
// see start as the beginning of the text; reported offsets are into the
// whole subject.
package regex
