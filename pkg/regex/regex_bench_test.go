package regex

import (
	"testing"

	"github.com/grafana/regexp"
)

const benchLine = `level=info ts=2024-05-01T10:00:00Z caller=server.go:42 msg="request served" status=200 took=1.2ms`

func BenchmarkCapturesRead(b *testing.B) {
	re := MustCompile(`status=(\d+) took=(\S+)`)
	locs := re.CaptureLocations()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, ok := re.CapturesRead(locs, benchLine); !ok {
			b.Fatal("no match")
		}
	}
}

func BenchmarkReplaceAllParallel(b *testing.B) {
	re := MustCompile(`\d`)
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = re.ReplaceAll(benchLine, "#")
		}
	})
}

func BenchmarkEngineReplaceAllParallel(b *testing.B) {
	re := regexp.MustCompile(`\d`)
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = re.ReplaceAllString(benchLine, "#")
		}
	})
}
