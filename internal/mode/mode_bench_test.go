package mode

import (
	"context"
	"runtime"
	"testing"

	"modecount/internal/gen"
)

func BenchmarkCount(b *testing.B) {
	data, _, err := gen.Bytes(gen.Options{Lines: 1 << 20, Seed: 1})
	if err != nil {
		b.Fatal(err)
	}
	for _, st := range []Strategy{Private, Shared} {
		b.Run(string(st), func(b *testing.B) {
			opts := Options{Threads: runtime.NumCPU(), Strategy: st}
			b.SetBytes(int64(len(data)))
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := Count(context.Background(), data, opts); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
