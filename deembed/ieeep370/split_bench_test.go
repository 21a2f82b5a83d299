package ieeep370

import (
	"fmt"
	"testing"

	"github.com/cwbudde/algo-rf/internal/testutil"
	"github.com/cwbudde/algo-rf/rf/frequency"
)

func BenchmarkSplitSE(b *testing.B) {
	for _, n := range []int{400, 1000} {
		grid := frequency.MustNew(testutil.Grid(20e9/float64(n), n), frequency.GHz)
		_, thru := fixtureAndThru(b, grid)
		b.Run(fmt.Sprintf("points=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := SplitSE(thru); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
