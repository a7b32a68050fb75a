package nu_test

import (
	"testing"

	"github.com/katalvlaran/meanval/interp"
	"github.com/katalvlaran/meanval/lambda"
	"github.com/katalvlaran/meanval/nu"
	"github.com/katalvlaran/meanval/table"
)

// BenchmarkBuild_h3_k8_200 measures ν over 200 stages with a prebuilt λ table.
func BenchmarkBuild_h3_k8_200(b *testing.B) {
	lam, err := lambda.Build(8, 1, 400, nil)
	if err != nil {
		b.Fatal(err)
	}
	src, err := interp.NewLambdaSource([]*table.Table{lam}, interp.WithFallback(false))
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err = nu.Build(3, 8, 0, 200, src.Lookup, nil); err != nil {
			b.Fatal(err)
		}
	}
}
