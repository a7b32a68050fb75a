package lambda_test

import (
	"testing"

	"github.com/katalvlaran/meanval/lambda"
)

// BenchmarkBuild_k8_1000 measures the default method set over 1000 stages.
func BenchmarkBuild_k8_1000(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := lambda.Build(8, 1, 1000, nil); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkBuild_GridSearch_k8_200 measures the optional grid estimator.
func BenchmarkBuild_GridSearch_k8_200(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := lambda.Build(8, 1, 200, nil, lambda.WithGridSearch(lambda.DefaultGridPoints)); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSmoothTheta isolates the companion-matrix root solve.
func BenchmarkSmoothTheta(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := lambda.SmoothTheta(10); err != nil {
			b.Fatal(err)
		}
	}
}
