package main

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// charComp prints got and want up to the first character where they differ
func charComp(got, want string) {
	for c := range got {
		if len(want) <= c {
			fmt.Println("want too short")
			return
		}
		if got[c] != want[c] {
			fmt.Printf("got\n%q, wanted\n%q\n",
				got[:c+1], want[:c+1])
			return
		}
	}
	if len(got) < len(want) {
		fmt.Println("got too short")
	}
}

func compMat(a, b *mat.Dense, eps float64) bool {
	var diff mat.Dense
	diff.Sub(a, b)
	return mat.Norm(&diff, 2) < eps
}

func compFloat(a, b []float64, eps float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}
