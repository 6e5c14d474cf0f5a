package poly_test

import (
	"fmt"

	"github.com/agbru/polycalc/internal/field"
	"github.com/agbru/polycalc/internal/poly"
)

func ExamplePoly_MultiEval() {
	f := poly.FromInts[field.M998244353](1, 0, 1) // x^2 + 1
	points := []field.Element[field.M998244353]{
		field.New[field.M998244353](0),
		field.New[field.M998244353](1),
		field.New[field.M998244353](2),
	}
	values, err := f.MultiEval(points)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(values)
	// Output: [1 2 5]
}

func ExamplePoly_Inv() {
	f := poly.FromInts[field.M998244353](1, -1) // 1 - x
	g, err := f.Inv(6)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(g)
	// Output: 1 1 1 1 1 1
}

func ExamplePoly_Pow() {
	f := poly.FromInts[field.M998244353](0, 1, 1) // x + x^2
	g, err := f.Pow(2, 5)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(g)
	// Output: 0 0 1 2 1
}

func ExamplePoly_DivMod() {
	f := poly.FromInts[field.M65537](5, 0, 3, 1) // x^3 + 3x^2 + 5
	g := poly.FromInts[field.M65537](1, 1)       // x + 1
	q, r, err := f.DivMod(g)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("q = %v, r = %v\n", q, r)
	// Output: q = 65535 2 1, r = 7
}
