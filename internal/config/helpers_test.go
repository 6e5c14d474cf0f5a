package config

import "github.com/agbru/polycalc/internal/field"

type fieldDefault = field.Default

func defaultPoints(vals ...int) []field.Element[fieldDefault] {
	out := make([]field.Element[fieldDefault], len(vals))
	for i, v := range vals {
		out[i] = field.New[fieldDefault](v)
	}
	return out
}
