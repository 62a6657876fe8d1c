package utils

import "math"

// Round arredonda para a quantidade de casas informada; NaN e infinitos viram zero
func Round(f float64, places int) float64 {
	if f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}

	pow := math.Pow(10, float64(places))
	return math.Round(f*pow) / pow
}

func RoundWithTwoDecimalPlace(f float64) float64 {
	return Round(f, 2)
}
