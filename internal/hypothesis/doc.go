// Package hypothesis runs the two-sample and contingency tests reported by
// the mission analysis.
//
// Each test returns a Result holding the statistic and its two-sided p-value.
// No significance decision is taken; callers print the raw numbers.
//
//	chi, err := hypothesis.ChiSquare(table)
//	t, err := hypothesis.WelchT(research, colonization)
//	z, err := hypothesis.ZTest(moon, exoplanet)
package hypothesis
