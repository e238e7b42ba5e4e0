// Package hint derives the three hint texts a player can buy during a round.
// Hints are a pure function of the secret, the range limit and the strategy
// index; no randomness is involved.
package hint

import "fmt"

// Strategies is the number of distinct hint strategies; indexes cycle 0,1,2.
const Strategies = 3

// fixedSpread is the half-width of the third (proximity) hint.
const fixedSpread = 5

// Generate returns the hint text for the given strategy index.
//
//	0: range hint, spread = max(1, floor(limit*0.12))
//	1: divisibility by 5, otherwise parity
//	2: range hint, spread = 5
func Generate(secret, limit, index int) string {
	switch index % Strategies {
	case 0:
		lo, hi := window(secret, limit, max(1, limit*12/100))
		return fmt.Sprintf("It's between %d and %d.", lo, hi)
	case 1:
		switch {
		case secret%5 == 0:
			return "It's divisible by 5."
		case secret%2 == 0:
			return "It's even."
		default:
			return "It's odd."
		}
	default:
		lo, hi := window(secret, limit, fixedSpread)
		return fmt.Sprintf("It's within %d and %d.", lo, hi)
	}
}

// window clamps [secret-spread, secret+spread] to [1, limit].
func window(secret, limit, spread int) (int, int) {
	return max(1, secret-spread), min(limit, secret+spread)
}
