// Package scoring implements the "10,000" scoring table and the greedy
// auto-selection used after every roll.
package scoring

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-tenthousand/internal/dice"
)

// ErrInvalidInput is returned by Validate for dice the table cannot score.
var ErrInvalidInput = errors.New("scoring: invalid input")

// Fixed points of the scoring table.
const (
	StraightPoints   = 1500
	ThreePairsPoints = 1500
	SingleOnePoints  = 100
	SingleFivePoints = 50
	TripleOnesPoints = 1000
)

// Category names the dominant combination of a scored multiset.
type Category int

const (
	CategoryNone Category = iota
	CategorySingleOne
	CategorySingleFive
	CategorySingles
	CategoryTripleOnes
	CategoryTripleTwos
	CategoryTripleThrees
	CategoryTripleFours
	CategoryTripleFives
	CategoryTripleSixes
	CategoryFourOfAKind
	CategoryFiveOfAKind
	CategorySixOfAKind
	CategoryStraight
	CategoryThreePairs
)

var categoryNames = map[Category]string{
	CategoryNone:         "none",
	CategorySingleOne:    "single-one",
	CategorySingleFive:   "single-five",
	CategorySingles:      "singles",
	CategoryTripleOnes:   "triple-ones",
	CategoryTripleTwos:   "triple-twos",
	CategoryTripleThrees: "triple-threes",
	CategoryTripleFours:  "triple-fours",
	CategoryTripleFives:  "triple-fives",
	CategoryTripleSixes:  "triple-sixes",
	CategoryFourOfAKind:  "four-of-a-kind",
	CategoryFiveOfAKind:  "five-of-a-kind",
	CategorySixOfAKind:   "six-of-a-kind",
	CategoryStraight:     "straight",
	CategoryThreePairs:   "three-pairs",
}

// String returns the category's kebab-case name.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// Result is the outcome of scoring a multiset of die values.
type Result struct {
	Points   int
	Category Category
}

func (r Result) String() string {
	return fmt.Sprintf("%d (%s)", r.Points, r.Category)
}

// counts is indexed by face value; index 0 is unused.
type counts [dice.Sides + 1]int

func countValues(values []int) (c counts, n int) {
	for _, v := range values {
		if v < 1 || v > dice.Sides {
			continue
		}
		c[v]++
		n++
	}
	return c, n
}

func isStraight(c counts, n int) bool {
	if n != dice.Count {
		return false
	}
	for v := 1; v <= dice.Sides; v++ {
		if c[v] != 1 {
			return false
		}
	}
	return true
}

func isThreePairs(c counts, n int) bool {
	if n != dice.Count {
		return false
	}
	pairs := 0
	for v := 1; v <= dice.Sides; v++ {
		switch c[v] {
		case 0:
		case 2:
			pairs++
		default:
			return false
		}
	}
	return pairs == 3
}

// GroupPoints returns the score of n dice showing value, for n >= 3.
// Each die beyond three doubles the triple's base score.
func GroupPoints(value, n int) int {
	if n < 3 {
		return 0
	}
	base := value * 100
	if value == 1 {
		base = TripleOnesPoints
	}
	return base << (n - 3)
}

func groupCategory(value, n int) Category {
	switch n {
	case 3:
		return CategoryTripleOnes + Category(value-1)
	case 4:
		return CategoryFourOfAKind
	case 5:
		return CategoryFiveOfAKind
	default:
		return CategorySixOfAKind
	}
}

// Score computes the points and category of a multiset of die values.
// Values outside 1..6 are ignored; callers validate dice before scoring.
// Non-scoring dice contribute nothing. No die is counted twice.
func Score(values []int) Result {
	c, n := countValues(values)
	if n == 0 {
		return Result{Category: CategoryNone}
	}

	if isStraight(c, n) {
		return Result{Points: StraightPoints, Category: CategoryStraight}
	}
	if isThreePairs(c, n) {
		return Result{Points: ThreePairsPoints, Category: CategoryThreePairs}
	}

	points := 0
	category := CategoryNone
	bestCount, bestPoints := 0, 0

	for v := 1; v <= dice.Sides; v++ {
		if c[v] < 3 {
			continue
		}
		gp := GroupPoints(v, c[v])
		points += gp
		if c[v] > bestCount || (c[v] == bestCount && gp > bestPoints) {
			bestCount, bestPoints = c[v], gp
			category = groupCategory(v, c[v])
		}
		c[v] = 0
	}

	ones, fives := c[1], c[5]
	points += ones*SingleOnePoints + fives*SingleFivePoints

	if category == CategoryNone {
		switch {
		case ones > 0 && fives > 0:
			category = CategorySingles
		case ones > 0:
			category = CategorySingleOne
		case fives > 0:
			category = CategorySingleFive
		}
	}

	return Result{Points: points, Category: category}
}

// ScoreDice scores the face values of the given dice.
func ScoreDice(ds []dice.Die) Result {
	return Score(dice.Values(ds))
}

// Validate rejects inputs Score cannot be trusted with: more than six dice
// or faces outside 1..6.
func Validate(values []int) error {
	if len(values) > dice.Count {
		return fmt.Errorf("%w: %d dice", ErrInvalidInput, len(values))
	}
	for _, v := range values {
		if v < 1 || v > dice.Sides {
			return fmt.Errorf("%w: face %d", ErrInvalidInput, v)
		}
	}
	return nil
}
