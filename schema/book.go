package schema

// Category codes for the six book types tracked by the marathon.
const (
	CategoryBhagavatam = "Bhagavatam"
	CategoryCC         = "CC"
	CategoryMBB        = "MBB"
	CategoryBB         = "BB"
	CategoryMB         = "MB"
	CategorySB         = "SB"
)

// Categories is the fixed category set in display and CSV column order.
var Categories = []string{
	CategoryBhagavatam,
	CategoryCC,
	CategoryMBB,
	CategoryBB,
	CategoryMB,
	CategorySB,
}

// PointValues maps a category code to its point weight.
var PointValues = map[string]float64{
	CategoryBhagavatam: 72,
	CategoryCC:         36,
	CategoryMBB:        2,
	CategoryBB:         1,
	CategoryMB:         0.5,
	CategorySB:         0.25,
}

// BookEquivalence expresses each category in small-book units so that
// "total books" is comparable across categories of differing physical
// size. The two multi-volume sets count as their volume count.
var BookEquivalence = map[string]float64{
	CategoryBhagavatam: 18,
	CategoryCC:         9,
	CategoryMBB:        2,
	CategoryBB:         1,
	CategoryMB:         0.5,
	CategorySB:         0.25,
}

// BookCounts maps a category code to a non-negative count.
type BookCounts map[string]int
