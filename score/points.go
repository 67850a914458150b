package score

import (
	"github.com/abhaynitaidasbavs/marathon-scoreboard/schema"
)

// PointValue returns the point weight for a category code. Categories
// outside the fixed set weigh zero.
func PointValue(category string) float64 {
	return schema.PointValues[category]
}
