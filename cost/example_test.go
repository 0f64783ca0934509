package cost_test

import (
	"fmt"

	"github.com/katalvlaran/lanepath/cost"
)

// ExampleCompute prices a 250-unit stretch that crosses the whole carriageway.
func ExampleCompute() {
	p := cost.DefaultParams()
	e := cost.Edge{
		Distance:           250,
		SpeedFrom:          1,
		SpeedTo:            1,
		MaxLength:          1000,
		LaneDistance:       1,
		LaneCount:          1,
		SegmentsToJunction: -1,
	}
	fmt.Printf("%.4f\n", cost.Compute(p, e))
	// Output:
	// 0.4750
}
