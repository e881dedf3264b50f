package interact_test

import (
	"fmt"

	"github.com/matzehuels/drivetrain/pkg/interact"
)

func ExampleIndex_Next() {
	x := interact.Index{Entries: []interact.Entry{{ID: "source"}, {ID: "s1"}, {ID: "s2"}}}

	i := 0
	for range 3 {
		i = x.Next(i)
		fmt.Println(x.Entries[i].ID)
	}
	fmt.Println("prev of first:", x.Entries[x.Prev(0)].ID)
	// Output:
	// s1
	// s2
	// source
	// prev of first: s2
}
