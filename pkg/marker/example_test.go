package marker_test

import (
	"fmt"

	"github.com/matzehuels/fiducial/pkg/marker"
)

func ExampleGenerate() {
	g, err := marker.Generate(79, marker.Options{Mode: marker.ModeSimple})
	if err != nil {
		panic(err)
	}
	fmt.Println(g.Size, len(g.Rows()))
	// Output: 8 8
}

func ExampleDeriveHash() {
	fmt.Println(marker.DeriveHash(20) != marker.DeriveHash(96))
	// Output: true
}

func ExampleLayoutFor() {
	l := marker.LayoutFor(marker.ModeDense)
	for _, r := range l.Regions[:3] {
		fmt.Println(r.Name, r.Bounds)
	}
	// Output:
	// locator-top-left (0,0)-(8,8)
	// locator-top-right (13,0)-(21,8)
	// locator-bottom-left (0,13)-(8,21)
}
