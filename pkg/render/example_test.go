package render_test

import (
	"fmt"

	"github.com/matzehuels/fiducial/pkg/marker"
	"github.com/matzehuels/fiducial/pkg/render"
)

func ExampleRenderer_Render() {
	g, _ := marker.Generate(2, marker.Options{})
	out, err := render.New(nil).Render(g, render.Options{ShowNumber: true})
	if err != nil {
		panic(err)
	}
	fmt.Println(out.Width, out.Height, out.Labels[0].Text)
	// Output: 480 480 2
}

func ExampleRegionPixels() {
	g, _ := marker.Generate(2, marker.Options{})
	for _, r := range g.Regions {
		fmt.Println(r.Name, render.RegionPixels(g, r, render.Options{}))
	}
	// Output:
	// code-label (152,196)-(328,284)
	// number-label (284,372)-(416,416)
}
