package marker

// Generate builds the grid for key.
//
// The key is validated before any work is done. Steps then run in a fixed
// order: corner locators, center alignment, timing and format strips, general
// fill. Label regions are left blank; drawing text into them is the
// renderer's job. Each step writes only to its own region or, for the
// general fill, to cells no region owns.
//
// Generate keeps no state between calls and is safe for concurrent use.
func Generate(key int, opts Options) (*Grid, error) {
	if err := ValidateKey(key, opts.maxKey()); err != nil {
		return nil, err
	}
	return build(key, DeriveHash(key), opts), nil
}

// build runs the generation steps for an already validated key.
func build(key int, h Hash, opts Options) *Grid {
	layout := LayoutFor(opts.Mode)
	g := newGrid(key, h, opts, layout)

	locatorSalts := []uint64{saltLocatorTopLeft, saltLocatorTopRight, saltLocatorBottomLeft}
	corner := 0
	for i, r := range g.Regions {
		if r.Kind == RegionLocator && corner < len(locatorSalts) {
			g.drawLocator(i, locatorSalts[corner])
			corner++
		}
	}
	for i, r := range g.Regions {
		if r.Kind == RegionAlignment {
			g.drawAlignment(i)
		}
	}

	var formatOffset uint
	for i, r := range g.Regions {
		switch r.Kind {
		case RegionTiming:
			g.drawTiming(i)
		case RegionFormat:
			g.drawFormat(i, formatOffset)
			formatOffset += uint(r.Bounds.Dx() * r.Bounds.Dy())
		}
	}

	g.fill()

	for i, r := range g.Regions {
		if r.Kind.IsLabel() {
			g.claim(i)
		}
	}
	return g
}
