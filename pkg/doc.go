// Package pkg holds the public libraries behind fiducial.
//
// fiducial turns an integer key in 1..118 into a square fiducial marker.
// Each key is read as the atomic number of a chemical element; the
// element's period, group and category feed a deterministic hash that
// seeds the marker pattern. The same key and options always produce the
// same pixels.
//
// # Packages
//
//   - [elements]: the built-in element table and derived attributes
//   - [marker]: hashing, region layouts and grid generation
//   - [fonts]: label typeface resolution with fallbacks
//   - [render]: grid to PNG or SVG, including label fitting
//   - [pipeline]: options, key parsing and the cached Runner
//   - [cache]: artifact cache backends (memory, file, redis, mongo)
//   - [io]: filenames, batch export and manifest verification
//   - [errors]: coded errors shared by the CLI and HTTP API
//   - [observability]: hooks for metrics and tracing
//   - [buildinfo]: version information stamped at build time
//
// # Data flow
//
//	key ──▶ marker.DeriveHash ──▶ marker.Generate ──▶ render.Renderer ──▶ PNG/SVG
//	                                                         ▲
//	                                              fonts.Resolve
//
// A [pipeline.Runner] wraps the flow with a cache lookup keyed on every
// option that affects the output:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	res, err := runner.Generate(ctx, pipeline.Options{Key: 26, Mode: "dense"})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile(io.Filename(res.Key, res.Symbol, time.Time{}, res.Format), res.Data, 0o644)
//
// [elements]: https://pkg.go.dev/github.com/matzehuels/fiducial/pkg/elements
// [marker]: https://pkg.go.dev/github.com/matzehuels/fiducial/pkg/marker
// [fonts]: https://pkg.go.dev/github.com/matzehuels/fiducial/pkg/fonts
// [render]: https://pkg.go.dev/github.com/matzehuels/fiducial/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/fiducial/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/fiducial/pkg/cache
// [io]: https://pkg.go.dev/github.com/matzehuels/fiducial/pkg/io
// [errors]: https://pkg.go.dev/github.com/matzehuels/fiducial/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/fiducial/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/fiducial/pkg/buildinfo
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/fiducial/pkg/pipeline#Runner
package pkg
