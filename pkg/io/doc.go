// Package io exports generated markers to disk.
//
// # Filenames
//
// [Filename] follows the download convention of the marker sheets:
//
//	026_Fe.png
//	026_Fe_20260119_143205.png   (with a timestamp)
//
// The zero-padded key keeps directory listings in key order.
//
// # Manifest
//
// [WriteMarkers] writes one file per result plus a manifest.json describing
// the run:
//
//	{
//	  "run_id": "0b0f7c3e-…",
//	  "generated": "2026-01-19T14:32:05Z",
//	  "mode": "dense",
//	  "shape": "squares",
//	  "entries": [
//	    {"key": 26, "symbol": "Fe", "file": "026_Fe.png",
//	     "hash": "1b2c3d4e", "fingerprint": "…", "sha256": "…"}
//	  ]
//	}
//
// [ReadManifest] loads it back and [Verify] checks the files on disk against
// their recorded checksums, so a printed set can be audited later.
package io
