package pipeline

import (
	"strconv"
	"strings"

	"github.com/matzehuels/fiducial/pkg/elements"
	"github.com/matzehuels/fiducial/pkg/errors"
	"github.com/matzehuels/fiducial/pkg/marker"
)

// ParseKeys expands a key list such as "1-10,26,Fe,noble-gas" into keys.
//
// Items are separated by commas and may be:
//   - a number ("26") or an inclusive range ("1-10")
//   - an element symbol ("Fe")
//   - a category slug ("noble-gas")
//   - "all" for 1..maxKey
//
// Duplicates are dropped, first occurrence wins. A maxKey of 0 means
// marker.DefaultMaxKey.
func ParseKeys(spec string, maxKey int) ([]int, error) {
	if maxKey <= 0 {
		maxKey = marker.DefaultMaxKey
	}
	var keys []int
	seen := make(map[int]bool)
	add := func(k int) error {
		if err := marker.ValidateKey(k, maxKey); err != nil {
			return err
		}
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
		return nil
	}

	for _, item := range strings.Split(spec, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		switch {
		case strings.EqualFold(item, "all"):
			for k := 1; k <= maxKey; k++ {
				_ = add(k)
			}
		case isRange(item):
			lo, hi, err := parseRange(item)
			if err != nil {
				return nil, err
			}
			for k := lo; k <= hi; k++ {
				if err := add(k); err != nil {
					return nil, err
				}
			}
		default:
			if n, err := strconv.Atoi(item); err == nil {
				if err := add(n); err != nil {
					return nil, err
				}
				continue
			}
			if e, ok := elements.BySymbol(item); ok {
				if err := add(e.Number); err != nil {
					return nil, err
				}
				continue
			}
			if c, err := elements.ParseCategory(item); err == nil {
				for _, e := range elements.InCategory(c) {
					if err := add(e.Number); err != nil {
						return nil, err
					}
				}
				continue
			}
			return nil, errors.New(errors.ErrCodeInvalidOption, "unrecognised key %q", item)
		}
	}
	if len(keys) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidOption, "no keys in %q", spec)
	}
	return keys, nil
}

// isRange reports whether item looks like "a-b" with digits on both sides.
func isRange(item string) bool {
	i := strings.IndexByte(item, '-')
	return i > 0 && i < len(item)-1 && isDigits(item[:i]) && isDigits(strings.TrimSpace(item[i+1:]))
}

func parseRange(item string) (int, int, error) {
	a, b, _ := strings.Cut(item, "-")
	lo, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeInvalidOption, err, "bad range %q", item)
	}
	hi, err := strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeInvalidOption, err, "bad range %q", item)
	}
	if lo > hi {
		return 0, 0, errors.New(errors.ErrCodeInvalidOption, "range %q is reversed", item)
	}
	return lo, hi, nil
}

func isDigits(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
