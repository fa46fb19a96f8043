package model

import "fmt"

// Semantic error messages reported by the validator.
const (
	ErrMissing       = "missing"
	ErrInaccurate    = "inaccurate"
	ErrSelfReference = "self-reference"
	ErrDuplicate     = "duplicate"
)

// validate checks every link of the hydrated tree and returns the semantic
// errors found. Checks per link:
//
//   - self-reference: both endpoints name the same path
//   - missing: an endpoint path did not resolve to a system
//   - inaccurate: an endpoint resolved to an interior system that still has
//     children (links must terminate on leaves; a hideSystems container
//     with children is reported too)
//   - duplicate: the unordered pair (a,b) occurs more than once; both
//     members of a duplicate pair are reported
//
// Duplicate detection operates on the raw endpoint strings, independent of
// whether the endpoints resolved.
func validate(root *System) []ValidationError {
	var errs []ValidationError

	for _, l := range root.Links {
		path := fmt.Sprintf("/links/%d", l.Index)

		if l.A == l.B {
			errs = append(errs, ValidationError{Message: ErrSelfReference, Path: path})
			continue
		}
		errs = append(errs, validateEndpoint(l.SystemA, path+"/a")...)
		errs = append(errs, validateEndpoint(l.SystemB, path+"/b")...)
	}

	errs = append(errs, findDuplicates(root.Links)...)
	return errs
}

// validateEndpoint reports missing or inaccurate problems for one endpoint.
func validateEndpoint(s *System, path string) []ValidationError {
	if s == nil {
		return []ValidationError{{Message: ErrMissing, Path: path}}
	}
	if !s.IsLeaf() {
		return []ValidationError{{Message: ErrInaccurate, Path: path}}
	}
	return nil
}

// findDuplicates reports every link whose unordered endpoint pair occurs
// more than once, in link order.
func findDuplicates(links []*Link) []ValidationError {
	count := make(map[[2]string]int, len(links))
	for _, l := range links {
		count[unorderedKey(l)]++
	}

	var errs []ValidationError
	for _, l := range links {
		if count[unorderedKey(l)] > 1 {
			errs = append(errs, ValidationError{
				Message: ErrDuplicate,
				Path:    fmt.Sprintf("/links/%d", l.Index),
			})
		}
	}
	return errs
}

// unorderedKey normalises (a,b) so that (a,b) and (b,a) collide.
func unorderedKey(l *Link) [2]string {
	if l.A <= l.B {
		return [2]string{l.A, l.B}
	}
	return [2]string{l.B, l.A}
}
