package timewindow

import "time"

// StampFunc extracts the creation instant of a record. ok is false when the
// record carries no usable timestamp.
type StampFunc[T any] func(record T) (ts time.Time, ok bool)

// Filter returns the records of in that fall inside sel anchored at now, in
// input order. Records without a usable timestamp are dropped unless sel is
// the identity selection. The input slice is never modified.
func Filter[T any](in []T, sel Selection, now time.Time, stamp StampFunc[T]) []T {
	out := make([]T, 0, len(in))
	if sel == nil || sel.Kind() == KindAll {
		return append(out, in...)
	}
	for _, record := range in {
		ts, ok := stamp(record)
		if !ok {
			continue
		}
		if sel.contains(ts, now) {
			out = append(out, record)
		}
	}
	return out
}
