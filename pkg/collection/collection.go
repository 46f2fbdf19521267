// Package collection holds the generic slice helpers the order history
// pipeline is built from: GroupBy regroups flat join rows into orders,
// SortBy orders them, SumInt totals paise amounts exactly.
package collection

import "sort"

// Map applies fn to every element and collects the results.
func Map[T, R any](s []T, fn func(T) R) []R {
	out := make([]R, 0, len(s))
	for _, v := range s {
		out = append(out, fn(v))
	}
	return out
}

// Pluck is Map under the name callers use when extracting one field.
func Pluck[T, R any](s []T, fn func(T) R) []R {
	return Map(s, fn)
}

// Filter keeps the elements fn approves, preserving order.
func Filter[T any](s []T, fn func(T) bool) []T {
	out := make([]T, 0, len(s))
	for _, v := range s {
		if fn(v) {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// First returns the first element fn approves, or (zero, false).
func First[T any](s []T, fn func(T) bool) (T, bool) {
	for _, v := range s {
		if fn(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Contains reports whether fn approves any element.
func Contains[T any](s []T, fn func(T) bool) bool {
	for _, v := range s {
		if fn(v) {
			return true
		}
	}
	return false
}

// GroupBy buckets elements by the key fn derives from each. Within a
// bucket, elements keep their order from s.
func GroupBy[T any, K comparable](s []T, fn func(T) K) map[K][]T {
	groups := map[K][]T{}
	for _, v := range s {
		key := fn(v)
		groups[key] = append(groups[key], v)
	}
	return groups
}

// KeyBy indexes elements by the key fn derives; later duplicates win.
func KeyBy[T any, K comparable](s []T, fn func(T) K) map[K]T {
	index := make(map[K]T, len(s))
	for _, v := range s {
		index[fn(v)] = v
	}
	return index
}

// Unique drops repeated elements, keeping the first occurrence of each.
func Unique[T comparable](s []T) []T {
	seen := make(map[T]struct{}, len(s))
	out := make([]T, 0, len(s))
	for _, v := range s {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortBy sorts s in place with a stable sort, so equal elements keep
// their relative order, and returns s for chaining.
func SortBy[T any](s []T, less func(a, b T) bool) []T {
	sort.SliceStable(s, func(i, j int) bool { return less(s[i], s[j]) })
	return s
}

// Reduce folds s left to right into an accumulator seeded with initial.
func Reduce[T, R any](s []T, initial R, fn func(acc R, item T) R) R {
	acc := initial
	for _, v := range s {
		acc = fn(acc, v)
	}
	return acc
}

// SumInt totals the int64 fn extracts from each element. Money lives in
// int64 paise, so sums stay exact.
func SumInt[T any](s []T, fn func(T) int64) int64 {
	var total int64
	for _, v := range s {
		total += fn(v)
	}
	return total
}
