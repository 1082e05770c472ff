// File: ring.go
// Role: circular-slice arithmetic for the scratchpad — faces are ordered
// vertex cycles and every construction rule is phrased over rotations of them.
package builder

// pairs returns the successive cyclic pairs of a list:
// [a, b, c] → (a,b), (b,c), (c,a).
func pairs[T comparable](list []T) [][2]T {
	out := make([][2]T, 0, len(list))
	for i := range list {
		out = append(out, [2]T{list[i], list[(i+1)%len(list)]})
	}

	return out
}

// tuples returns the successive cyclic n-tuples of a list:
// [a, b, c] with n=4 → (a,b,c,a), (b,c,a,b), (c,a,b,c).
func tuples[T comparable](list []T, n int) [][]T {
	out := make([][]T, 0, len(list))
	for i := range list {
		t := make([]T, n)
		for k := 0; k < n; k++ {
			t[k] = list[(i+k)%len(list)]
		}
		out = append(out, t)
	}

	return out
}

// indexOf returns the first position of item, or -1.
func indexOf[T comparable](list []T, item T) int {
	for i, x := range list {
		if x == item {
			return i
		}
	}

	return -1
}

// nextItem returns the cyclic successor of item.
func nextItem[T comparable](list []T, item T) (T, bool) {
	i := indexOf(list, item)
	if i < 0 {
		var zero T
		return zero, false
	}

	return list[(i+1)%len(list)], true
}

// prevItem returns the cyclic predecessor of item.
func prevItem[T comparable](list []T, item T) (T, bool) {
	i := indexOf(list, item)
	if i < 0 {
		var zero T
		return zero, false
	}

	return list[(i-1+len(list))%len(list)], true
}

// circulatedToItem rotates the list so it ends with item.
func circulatedToItem[T comparable](list []T, item T) []T {
	i := indexOf(list, item)
	out := make([]T, 0, len(list))
	for k := 1; k <= len(list); k++ {
		out = append(out, list[(i+k)%len(list)])
	}

	return out
}

// splitAtItem cuts a list after the first occurrence of item:
// the prefix through item, and the rest.
func splitAtItem[T comparable](list []T, item T) (head, tail []T) {
	i := indexOf(list, item)

	return list[:i+1], list[i+1:]
}

// indexOfPair returns the position i where list[i] == a and its cyclic
// successor is b, or -1.
func indexOfPair[T comparable](list []T, a, b T) int {
	for i := range list {
		if list[i] == a && list[(i+1)%len(list)] == b {
			return i
		}
	}

	return -1
}

// cyclicArc copies list[from..to] walking forward with wraparound, inclusive
// of both ends.
func cyclicArc[T comparable](list []T, from, to int) []T {
	n := len(list)
	out := make([]T, 0, n)
	for k := ((from % n) + n) % n; ; k = (k + 1) % n {
		out = append(out, list[k])
		if k == ((to%n)+n)%n {
			break
		}
	}

	return out
}
