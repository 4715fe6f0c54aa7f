package infra

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned permits any unsigned integer type.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

type Integer interface {
	Signed | Unsigned
}

type Float interface {
	~float32 | ~float64
}

// OrderedKey
// byte => ~uint8
type OrderedKey interface {
	Integer | Float | ~string
}

// KeyComparator is the single total order a container is built with.
// Assume i is the probing key and j is the stored key.
//  1. i == j, return 0. Same key for insert and remove purposes.
//  2. i > j, return a positive number, turn to right part.
//  3. i < j, return a negative number, turn to left part.
type KeyComparator[K any] func(i, j K) int64

// OrderedKeyComparator is kept as the natural-order alias of KeyComparator.
type OrderedKeyComparator[K OrderedKey] KeyComparator[K]

// NaturalOrder compares by the builtin operators.
// NaN is treated as equal to everything it can't be ordered against,
// callers storing floats should keep NaN out.
func NaturalOrder[K OrderedKey](i, j K) int64 {
	if i < j {
		return -1
	} else if i > j {
		return 1
	}
	return 0
}

// ReverseOrder flips a comparator.
func ReverseOrder[K any](cmp KeyComparator[K]) KeyComparator[K] {
	return func(i, j K) int64 {
		return cmp(j, i)
	}
}
