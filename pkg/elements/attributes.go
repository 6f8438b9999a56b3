package elements

// periodEnds holds the last key of each period. Keys above the final entry
// belong to period len(periodEnds)+1.
var periodEnds = [...]int{2, 10, 18, 36, 54, 86, 118}

// Period returns the coarse bucket of key: 1 for 0..2, 2 for 3..10 and so on,
// 8 for anything past 118.
func Period(key int) int {
	for i, end := range periodEnds {
		if key <= end {
			return i + 1
		}
	}
	return len(periodEnds) + 1
}

// Group returns the 1-based position of key inside its period.
// Key 0 yields 0.
func Group(key int) int {
	p := Period(key)
	if p == 1 {
		return key
	}
	return key - periodEnds[p-2]
}

// DigitSum returns the sum of the decimal digits of key.
func DigitSum(key int) int {
	if key < 0 {
		key = -key
	}
	sum := 0
	for ; key > 0; key /= 10 {
		sum += key % 10
	}
	return sum
}

// DigitProduct returns the product of the decimal digits of key.
// DigitProduct(0) is 0; any key containing a zero digit also yields 0.
func DigitProduct(key int) int {
	if key < 0 {
		key = -key
	}
	if key == 0 {
		return 0
	}
	product := 1
	for ; key > 0; key /= 10 {
		product *= key % 10
	}
	return product
}
