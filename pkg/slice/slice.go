package slice

func ReverseInPlace[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func Contains[T comparable](s []T, value T) bool {
	for _, a := range s {
		if a == value {
			return true
		}
	}
	return false
}

// Insert value at index, shifting the tail
func Insert[T any](s []T, index int, value T) []T {
	if index == len(s) {
		return append(s, value)
	}
	s = append(s[:index+1], s[index:]...)
	s[index] = value
	return s
}
