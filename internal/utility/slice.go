package utility

import "sort"

// Contains kiểm tra một phần tử có trong slice hay không
func Contains[T comparable](slice []T, item T) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}

// SortedCopy trả về bản sao đã sắp xếp của slice string, không thay đổi slice gốc
func SortedCopy(slice []string) []string {
	out := make([]string, len(slice))
	copy(out, slice)
	sort.Strings(out)
	return out
}

// EqualStrings so sánh hai slice string theo từng phần tử (cùng thứ tự)
func EqualStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
