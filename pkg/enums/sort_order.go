package enums

import (
	"fmt"
	"strings"
)

// SortOrder controls how product listings are ordered by price.
type SortOrder string

const (
	SortOrderNone SortOrder = ""
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

var validSortOrders = []SortOrder{
	SortOrderNone,
	SortOrderAsc,
	SortOrderDesc,
}

// String implements fmt.Stringer.
func (s SortOrder) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SortOrder.
func (s SortOrder) IsValid() bool {
	for _, candidate := range validSortOrders {
		if candidate == s {
			return true
		}
	}
	return false
}

// Direction returns 1 for ascending, -1 for descending and 0 when unsorted.
func (s SortOrder) Direction() int {
	switch s {
	case SortOrderAsc:
		return 1
	case SortOrderDesc:
		return -1
	}
	return 0
}

// ParseSortOrder converts raw input into a SortOrder. Empty input means no sort.
func ParseSortOrder(value string) (SortOrder, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validSortOrders {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sort order %q", value)
}
