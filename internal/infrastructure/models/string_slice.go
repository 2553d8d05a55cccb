package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// StringSlice stores a []string as a comma separated text column.
type StringSlice []string

// Value rejects elements containing a comma since they could not be split back.
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "", nil
	}
	for _, v := range s {
		if strings.Contains(v, ",") {
			return "", fmt.Errorf("unsafe string slice element %q", v)
		}
	}
	return strings.Join(s, ","), nil
}

func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = []string{}
		return nil
	}

	str, ok := value.(string)
	if !ok {
		b, ok := value.([]byte)
		if !ok {
			return fmt.Errorf("failed to scan StringSlice, %v", value)
		}
		str = string(b)
	}

	if str == "" {
		*s = []string{}
	} else {
		*s = strings.Split(str, ",")
	}
	return nil
}
