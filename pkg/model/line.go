package model

import (
	"fmt"
	"strings"
)

type SimpleLine struct {
	LineID   string
	LineName string
	FileName string
}

func (l SimpleLine) String() string {
	return l.LineID + Separator + l.LineName + Separator + l.FileName
}

func ParseSimpleLine(value string) (SimpleLine, error) {
	parts := strings.Split(value, Separator)
	if len(parts) != 3 {
		return SimpleLine{}, fmt.Errorf("%w: line %q", ErrMalformedValue, value)
	}

	return SimpleLine{LineID: parts[0], LineName: parts[1], FileName: parts[2]}, nil
}

// EncodeList and DecodeList carry plain identifier lists such as calendar references or dates
func EncodeList(values []string) string {
	return strings.Join(values, ListSeparator)
}

func DecodeList(value string) []string {
	if value == "" {
		return nil
	}

	return strings.Split(value, ListSeparator)
}
