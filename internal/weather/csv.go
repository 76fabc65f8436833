package weather

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var header = []string{"hour", "t_ext", "rh", "solar"}

// ReadCSV reads a series with the columns hour,t_ext,rh,solar. rh is a fraction.
func ReadCSV(r io.Reader) (Series, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(header)
	reader.TrimLeadingSpace = true

	first, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	}
	for i, name := range header {
		if strings.ToLower(strings.TrimSpace(first[i])) != name {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrInvalidHeader, i, first[i], name)
		}
	}

	var s Series
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		var values [4]float64
		for i, field := range row {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d, %s: %w", len(s)+2, header[i], err)
			}
			values[i] = v
		}
		if int(values[0]) != len(s) {
			return nil, fmt.Errorf("%w: got %v at line %d", ErrHourSequence, values[0], len(s)+2)
		}
		h := Hour{TExt: values[1], RelativeHumidity: values[2], Solar: values[3]}
		if err := h.Validate(); err != nil {
			return nil, fmt.Errorf("hour %d: %w", len(s), err)
		}
		s = append(s, h)
	}
	return s, nil
}

func LoadCSV(path string) (Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}
