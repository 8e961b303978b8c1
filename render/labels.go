package render

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadClassNames reads class names from a text file with one name per line,
// the line number from 0 is the class label
func LoadClassNames(file string) ([]string, error) {

	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)

	var names []string

	for scanner.Scan() {
		names = append(names, strings.TrimSpace(scanner.Text()))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	return names, nil
}
