package sample

import (
	"bufio"
	"fmt"
	"os"
)

// LoadTexts reads one sentence per line from the provided file path.
// Lines rejected by Keep are skipped and whitespace is collapsed.
func LoadTexts(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only text file.
			_ = cerr
		}
	}()

	var texts []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := Normalize(scanner.Text())
		if !Keep(line) {
			continue
		}
		texts = append(texts, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(texts) == 0 {
		return nil, fmt.Errorf("text file is empty")
	}
	return texts, nil
}
