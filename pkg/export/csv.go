package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// FileExtension is appended to every exporter name.
const FileExtension = ".csv"

// Path returns the CSV file of name inside dir.
func Path(dir, name string) string {
	return filepath.Join(dir, name+FileExtension)
}

// WriteCSV replaces dir/name.csv with lines. Fields are comma separated and
// lines end with a newline.
func WriteCSV(dir, name string, lines [][]string) (err error) {
	path := Path(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.WriteAll(lines); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
