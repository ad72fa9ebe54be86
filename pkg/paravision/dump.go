package paravision

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteDump writes one "<key> = <value> " line per parameter, keys sorted
func WriteDump(w io.Writer, params Map) error {
	for _, key := range params.Keys() {
		if _, err := fmt.Fprintf(w, "%s = %s \n", key, params[key]); err != nil {
			return err
		}
	}
	return nil
}

// DumpToFile writes the dump of params to path, creating parent directories
func DumpToFile(params Map, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating dump directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating dump file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := WriteDump(w, params); err != nil {
		return fmt.Errorf("error writing dump file: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("error writing dump file: %w", err)
	}
	return f.Close()
}
