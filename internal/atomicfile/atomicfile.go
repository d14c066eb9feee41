// package atomicfile writes command output atomically via safefile, the
// way pkg/monitor/persist.go persists monitor state: write to a temp file
// next to the destination, then rename into place on success.
package atomicfile

import (
	"io"

	"github.com/dchest/safefile"
)

// Write calls fn with a writer for path and commits the result atomically.
// On any error from fn, the temp file is discarded and path is left
// untouched.
func Write(path string, fn func(w io.Writer) error) error {
	f, err := safefile.Create(path, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := fn(f); err != nil {
		return err
	}
	return f.Commit()
}
