package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/dirsize/internal/dirsize"
)

// Report is the JSON form of a traversal result.
type Report struct {
	// Path is the measured root.
	Path string `json:"path"`
	// Human is the total formatted with unit suffixes.
	Human string `json:"human"`

	*dirsize.Usage
}

// FormatSize renders bytes raw, or with SI unit suffixes when human is set.
func FormatSize(bytes uint64, human bool) string {
	if human {
		return humanize.Bytes(bytes)
	}

	return strconv.FormatUint(bytes, 10)
}

// PrintText writes the single "<size>\t<path>" result line.
func PrintText(usage *dirsize.Usage, path string, human bool, writer io.Writer) error {
	_, err := fmt.Fprintf(writer, "%s\t%s\n", FormatSize(usage.TotalBytes, human), path)

	return err
}

// PrintJSON outputs the result in JSON format.
func PrintJSON(usage *dirsize.Usage, path string, writer io.Writer) error {
	data, err := json.MarshalIndent(Report{
		Path:  path,
		Human: humanize.Bytes(usage.TotalBytes),
		Usage: usage,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}
