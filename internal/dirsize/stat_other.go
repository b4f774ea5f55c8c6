//go:build !unix

package dirsize

import (
	"io/fs"
	"os"
)

// Hard link information is not available here: every file reports a link
// count of 1, so nothing is deduplicated.

func lstat(path string) (Metadata, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return Metadata{}, err
	}

	return fromMode(info), nil
}

func stat(path string) (Metadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Metadata{}, err
	}

	return fromMode(info), nil
}

func fromFileInfo(info fs.FileInfo) Metadata {
	return fromMode(info)
}
