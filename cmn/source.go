package cmn

import (
	"fmt"
	"os"
	"path/filepath"
)

// ParserIterateOverSource calls cb with the content of sourcePath,
// or of every file below it when it is a directory. Files are visited in lexical order.
func ParserIterateOverSource(
	sourcePath string,
	cb func(path string, fc []byte) error,
) error {

	var err error
	var fi os.FileInfo
	var di []os.DirEntry
	var fc []byte

	if fi, err = os.Stat(sourcePath); err != nil {
		return err
	}

	if fi.IsDir() {
		if di, err = os.ReadDir(sourcePath); err != nil {
			return err
		}
		for _, e := range di {
			if err = ParserIterateOverSource(
				filepath.Join(sourcePath, e.Name()), cb); err != nil {
				return err
			}
		}
		return nil
	}

	if fc, err = os.ReadFile(sourcePath); err != nil {
		return err
	}
	if len(fc) == 0 {
		return fmt.Errorf("%s - empty file content", sourcePath)
	}
	return cb(sourcePath, fc)
}
