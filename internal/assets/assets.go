// Package assets exposes the files embedded in the devdash binary.
package assets

import (
	"io/fs"

	"github.com/pkg/errors"
)

const (
	// TemplatesDir holds the sample batch files.
	TemplatesDir = "data/templates"
	// ReportExample is the sample batch file printed by "devdash report example".
	ReportExample = TemplatesDir + "/report-example.yaml"
)

var efs fs.FS

func GetData() fs.FS {
	return efs
}

func UpdateData(d fs.FS) {
	efs = d
}

// ReadFile returns an embedded file.
func ReadFile(name string) ([]byte, error) {
	if efs == nil {
		return nil, errors.New("embedded data is not loaded")
	}
	b, err := fs.ReadFile(efs, name)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read embedded file %s", name)
	}
	return b, nil
}

// GetAllFilenames return all file names from an path in embeded EFS.
func GetAllFilenames(efs fs.FS, path string) (files []string, err error) {
	if efs == nil {
		return nil, errors.New("embedded data is not loaded")
	}
	if err := fs.WalkDir(efs, path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		files = append(files, path)

		return nil
	}); err != nil {
		return nil, err
	}

	return files, nil
}
