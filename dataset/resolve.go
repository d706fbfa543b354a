package dataset

import (
	"errors"
	"fmt"
	"path/filepath"
)

const (
	TrainFilePattern = "train.*"
	ValidFilePattern = "valid.*"
	TestFilePattern  = "test.*"
)

var (
	ErrFilesNotFound  = errors.New("dataset files not found")
	ErrAmbiguousFiles = errors.New("ambiguous dataset files")
)

// ResolutionError reports a partition pattern that did not match exactly one
// file in the dataset directory.
type ResolutionError struct {
	Dir     string
	Pattern string
	Matches []string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("expected exactly one file matching %s in %s, found %d %v", e.Pattern, e.Dir, len(e.Matches), e.Matches)
}

func (e *ResolutionError) Unwrap() error {
	if len(e.Matches) == 0 {
		return ErrFilesNotFound
	}
	return ErrAmbiguousFiles
}

func resolve(dir, pattern string, optional bool) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return "", fmt.Errorf("bad partition pattern %s: %w", pattern, err)
	}
	if optional && len(matches) == 0 {
		return "", nil
	}
	if len(matches) != 1 {
		return "", &ResolutionError{Dir: dir, Pattern: pattern, Matches: matches}
	}
	return matches[0], nil
}

// PartitionPaths are the partition files of a dataset directory. Valid is
// empty when the directory has no valid.* file.
type PartitionPaths struct {
	Train string
	Valid string
	Test  string
}

// ResolvePartitions finds the train, test and optional valid files of the
// dataset at dir.
func ResolvePartitions(dir string) (PartitionPaths, error) {
	paths := PartitionPaths{}
	var err error
	if paths.Train, err = resolve(dir, TrainFilePattern, false); err != nil {
		return PartitionPaths{}, err
	}
	if paths.Valid, err = resolve(dir, ValidFilePattern, true); err != nil {
		return PartitionPaths{}, err
	}
	if paths.Test, err = resolve(dir, TestFilePattern, false); err != nil {
		return PartitionPaths{}, err
	}
	return paths, nil
}
