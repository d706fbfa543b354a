package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const dummyDatasetPath = "testdata/dummy_dataset"

var (
	dummyWordTypes = []string{"Human", "APC2", "maps", "to", "chromosome", ".",
		"19p13", "and", "Opsonization", "generation", "of", "chemotactic",
		"activity", "functioned", "normally", "Constitutional", "RB1", "-", "gene",
		"mutations", "in", "patients", "with", "isolated", "unilateral", "retinoblastoma",
		"ENDPAD"}
	dummyTagTypes = []string{"O", "B-Disease", "E-Disease"}

	dummyTrainSentences = []Sentence{
		{{"Human", "O"}, {"APC2", "O"}, {"maps", "O"}, {"to", "O"}, {"chromosome", "O"}, {"19p13", "O"}, {".", "O"}},
		{{"Opsonization", "O"}, {"and", "O"}, {"generation", "O"}, {"of", "O"}, {"chemotactic", "O"},
			{"activity", "O"}, {"functioned", "O"}, {"normally", "O"}, {".", "O"}},
	}
	dummyTestSentences = []Sentence{
		{{"Constitutional", "O"}, {"RB1", "O"}, {"-", "O"}, {"gene", "O"}, {"mutations", "O"}, {"in", "O"},
			{"patients", "O"}, {"with", "O"}, {"isolated", "O"}, {"unilateral", "B-Disease"},
			{"retinoblastoma", "E-Disease"}, {".", "O"}},
	}
)

// writeDataset creates a dataset directory holding train.tsv and test.tsv.
func writeDataset(t *testing.T, train, test string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "train.tsv"), []byte(train), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.tsv"), []byte(test), 0o644))
	return dir
}

func writeFile(t *testing.T, contents string) string {
	t.Helper()
	fname := filepath.Join(t.TempDir(), "partition.tsv")
	require.NoError(t, os.WriteFile(fname, []byte(contents), 0o644))
	return fname
}

func loadDummy(t *testing.T) *Dataset {
	t.Helper()
	d, err := Load(Config{DatasetPath: dummyDatasetPath})
	require.NoError(t, err)
	return d
}
