package dataset

import (
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexCacheRoundTrip(t *testing.T) {
	d := loadDummy(t)
	path := filepath.Join(t.TempDir(), "indexes.cache")

	require.NoError(t, SaveIndexes(d.Indexes(), path))

	restored, err := LoadIndexes(path)
	require.NoError(t, err)
	assert.Equal(t, d.WordTypeToIndex, restored.Words)
	assert.Equal(t, d.TagTypeToIndex, restored.Tags)
}

func TestIndexCacheOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "indexes.cache")

	require.NoError(t, SaveIndexes(IndexMaps{
		Words: map[string]int{"a": 1, "b": 2, "ENDPAD": 3},
		Tags:  map[string]int{"O": 0, "B": 1},
	}, path))
	updated := IndexMaps{
		Words: map[string]int{"x": 1, "ENDPAD": 2},
		Tags:  map[string]int{"O": 0},
	}
	require.NoError(t, SaveIndexes(updated, path))

	restored, err := LoadIndexes(path)
	require.NoError(t, err)
	assert.Equal(t, updated, restored)
}

func TestLoadIndexesMissing(t *testing.T) {
	_, err := LoadIndexes(filepath.Join(t.TempDir(), "missing.cache"))
	assert.Error(t, err)
}

func TestIndexCacheLargeVocabulary(t *testing.T) {
	words := make(map[string]int, 800001)
	for i := 0; i < 800000; i++ {
		words["w"+strconv.Itoa(i)] = i + 1
	}
	words["ENDPAD"] = 800001
	idx := IndexMaps{Words: words, Tags: map[string]int{"O": 0, "B-Disease": 1}}
	path := filepath.Join(t.TempDir(), "indexes.cache")

	require.NoError(t, SaveIndexes(idx, path))

	restored, err := LoadIndexes(path)
	require.NoError(t, err)
	assert.Equal(t, idx, restored)
}

func TestIndexCacheLongAndEmptyTypes(t *testing.T) {
	long := strings.Repeat("x", 70000)
	idx := IndexMaps{
		Words: map[string]int{"a": 1, long: 2, "": 3, "ENDPAD": 4},
		Tags:  map[string]int{"O": 0, "": 1},
	}
	path := filepath.Join(t.TempDir(), "indexes.cache")

	require.NoError(t, SaveIndexes(idx, path))

	restored, err := LoadIndexes(path)
	require.NoError(t, err)
	assert.Equal(t, idx, restored)
}

func TestSaveIndexesRejectsGaps(t *testing.T) {
	idx := IndexMaps{
		Words: map[string]int{"a": 1, "b": 3},
		Tags:  map[string]int{"O": 0},
	}
	assert.Error(t, SaveIndexes(idx, filepath.Join(t.TempDir(), "indexes.cache")))
}

func TestWithIndexes(t *testing.T) {
	source := loadDummy(t)
	path := filepath.Join(t.TempDir(), "indexes.cache")
	require.NoError(t, SaveIndexes(source.Indexes(), path))
	idx, err := LoadIndexes(path)
	require.NoError(t, err)

	target, err := Load(Config{DatasetPath: writeDataset(t,
		"Human\tO\ngene\tO\n.\tO\n",
		"unilateral\tB-Disease\nretinoblastoma\tE-Disease\n")})
	require.NoError(t, err)

	transferred, err := target.WithIndexes(idx)
	require.NoError(t, err)
	assert.Equal(t, source.WordTypeToIndex, transferred.WordTypeToIndex)
	assert.Equal(t, source.TagTypeToIndex, transferred.TagTypeToIndex)
	assert.Equal(t, 27, transferred.WordTypeCount())
	assert.Equal(t, target.Train.Sentences, transferred.Train.Sentences)

	assert.Equal(t, source.WordTypeToIndex["Human"], transferred.Train.WordIdxSequence[0][0])
	assert.Equal(t, source.TagTypeToIndex["B-Disease"], transferred.Test.TagIdxSequence[0][0])
	assert.Equal(t, float32(1), transferred.Test.TagCategorical[0][1][source.TagTypeToIndex["E-Disease"]])

	seq, err := transferred.EncodeSentence([]string{"RB1"})
	require.NoError(t, err)
	assert.Equal(t, source.WordTypeToIndex["RB1"], seq[0])

	// the target keeps its own indices
	assert.Equal(t, 6, target.WordTypeCount())
}

func TestWithIndexesUnmappedType(t *testing.T) {
	source := loadDummy(t)
	target, err := Load(Config{DatasetPath: writeDataset(t, "Human\tO\nkinase\tO\n", "gene\tO\n")})
	require.NoError(t, err)

	_, err = target.WithIndexes(source.Indexes())
	assert.ErrorIs(t, err, ErrUnknownType)

	var vocabErr *VocabularyError
	require.True(t, errors.As(err, &vocabErr))
	assert.Equal(t, "kinase", vocabErr.Type)

	target, err = Load(Config{DatasetPath: writeDataset(t, "Human\tO\n", "gene\tB-Gene\n")})
	require.NoError(t, err)
	_, err = target.WithIndexes(source.Indexes())
	assert.ErrorIs(t, err, ErrUnknownType)
}
