package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCompound(t *testing.T) {
	other := writeDataset(t, "foo\tO\nHuman\tB-Gene\n", "bar\tO\n")

	datasets, err := LoadCompound([]Config{
		{DatasetPath: dummyDatasetPath},
		{DatasetPath: other, MaxSeqLen: 10},
	}, 2)
	require.NoError(t, err)
	require.Len(t, datasets, 2)

	// 26 dummy words, the pad word, then foo and bar
	for _, d := range datasets {
		assert.Equal(t, 29, d.WordTypeCount())
		assert.Len(t, d.WordTypeToIndex, 29)
	}
	assert.Equal(t, datasets[0].WordTypeToIndex, datasets[1].WordTypeToIndex)

	assert.ElementsMatch(t, dummyTagTypes, datasets[0].TagTypes)
	assert.ElementsMatch(t, []string{"O", "B-Gene"}, datasets[1].TagTypes)

	second := datasets[1]
	assert.Equal(t, second.WordTypeToIndex["Human"], second.Train.WordIdxSequence[0][1])
	assert.Len(t, second.Train.WordIdxSequence[0], 10)

	seq, err := datasets[0].EncodeSentence([]string{"foo", "Human"})
	require.NoError(t, err)
	assert.Equal(t, datasets[0].WordTypeToIndex["foo"], seq[0])
}

func TestLoadCompoundFailure(t *testing.T) {
	_, err := LoadCompound([]Config{
		{DatasetPath: dummyDatasetPath},
		{DatasetPath: t.TempDir()},
	}, 1)
	assert.ErrorIs(t, err, ErrFilesNotFound)

	_, err = LoadCompound(nil, 1)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
