package dataset

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	TrainPartition = "train"
	ValidPartition = "valid"
	TestPartition  = "test"
)

var (
	ErrInvalidPartition = errors.New("partition must be one of 'train', 'valid' or 'test'")
	ErrMissingPartition = errors.New("partition not present in dataset")
)

// Partition holds one split of the dataset. Every encoded row has exactly
// MaxSeqLen entries.
type Partition struct {
	Name      string
	Path      string
	Sentences []Sentence

	WordIdxSequence [][]int       // sentences x max_seq_len
	TagIdxSequence  [][]int       // sentences x max_seq_len, padded with the outside tag
	TagCategorical  [][][]float32 // sentences x max_seq_len x tag types
}

// Dataset is a fully loaded train/test dataset, with an optional valid
// partition. It is only ever returned
// complete by Load and is not modified afterwards.
type Dataset struct {
	LoadID uuid.UUID
	Config Config

	Table     Table // merged partition rows, missing cells filled
	WordTypes []string
	TagTypes  []string

	WordTypeToIndex map[string]int
	TagTypeToIndex  map[string]int
	IndexToWord     map[int]string
	IndexToTag      map[int]string

	Train *Partition
	Valid *Partition // nil without a valid.* file
	Test  *Partition
}

func (d *Dataset) WordTypeCount() int {
	return len(d.WordTypes)
}

func (d *Dataset) TagTypeCount() int {
	return len(d.TagTypes)
}

// Partitions returns the partitions present, in train, valid, test order.
func (d *Dataset) Partitions() []*Partition {
	partitions := make([]*Partition, 0, 3)
	for _, p := range []*Partition{d.Train, d.Valid, d.Test} {
		if p != nil {
			partitions = append(partitions, p)
		}
	}
	return partitions
}

func (d *Dataset) setPartition(p *Partition) {
	switch p.Name {
	case TrainPartition:
		d.Train = p
	case ValidPartition:
		d.Valid = p
	case TestPartition:
		d.Test = p
	}
}

// Load reads the partition files under config.DatasetPath and encodes them
// with one vocabulary. On error nothing is returned.
func Load(config Config) (*Dataset, error) {
	config = config.WithDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	loadID := uuid.New()
	logger := slog.With("load_id", loadID.String(), "dir", config.DatasetPath)
	start := time.Now()
	logger.Info("loading dataset")

	paths, err := ResolvePartitions(config.DatasetPath)
	if err != nil {
		return nil, err
	}
	files := []struct{ name, path string }{
		{TrainPartition, paths.Train},
		{ValidPartition, paths.Valid},
		{TestPartition, paths.Test},
	}
	read := make([]*PartitionData, 0, len(files))
	tables := make([]Table, 0, len(files))
	for _, file := range files {
		if file.path == "" {
			continue
		}
		data, err := ReadPartition(file.name, file.path, config)
		if err != nil {
			return nil, err
		}
		read = append(read, data)
		tables = append(tables, data.Table)
	}

	table := MergeTables(tables...)
	wordTypes, tagTypes, err := ExtractTypes(table, config.PadWord)
	if err != nil {
		return nil, err
	}

	d := &Dataset{
		LoadID:          loadID,
		Config:          config,
		Table:           table,
		WordTypes:       wordTypes,
		TagTypes:        tagTypes,
		WordTypeToIndex: IndexTypes(wordTypes, WordIndexOffset),
		TagTypeToIndex:  IndexTypes(tagTypes, TagIndexOffset),
	}
	d.IndexToWord = InvertIndex(d.WordTypeToIndex)
	d.IndexToTag = InvertIndex(d.TagTypeToIndex)

	for _, data := range read {
		sentences, err := Segment(table.Partition(data.Name), data.SentenceLens, table.Schema)
		if err != nil {
			return nil, fmt.Errorf("unable to segment partition %s: %w", data.Name, err)
		}
		if n := len(sentences); n > 0 && len(sentences[n-1]) == 0 {
			logger.Warn("partition ends with an empty sentence", "partition", data.Name, "path", data.Path)
		}
		partition, err := d.encodePartition(data.Name, data.Path, sentences)
		if err != nil {
			return nil, err
		}
		d.setPartition(partition)
	}

	logger.Info("dataset loaded",
		"elapsed", time.Since(start),
		"word_types", d.WordTypeCount(),
		"tag_types", d.TagTypeCount(),
		"train_sentences", d.Train.Len(),
		"valid_sentences", d.Valid.Len(),
		"test_sentences", d.Test.Len(),
	)
	return d, nil
}

func (d *Dataset) encodePartition(name, path string, sentences []Sentence) (*Partition, error) {
	maxLen := d.Config.MaxSeqLen

	wordSeqs, err := TypeIndexSequence(sentences, WordType, d.WordTypeToIndex)
	if err != nil {
		return nil, fmt.Errorf("unable to encode %s words: %w", name, err)
	}
	tagSeqs, err := TypeIndexSequence(sentences, TagType, d.TagTypeToIndex)
	if err != nil {
		return nil, fmt.Errorf("unable to encode %s tags: %w", name, err)
	}
	tagPad, ok := d.TagTypeToIndex[d.Config.OutsideTag]
	if !ok {
		return nil, fmt.Errorf("unable to pad %s tags: %w", name, &VocabularyError{Kind: TagType, Type: d.Config.OutsideTag})
	}

	partition := &Partition{
		Name:            name,
		Path:            path,
		Sentences:       sentences,
		WordIdxSequence: PadSequences(wordSeqs, maxLen, 0),
		TagIdxSequence:  PadSequences(tagSeqs, maxLen, tagPad),
	}
	partition.TagCategorical = make([][][]float32, len(partition.TagIdxSequence))
	for i, seq := range partition.TagIdxSequence {
		matrix, err := ToCategorical(seq, d.TagTypeCount())
		if err != nil {
			return nil, fmt.Errorf("unable to one-hot encode %s tags: %w", name, err)
		}
		partition.TagCategorical[i] = matrix
	}
	return partition, nil
}

func (d *Dataset) Partition(name string) (*Partition, error) {
	switch name {
	case TrainPartition:
		return d.Train, nil
	case ValidPartition:
		if d.Valid == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingPartition, name)
		}
		return d.Valid, nil
	case TestPartition:
		return d.Test, nil
	}
	return nil, fmt.Errorf("%w, got %q", ErrInvalidPartition, name)
}

// TagCategorical returns the one-hot tag sequences of the named partition.
func (d *Dataset) TagCategorical(name string) ([][][]float32, error) {
	partition, err := d.Partition(name)
	if err != nil {
		return nil, err
	}
	return partition.TagCategorical, nil
}

// EncodeSentence maps new text onto the loaded word indices, padded or
// truncated to MaxSeqLen. There is no unknown-word fallback.
func (d *Dataset) EncodeSentence(words []string) ([]int, error) {
	normalize, err := normalizer(d.Config.Normalize)
	if err != nil {
		return nil, err
	}
	seq := make([]int, len(words))
	for i, w := range words {
		w = normalize(w)
		idx, ok := d.WordTypeToIndex[w]
		if !ok {
			return nil, &VocabularyError{Kind: WordType, Type: w}
		}
		seq[i] = idx
	}
	return PadSequences([][]int{seq}, d.Config.MaxSeqLen, 0)[0], nil
}

// DecodeTags turns a sequence of tag indices back into tag types.
func (d *Dataset) DecodeTags(seq []int) ([]string, error) {
	tags := make([]string, len(seq))
	for i, idx := range seq {
		tag, ok := d.IndexToTag[idx]
		if !ok {
			return nil, fmt.Errorf("tag index %d has no type", idx)
		}
		tags[i] = tag
	}
	return tags, nil
}
