package dataset

import (
	"errors"
	"fmt"
)

// Word indices start at 1 so that 0 is free for sequence padding.
const (
	WordIndexOffset = 1
	TagIndexOffset  = 0
)

var ErrUnknownType = errors.New("type missing from index")

type TypeKind int

const (
	WordType TypeKind = iota
	TagType
)

func (k TypeKind) String() string {
	if k == TagType {
		return "tag"
	}
	return "word"
}

type VocabularyError struct {
	Kind TypeKind
	Type string
}

func (e *VocabularyError) Error() string {
	return fmt.Sprintf("%s type %q has no index", e.Kind, e.Type)
}

func (e *VocabularyError) Unwrap() error {
	return ErrUnknownType
}

func distinct(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	types := make([]string, 0)
	for _, v := range values {
		if _, exists := seen[v]; !exists {
			seen[v] = struct{}{}
			types = append(types, v)
		}
	}
	return types
}

// ExtractTypes returns the distinct word and tag types of t in order of first
// appearance, with padWord appended to the word types.
func ExtractTypes(t Table, padWord string) ([]string, []string, error) {
	words := distinct(t.Column(t.Schema.WordField))
	tags := distinct(t.Column(t.Schema.TagField))
	for _, w := range words {
		if w == padWord {
			return nil, nil, fmt.Errorf("pad word %q occurs in the data", padWord)
		}
	}
	words = append(words, padWord)
	return words, tags, nil
}

// IndexTypes assigns consecutive indices starting at offset, in list order.
func IndexTypes(types []string, offset int) map[string]int {
	index := make(map[string]int, len(types))
	for i, t := range types {
		index[t] = i + offset
	}
	return index
}

func InvertIndex(index map[string]int) map[int]string {
	inverse := make(map[int]string, len(index))
	for t, i := range index {
		inverse[i] = t
	}
	return inverse
}

// TypeIndexSequence maps every word (or tag) of every sentence to its index.
func TypeIndexSequence(sentences []Sentence, kind TypeKind, index map[string]int) ([][]int, error) {
	seqs := make([][]int, len(sentences))
	for i, sentence := range sentences {
		seqs[i] = make([]int, len(sentence))
		for j, pair := range sentence {
			t := pair.Word
			if kind == TagType {
				t = pair.Tag
			}
			idx, ok := index[t]
			if !ok {
				return nil, &VocabularyError{Kind: kind, Type: t}
			}
			seqs[i][j] = idx
		}
	}
	return seqs, nil
}

// typesByIndex lists the types of index in index order. The indices must run
// from offset to offset+len(index)-1 without gaps.
func typesByIndex(index map[string]int, offset int) ([]string, error) {
	types := make([]string, len(index))
	filled := make([]bool, len(index))
	for t, i := range index {
		pos := i - offset
		if pos < 0 || pos >= len(types) || filled[pos] {
			return nil, fmt.Errorf("index %d of %q is outside %d..%d or taken twice", i, t, offset, offset+len(index)-1)
		}
		types[pos] = t
		filled[pos] = true
	}
	return types, nil
}
