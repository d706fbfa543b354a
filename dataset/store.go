package dataset

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
)

// Store writes the named partition back out in CoNLL format, one token per
// line and a blank line between sentences. Reading the file back yields the
// same sentences.
func (d *Dataset) Store(name, fname string) error {
	partition, err := d.Partition(name)
	if err != nil {
		return err
	}

	f, err := os.Create(fname)
	if err != nil {
		return fmt.Errorf("unable to create %s: %w", fname, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i, sentence := range partition.Sentences {
		if i > 0 {
			if _, err := w.WriteString("\n"); err != nil {
				return err
			}
		}
		for _, pair := range sentence {
			if _, err := fmt.Fprintf(w, "%s%s%s\n", pair.Word, d.Config.Sep, pair.Tag); err != nil {
				return err
			}
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("unable to write %s: %w", fname, err)
	}
	return f.Close()
}

// Shuffled returns a copy of the partition with its sentences and their
// encodings permuted together. The receiver is left untouched.
func (p *Partition) Shuffled(r *rand.Rand) *Partition {
	perm := r.Perm(len(p.Sentences))
	shuffled := &Partition{
		Name:            p.Name,
		Path:            p.Path,
		Sentences:       make([]Sentence, len(perm)),
		WordIdxSequence: make([][]int, len(perm)),
		TagIdxSequence:  make([][]int, len(perm)),
		TagCategorical:  make([][][]float32, len(perm)),
	}
	for i, j := range perm {
		shuffled.Sentences[i] = p.Sentences[j]
		shuffled.WordIdxSequence[i] = p.WordIdxSequence[j]
		shuffled.TagIdxSequence[i] = p.TagIdxSequence[j]
		shuffled.TagCategorical[i] = p.TagCategorical[j]
	}
	return shuffled
}

// Len is 0 for a nil partition.
func (p *Partition) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Sentences)
}
