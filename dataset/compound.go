package dataset

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// LoadCompound loads every dataset concurrently, at most workers at a time,
// then gives all of them one shared word index built from the pooled word
// types. Tag indices stay per dataset. Results are in the order of configs.
func LoadCompound(configs []Config, workers int) ([]*Dataset, error) {
	if len(configs) == 0 {
		return nil, fmt.Errorf("%w: no datasets to load", ErrInvalidConfig)
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("unable to start loader pool: %w", err)
	}
	defer pool.Release()

	datasets := make([]*Dataset, len(configs))
	errs := make([]error, len(configs))
	wg := sync.WaitGroup{}
	for i := range configs {
		i := i
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			datasets[i], errs[i] = Load(configs[i])
		})
		if submitErr != nil {
			wg.Done()
			errs[i] = fmt.Errorf("unable to schedule %s: %w", configs[i].DatasetPath, submitErr)
		}
	}
	wg.Wait()
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	pooled := make([]string, 0)
	for _, d := range datasets {
		pooled = append(pooled, d.WordTypes...)
	}
	pooled = distinct(pooled)

	compound := make([]*Dataset, len(datasets))
	for i, d := range datasets {
		shared, err := d.reindex(pooled, d.TagTypes)
		if err != nil {
			return nil, fmt.Errorf("unable to re-encode %s: %w", d.Config.DatasetPath, err)
		}
		compound[i] = shared
	}
	slog.Info("compound dataset loaded", "datasets", len(compound), "word_types", len(pooled))
	return compound, nil
}

// reindex returns a copy of d indexed by words and tags, with every partition
// encoded again. A type of d missing from either list is a VocabularyError.
func (d *Dataset) reindex(words, tags []string) (*Dataset, error) {
	shared := *d
	shared.WordTypes = words
	shared.TagTypes = tags
	shared.WordTypeToIndex = IndexTypes(words, WordIndexOffset)
	shared.TagTypeToIndex = IndexTypes(tags, TagIndexOffset)
	shared.IndexToWord = InvertIndex(shared.WordTypeToIndex)
	shared.IndexToTag = InvertIndex(shared.TagTypeToIndex)
	shared.Train, shared.Valid, shared.Test = nil, nil, nil

	for _, p := range d.Partitions() {
		encoded, err := shared.encodePartition(p.Name, p.Path, p.Sentences)
		if err != nil {
			return nil, err
		}
		shared.setPartition(encoded)
	}
	return &shared, nil
}
