package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kari-ner/conllset/dataset"
)

var (
	configFile = flag.String("c", "./config.yaml", "Path to the config file")
)

func summarize(d *dataset.Dataset) {
	slog.Info("dataset summary",
		"dir", d.Config.DatasetPath,
		"word_types", d.WordTypeCount(),
		"tag_types", d.TagTypeCount(),
		"max_seq_len", d.Config.MaxSeqLen,
		"train_shape", fmt.Sprintf("(%d, %d)", d.Train.Len(), d.Config.MaxSeqLen),
		"valid_sentences", d.Valid.Len(),
		"test_shape", fmt.Sprintf("(%d, %d, %d)", d.Test.Len(), d.Config.MaxSeqLen, d.TagTypeCount()),
	)
}

// indexCache reuses the index maps at path when it already exists and
// re-encodes every dataset with them. Otherwise the maps of the first dataset
// are saved there.
func indexCache(datasets []*dataset.Dataset, path string) ([]*dataset.Dataset, error) {
	if path == "" {
		return datasets, nil
	}
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("unable to stat index cache: %w", err)
		}
		if err := dataset.SaveIndexes(datasets[0].Indexes(), path); err != nil {
			return nil, err
		}
		slog.Info("saved index maps", "path", path)
		return datasets, nil
	}

	idx, err := dataset.LoadIndexes(path)
	if err != nil {
		return nil, err
	}
	reindexed := make([]*dataset.Dataset, len(datasets))
	for i, d := range datasets {
		if reindexed[i], err = d.WithIndexes(idx); err != nil {
			return nil, fmt.Errorf("unable to apply index maps from %s to %s: %w", path, d.Config.DatasetPath, err)
		}
	}
	slog.Info("reused index maps", "path", path, "word_types", len(idx.Words), "tag_types", len(idx.Tags))
	return reindexed, nil
}

// export stores every partition of every dataset under outputDir. Members of
// a compound dataset each get their own subdirectory.
func export(datasets []*dataset.Dataset, outputDir string) error {
	if outputDir == "" {
		return nil
	}
	for i, d := range datasets {
		dir := outputDir
		if len(datasets) > 1 {
			dir = filepath.Join(outputDir, fmt.Sprintf("%d_%s", i, filepath.Base(d.Config.DatasetPath)))
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("unable to create output dir: %w", err)
		}
		for _, p := range d.Partitions() {
			if err := d.Store(p.Name, filepath.Join(dir, p.Name+".tsv")); err != nil {
				return err
			}
		}
		slog.Info("stored partitions", "dir", dir)
	}
	return nil
}

// Extra dataset directories given as arguments are loaded together with the
// configured one as a compound dataset sharing one word index.
func runApp() error {
	flag.Parse()

	config, err := dataset.LoadConfig(*configFile)
	if err != nil {
		return err
	}

	var datasets []*dataset.Dataset
	if flag.NArg() == 0 {
		d, err := dataset.Load(config)
		if err != nil {
			return err
		}
		datasets = []*dataset.Dataset{d}
	} else {
		configs := []dataset.Config{config}
		for _, dir := range flag.Args() {
			extra := config
			extra.DatasetPath = dir
			configs = append(configs, extra)
		}
		if datasets, err = dataset.LoadCompound(configs, config.Workers); err != nil {
			return err
		}
	}

	if datasets, err = indexCache(datasets, config.IndexCachePath); err != nil {
		return err
	}
	for _, d := range datasets {
		summarize(d)
	}
	return export(datasets, config.OutputDir)
}

func main() {
	if err := runApp(); err != nil {
		slog.Error("load failed", "error", err)
		os.Exit(1)
	}
}
