package dataset

import (
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/VictoriaMetrics/fastcache"
)

const (
	indexCacheBytes    = 128 << 20 // 128 MB
	indexCacheAttempts = 3
	entryOverhead      = 128 // key, chunk metadata and bucket headers per type
)

// IndexMaps are the type to index maps an inference component needs to
// encode new text the same way the training data was encoded.
type IndexMaps struct {
	Words map[string]int
	Tags  map[string]int
}

func (d *Dataset) Indexes() IndexMaps {
	return IndexMaps{Words: d.WordTypeToIndex, Tags: d.TagTypeToIndex}
}

// WithIndexes returns a copy of d encoded with the given index maps, such as
// the maps of a source dataset restored by LoadIndexes. Every type in d must
// be present in idx.
func (d *Dataset) WithIndexes(idx IndexMaps) (*Dataset, error) {
	words, err := typesByIndex(idx.Words, WordIndexOffset)
	if err != nil {
		return nil, fmt.Errorf("unusable word index: %w", err)
	}
	tags, err := typesByIndex(idx.Tags, TagIndexOffset)
	if err != nil {
		return nil, fmt.Errorf("unusable tag index: %w", err)
	}
	return d.reindex(words, tags)
}

func setCount(key []byte, value int, cache *fastcache.Cache) {
	bits := make([]byte, 8)
	binary.LittleEndian.PutUint64(bits, uint64(value))
	cache.Set(key, bits)
}

func getCount(key []byte, cache *fastcache.Cache) (int, bool) {
	bits, exists := cache.HasGet(nil, key)
	if !exists || len(bits) != 8 {
		return 0, false
	}
	return int(binary.LittleEndian.Uint64(bits)), true
}

func typeKey(prefix string, i int) []byte {
	return []byte(prefix + "#" + strconv.Itoa(i))
}

// Types are stored with a leading marker byte so an empty type can be told
// apart from a missing entry. SetBig splits anything over 64KB into chunks.
func setType(key []byte, t string, cache *fastcache.Cache) {
	cache.SetBig(key, append([]byte{'='}, t...))
}

func getType(key []byte, cache *fastcache.Cache) (string, bool) {
	value := cache.GetBig(nil, key)
	if len(value) == 0 || value[0] != '=' {
		return "", false
	}
	return string(value[1:]), true
}

func storeIndex(prefix string, types []string, offset int, cache *fastcache.Cache) {
	setCount([]byte("count:"+prefix), len(types), cache)
	for i, t := range types {
		setType(typeKey(prefix, i+offset), t, cache)
	}
}

// verifyIndex reads back every entry written by storeIndex. fastcache drops
// entries silently when a bucket overflows.
func verifyIndex(prefix string, types []string, offset int, cache *fastcache.Cache) error {
	if count, ok := getCount([]byte("count:"+prefix), cache); !ok || count != len(types) {
		return fmt.Errorf("index cache dropped the %s count", prefix)
	}
	missing := 0
	for i, t := range types {
		if stored, ok := getType(typeKey(prefix, i+offset), cache); !ok || stored != t {
			missing++
		}
	}
	if missing > 0 {
		return fmt.Errorf("index cache dropped %d of %d %s entries", missing, len(types), prefix)
	}
	return nil
}

func restoreIndex(prefix string, offset int, cache *fastcache.Cache) (map[string]int, error) {
	count, ok := getCount([]byte("count:"+prefix), cache)
	if !ok {
		return nil, fmt.Errorf("index cache has no %s count", prefix)
	}
	index := make(map[string]int, count)
	for i := offset; i < offset+count; i++ {
		t, exists := getType(typeKey(prefix, i), cache)
		if !exists {
			return nil, fmt.Errorf("index cache is missing %s index %d", prefix, i)
		}
		if _, dup := index[t]; dup {
			return nil, fmt.Errorf("index cache holds %s type %q twice", prefix, t)
		}
		index[t] = i
	}
	return index, nil
}

func cacheSize(types ...[]string) int {
	estimate := 0
	for _, list := range types {
		for _, t := range list {
			estimate += len(t) + entryOverhead
		}
	}
	if estimate*4 > indexCacheBytes {
		return estimate * 4
	}
	return indexCacheBytes
}

// SaveIndexes persists both index maps to a fastcache snapshot at path. The
// snapshot is only written once every entry has been read back.
func SaveIndexes(idx IndexMaps, path string) error {
	words, err := typesByIndex(idx.Words, WordIndexOffset)
	if err != nil {
		return fmt.Errorf("unable to save word index: %w", err)
	}
	tags, err := typesByIndex(idx.Tags, TagIndexOffset)
	if err != nil {
		return fmt.Errorf("unable to save tag index: %w", err)
	}

	maxBytes := cacheSize(words, tags)
	for attempt := 1; ; attempt++ {
		cache := fastcache.New(maxBytes)
		storeIndex("word", words, WordIndexOffset, cache)
		storeIndex("tag", tags, TagIndexOffset, cache)

		err := verifyIndex("word", words, WordIndexOffset, cache)
		if err == nil {
			err = verifyIndex("tag", tags, TagIndexOffset, cache)
		}
		if err == nil {
			saveErr := cache.SaveToFile(path)
			cache.Reset()
			if saveErr != nil {
				return fmt.Errorf("unable to save index cache to %s: %w", path, saveErr)
			}
			return nil
		}
		cache.Reset()
		if attempt == indexCacheAttempts {
			return fmt.Errorf("unable to save index cache to %s: %w", path, err)
		}
		maxBytes *= 2
	}
}

// LoadIndexes restores the index maps saved by SaveIndexes.
func LoadIndexes(path string) (IndexMaps, error) {
	cache, err := fastcache.LoadFromFile(path)
	if err != nil {
		return IndexMaps{}, fmt.Errorf("unable to load index cache from %s: %w", path, err)
	}
	defer cache.Reset()

	words, err := restoreIndex("word", WordIndexOffset, cache)
	if err != nil {
		return IndexMaps{}, err
	}
	tags, err := restoreIndex("tag", TagIndexOffset, cache)
	if err != nil {
		return IndexMaps{}, err
	}
	return IndexMaps{Words: words, Tags: tags}, nil
}
