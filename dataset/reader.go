package dataset

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const maxLineBytes = 1 << 20

type Pair struct {
	Word string
	Tag  string
}

type Sentence []Pair

// ParseError reports a row with more fields than the schema declares.
type ParseError struct {
	Path   string
	Line   int
	Fields int
	Want   int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: expected at most %d fields, found %d", e.Path, e.Line, e.Want, e.Fields)
}

// Table is the flat, row-per-token view of one or more partitions. A row
// shorter than the schema has missing cells, which MergeTables fills.
type Table struct {
	Schema Schema
	Rows   [][]string
	Labels []string // partition label of each row
}

// PartitionData is the result of a single read of a partition file: its rows
// and the length of every blank-line separated sentence in file order.
type PartitionData struct {
	Name         string
	Path         string
	Table        Table
	SentenceLens []int
}

func normalizer(form string) (func(string) string, error) {
	switch strings.ToLower(form) {
	case "":
		return func(s string) string { return s }, nil
	case "nfc":
		return norm.NFC.String, nil
	case "nfkc":
		return norm.NFKC.String, nil
	}
	return nil, fmt.Errorf("%w: unknown normalization form %q", ErrInvalidConfig, form)
}

// ReadPartition reads the partition file at path once. Every non-empty line is
// a table row, even one holding only whitespace; every empty line closes the
// current sentence. The sentence still
// open at EOF is always closed too, so a file ending in a blank line yields an
// empty last sentence.
func ReadPartition(name, path string, config Config) (*PartitionData, error) {
	config = config.WithDefaults()
	schema := config.Schema()
	normalize, err := normalizer(config.Normalize)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open partition %s: %w", name, err)
	}
	defer f.Close()

	data := &PartitionData{Name: name, Path: path, Table: Table{Schema: schema}}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo, current := 0, 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
			if config.Header {
				continue
			}
		}
		if line == "" {
			data.SentenceLens = append(data.SentenceLens, current)
			current = 0
			continue
		}

		fields := strings.Split(line, config.Sep)
		if len(fields) > schema.Width() {
			return nil, &ParseError{Path: path, Line: lineNo, Fields: len(fields), Want: schema.Width()}
		}
		for i := range fields {
			fields[i] = normalize(fields[i])
		}
		data.Table.Rows = append(data.Table.Rows, fields)
		data.Table.Labels = append(data.Table.Labels, name)
		current++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("unable to read partition %s: %w", name, err)
	}
	data.SentenceLens = append(data.SentenceLens, current)

	return data, nil
}

// MergeTables concatenates the tables in order and fills each missing cell
// with the nearest preceding value of the same column. A cell with no
// preceding value stays empty.
func MergeTables(tables ...Table) Table {
	merged := Table{}
	if len(tables) > 0 {
		merged.Schema = tables[0].Schema
	}
	width := merged.Schema.Width()
	last := make([]string, width)
	for _, t := range tables {
		for i, row := range t.Rows {
			filled := make([]string, width)
			for col := 0; col < width; col++ {
				if col < len(row) {
					filled[col] = row[col]
					last[col] = row[col]
				} else {
					filled[col] = last[col]
				}
			}
			merged.Rows = append(merged.Rows, filled)
			merged.Labels = append(merged.Labels, t.Labels[i])
		}
	}
	return merged
}

// Partition returns the rows carrying label, in order.
func (t Table) Partition(label string) [][]string {
	rows := make([][]string, 0)
	for i, row := range t.Rows {
		if t.Labels[i] == label {
			rows = append(rows, row)
		}
	}
	return rows
}

// Column returns every value of column col.
func (t Table) Column(col int) []string {
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[col]
	}
	return values
}

// Segment groups rows into sentences of the given lengths.
func Segment(rows [][]string, lens []int, schema Schema) ([]Sentence, error) {
	sentences := make([]Sentence, 0, len(lens))
	pos := 0
	for _, n := range lens {
		if pos+n > len(rows) {
			return nil, fmt.Errorf("sentence lengths cover %d rows, table has %d", pos+n, len(rows))
		}
		sentence := make(Sentence, 0, n)
		for _, row := range rows[pos : pos+n] {
			sentence = append(sentence, Pair{Word: row[schema.WordField], Tag: row[schema.TagField]})
		}
		sentences = append(sentences, sentence)
		pos += n
	}
	if pos != len(rows) {
		return nil, fmt.Errorf("sentence lengths cover %d rows, table has %d", pos, len(rows))
	}
	return sentences, nil
}
