package dataset

import "fmt"

// PadSequences brings every sequence to maxLen: longer ones lose their tail,
// shorter ones are right-padded with value.
func PadSequences(seqs [][]int, maxLen int, value int) [][]int {
	padded := make([][]int, len(seqs))
	for i, seq := range seqs {
		row := make([]int, maxLen)
		n := copy(row, seq)
		for j := n; j < maxLen; j++ {
			row[j] = value
		}
		padded[i] = row
	}
	return padded
}

// ToCategorical one-hot encodes seq over numClasses classes.
func ToCategorical(seq []int, numClasses int) ([][]float32, error) {
	matrix := make([][]float32, len(seq))
	for i, class := range seq {
		if class < 0 || class >= numClasses {
			return nil, fmt.Errorf("class %d out of range for %d classes", class, numClasses)
		}
		matrix[i] = make([]float32, numClasses)
		matrix[i][class] = 1
	}
	return matrix, nil
}
