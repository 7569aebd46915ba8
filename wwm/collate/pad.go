package collate

// paddedLength returns the rectangular width for a set of rows: the longest
// row length, rounded up to the configured multiple when one is set.
func paddedLength(rows [][]int64, multiple int) int {
	maxLen := 0
	for _, r := range rows {
		if len(r) > maxLen {
			maxLen = len(r)
		}
	}
	if multiple > 0 && maxLen%multiple != 0 {
		maxLen = (maxLen/multiple + 1) * multiple
	}
	return maxLen
}

// padRows right-pads every row with fill to width, returning fresh buffers.
func padRows(rows [][]int64, width int, fill int64) [][]int64 {
	out := make([][]int64, len(rows))
	for i, r := range rows {
		row := make([]int64, width)
		copy(row, r)
		for j := len(r); j < width; j++ {
			row[j] = fill
		}
		out[i] = row
	}
	return out
}
