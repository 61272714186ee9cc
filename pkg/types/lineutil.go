package types

// ComputeLineColumn computes line and column numbers from a byte offset in
// content. Lines and columns are 1-indexed (first line is 1, first column
// is 1). Analysis passes that report byte offsets are converted through this
// before querying suppression.
func ComputeLineColumn(content []byte, byteOffset int) (line, column int) {
	line = 1
	column = 1
	for i := 0; i < byteOffset && i < len(content); i++ {
		if content[i] == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return line, column
}

// OffsetRange converts a half-open byte offset span [start, end) in content
// into a Range for the given file.
func OffsetRange(file FileID, content []byte, start, end int) Range {
	startLine, startCol := ComputeLineColumn(content, start)
	endLine, endCol := ComputeLineColumn(content, end)
	return Range{
		File:  file,
		Start: Position{Line: startLine, Column: startCol},
		Stop:  Position{Line: endLine, Column: endCol},
	}
}
