package insts

// Match scans the instruction table in order and returns the first entry
// that recognises word, together with the number of bytes consumed.
//
// Match is total: a word recognised by no real entry returns the sentinel
// entry (FormatUnknown). The consumed count is InsnLength in both cases, so
// callers tell the two apart by the returned format.
func Match(word uint32) (Entry, int) {
	for i := range table {
		if table[i].Matches(word) {
			return table[i], InsnLength
		}
	}

	// Unreachable while the table ends with its sentinel.
	return table[len(table)-1], InsnLength
}
