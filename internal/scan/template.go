package scan

const (
	includePrefix = "#include <"
	includeSuffix = ">//"
)

// BOM is the UTF-8 byte order mark. A leading BOM is not part of the first
// line and must stay at the very start of the file.
const BOM = "\xEF\xBB\xBF"

// BOMLen returns the length of a leading BOM in text, or 0.
func BOMLen(text []byte) int {
	if len(text) >= len(BOM) && string(text[:len(BOM)]) == BOM {
		return len(BOM)
	}
	return 0
}

// HeaderLine renders the one line the tool writes for header. The scanner
// only recognizes lines in exactly this form, so files rewritten by the tool
// can be compared byte for byte.
func HeaderLine(header string) string {
	return includePrefix + header + includeSuffix + "\n"
}
