package cryptographer

// truncateLength is the number of characters kept by truncate.
const truncateLength = 16

// truncate shortens s for display.
func truncate(s string) string {
	if len(s) <= truncateLength {
		return s
	}
	return s[:truncateLength] + "..."
}
