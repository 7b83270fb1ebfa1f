package ledger

import "fmt"

// Finding ids are global across the lifetime of the store; weakness ids
// restart at W-001 every invocation and are only meaningful within it.

func formatFindingID(n int) string {
	return fmt.Sprintf("F-%03d", n)
}

func formatWeaknessID(n int) string {
	return fmt.Sprintf("W-%03d", n)
}
