package common

import (
	"fmt"
	"strings"
	"time"

	"fireblocks-signer-go/internal/models"
)

const (
	DefaultWidth = 80
	WideWidth    = 100
)

// PrintSeparator prints a separator line with the specified character and width
func PrintSeparator(char string, width int) {
	fmt.Println(strings.Repeat(char, width))
}

// PrintHeader prints a formatted header with title and separators
func PrintHeader(title string, width int) {
	fmt.Println("\n" + strings.Repeat("=", width))
	fmt.Println(title)
	PrintSeparator("=", width)
}

// PrintFooter prints a formatted footer with message and separators
func PrintFooter(message string, width int) {
	fmt.Println("\n" + strings.Repeat("=", width))
	fmt.Println(message)
	fmt.Println(strings.Repeat("=", width) + "\n")
}

// BoxPrefix returns the appropriate box-drawing prefix for list items
func BoxPrefix(isLast bool) string {
	if isLast {
		return "└  "
	}
	return "│  "
}

// BoxDetailPrefix returns the prefix for detail lines under list items
func BoxDetailPrefix(isLast bool) string {
	if isLast {
		return "   "
	}
	return "│  "
}

// ProgressLine renders one poll observation, e.g. "[  7s] 7f3c... SUBMITTED"
func ProgressLine(elapsed time.Duration, tx *models.TransactionResponse) string {
	return fmt.Sprintf("[%4ds] %s", int(elapsed.Round(time.Second).Seconds()), tx.String())
}

// PrintTransactionResult prints the final state of a polled transaction
func PrintTransactionResult(tx *models.TransactionResponse, signature string) {
	PrintHeader("TRANSACTION RESULT", DefaultWidth)
	fmt.Printf("Transaction ID: %s\n", tx.Id)
	fmt.Printf("Status:         %s\n", tx.Status)
	if tx.SubStatus != "" {
		fmt.Printf("Sub-status:     %s\n", tx.SubStatus)
	}
	if tx.TxHash != "" {
		fmt.Printf("Tx hash:        %s\n", tx.TxHash)
	}
	if signature != "" {
		fmt.Printf("Signature:      %s\n", signature)
	}
	if !tx.LastUpdatedTime().IsZero() {
		fmt.Printf("Last updated:   %s\n", tx.LastUpdatedTime().Format("2006-01-02 15:04:05"))
	}
	PrintSeparator("=", DefaultWidth)
}
