package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

// EncodeLineToken creates a base64 encoded cursor for statement line pagination.
// Lines are ordered by (transaction_date, line_number), so both fields make up
// the cursor.
func EncodeLineToken(transactionDate time.Time, lineNumber int) string {
	tokenStr := fmt.Sprintf("%s|%d", transactionDate.Format(timeFormat), lineNumber)
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeLineToken parses a statement line cursor back into its fields.
func DecodeLineToken(token string) (time.Time, int, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (split)")
	}

	transactionDate, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (transaction date parse): %w", err)
	}

	lineNumber, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (line number parse): %w", err)
	}

	return transactionDate, lineNumber, nil
}

// EncodeTimeIDToken creates a cursor from a timestamp and a row id tie-breaker.
// Used for statement, reconciliation, and audit listings ordered by
// (created_at, id).
func EncodeTimeIDToken(createdAt time.Time, id string) string {
	tokenStr := fmt.Sprintf("%s|%s", createdAt.Format(timeFormat), id)
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeTimeIDToken parses a (created_at, id) cursor back into its fields.
func DecodeTimeIDToken(token string) (time.Time, string, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (split)")
	}

	createdAt, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}

	return createdAt, parts[1], nil
}
