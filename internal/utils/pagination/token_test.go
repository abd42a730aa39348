package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeLineToken(t *testing.T) {
	// Standard values
	transactionDate := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	token := EncodeLineToken(transactionDate, 42)
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedDate, decodedLine, err := DecodeLineToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, transactionDate, decodedDate, "Transaction date should match after decode")
	assert.Equal(t, 42, decodedLine, "Line number should match after decode")

	// Zero values
	zeroToken := EncodeLineToken(time.Time{}, 0)
	decodedZeroDate, decodedZeroLine, err := DecodeLineToken(zeroToken)
	assert.NoError(t, err, "Decoding zero values should not return an error")
	assert.True(t, decodedZeroDate.IsZero(), "Zero date should match after decode")
	assert.Equal(t, 0, decodedZeroLine, "Zero line number should match after decode")
}

func TestDecodeLineTokenError(t *testing.T) {
	// Invalid base64
	_, _, err := DecodeLineToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode", "Error should mention base64 decoding")

	// Missing separator
	_, _, err = DecodeLineToken("MjAyNi0wMy0xNVQwMDowMDowMFo=")
	assert.Error(t, err, "Should return an error for a token without a separator")
	assert.Contains(t, err.Error(), "split", "Error should mention splitting issue")

	// Non-numeric line number: "2026-03-15T00:00:00Z|abc"
	_, _, err = DecodeLineToken("MjAyNi0wMy0xNVQwMDowMDowMFp8YWJj")
	assert.Error(t, err, "Should return an error for a non-numeric line number")
	assert.Contains(t, err.Error(), "line number parse", "Error should mention line number parsing")
}

func TestEncodeDecodeTimeIDToken(t *testing.T) {
	createdAt := time.Date(2026, 3, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeTimeIDToken(createdAt, "rec-1")
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedAt, decodedID, err := DecodeTimeIDToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, createdAt, decodedAt, "Created at should match after decode")
	assert.Equal(t, "rec-1", decodedID, "ID should match after decode")
}

func TestDecodeTimeIDTokenError(t *testing.T) {
	_, _, err := DecodeTimeIDToken("%%%")
	assert.Error(t, err, "Should return an error for invalid base64")

	// Non-time prefix: "notatime|rec-1"
	_, _, err = DecodeTimeIDToken("bm90YXRpbWV8cmVjLTE=")
	assert.Error(t, err, "Should return an error for an unparseable timestamp")
	assert.Contains(t, err.Error(), "created_at parse", "Error should mention timestamp parsing")
}
