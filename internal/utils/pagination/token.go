package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

const (
	sequenceTokenKind = "seq"
	keyTokenKind      = "key"
)

// EncodeMultiFieldToken creates a token with any number of string fields
// This provides flexibility for different pagination strategies
func EncodeMultiFieldToken(fields ...string) string {
	tokenStr := strings.Join(fields, "|")
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeMultiFieldToken decodes a token into its component fields
func DecodeMultiFieldToken(token string) ([]string, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}

	tokenStr := string(decodedBytes)
	parts := strings.Split(tokenStr, "|")
	return parts, nil
}

// EncodeSequenceToken creates a token pointing after the given sequence number.
// Used by newest-first listings keyed on a monotonic sequence.
func EncodeSequenceToken(sequence int64) string {
	return EncodeMultiFieldToken(sequenceTokenKind, strconv.FormatInt(sequence, 10))
}

// DecodeSequenceToken parses a token created by EncodeSequenceToken.
func DecodeSequenceToken(token string) (int64, error) {
	parts, err := DecodeMultiFieldToken(token)
	if err != nil {
		return 0, err
	}
	if len(parts) != 2 || parts[0] != sequenceTokenKind {
		return 0, fmt.Errorf("invalid pagination token format (split)")
	}
	sequence, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid pagination token format (sequence parse): %w", err)
	}
	return sequence, nil
}

// EncodeKeyToken creates a token pointing after the given string key.
// Used by listings ordered by a natural key such as an item code.
func EncodeKeyToken(key string) string {
	return EncodeMultiFieldToken(keyTokenKind, key)
}

// DecodeKeyToken parses a token created by EncodeKeyToken.
func DecodeKeyToken(token string) (string, error) {
	parts, err := DecodeMultiFieldToken(token)
	if err != nil {
		return "", err
	}
	if len(parts) < 2 || parts[0] != keyTokenKind {
		return "", fmt.Errorf("invalid pagination token format (split)")
	}
	return strings.Join(parts[1:], "|"), nil
}
