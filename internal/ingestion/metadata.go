package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Metadata describes an ingested job description.
type Metadata struct {
	Source    string `json:"source,omitempty"` // file path or URL
	Timestamp string `json:"timestamp"`        // RFC3339
	Hash      string `json:"hash"`             // SHA256 of the cleaned text
	Chars     int    `json:"chars"`
}

// NewMetadata creates Metadata for cleaned content with the current timestamp.
func NewMetadata(content string, source string) *Metadata {
	return &Metadata{
		Source:    source,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      ComputeHash(content),
		Chars:     len([]rune(content)),
	}
}

// ComputeHash returns the hex SHA256 digest of content.
func ComputeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to pretty-printed JSON.
func (m *Metadata) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}
