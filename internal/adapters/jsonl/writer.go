package jsonl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// Write encodes items one JSON object per line.
func Write[T any](w io.Writer, items []T) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	for i, it := range items {
		if err := enc.Encode(it); err != nil {
			return fmt.Errorf("encode item %d: %w", i, err)
		}
	}
	return bw.Flush()
}
