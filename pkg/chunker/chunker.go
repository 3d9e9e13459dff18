// Package chunker splits documents into transport-sized pieces without
// cutting a UTF-8 encoded character in half.
package chunker

import (
	"fmt"
	"unicode/utf8"

	"github.com/aretw0/rdrscript/pkg/domain"
)

// DefaultSize is the largest payload sent in a single write.
const DefaultSize = 1024

// ErrChunking is returned when no complete character fits in a chunk.
var ErrChunking = domain.ErrChunking

// Next returns the largest prefix of buf that is at most max bytes long and
// ends on a character boundary. An empty buf yields an empty chunk.
func Next(buf []byte, max int) ([]byte, error) {
	if max <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d", ErrChunking, max)
	}
	if len(buf) == 0 {
		return buf[:0], nil
	}

	end := 0
	for end < len(buf) {
		r, size := utf8.DecodeRune(buf[end:])
		if r == utf8.RuneError && size <= 1 {
			break
		}
		if end+size > max {
			break
		}
		end += size
	}

	if end == 0 {
		return nil, fmt.Errorf("%w: offset 0 of %d bytes", ErrChunking, len(buf))
	}
	return buf[:end], nil
}

// Split cuts buf into consecutive chunks produced by Next.
func Split(buf []byte, max int) ([][]byte, error) {
	var chunks [][]byte
	for off := 0; off < len(buf); {
		chunk, err := Next(buf[off:], max)
		if err != nil {
			return chunks, fmt.Errorf("at offset %d: %w", off, err)
		}
		chunks = append(chunks, chunk)
		off += len(chunk)
	}
	return chunks, nil
}
