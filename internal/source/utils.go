package source

import (
	"bytes"
	"fmt"
	"path/filepath"
	"unicode/utf8"

	"fortio.org/safecast"
)

// hasCRLF сообщает, есть ли в содержимом хотя бы один "\r\n".
func hasCRLF(content []byte) bool {
	return bytes.Contains(content, []byte("\r\n"))
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}

	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}

	return content, false
}

// buildLineIndex returns the byte offsets of every '\n' in content.
func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, len(content)/32+1)
	for i, b := range content {
		if b == '\n' {
			out = append(out, toU32(i))
		}
	}
	return out
}

// lineStart returns the byte offset where the 0-based line begins.
func lineStart(lineIdx []uint32, line int) uint32 {
	if line <= 0 {
		return 0
	}
	return lineIdx[line-1] + 1
}

// toLineCol converts a byte offset to a 1-based line and a 1-based column that
// counts code points, not bytes. A '\r' directly before '\n' is not counted.
func toLineCol(content []byte, lineIdx []uint32, off uint32) LineCol {
	lenContent := toU32(len(content))
	if off > lenContent {
		off = lenContent
	}

	// бинпоиск: находим количество '\n' строго до off
	lo, hi := 0, len(lineIdx)
	for lo < hi {
		mid := (lo + hi) >> 1
		if lineIdx[mid] < off {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	line := lo // 0-based

	start := lineStart(lineIdx, line)
	col := utf8.RuneCount(content[start:off])
	return LineCol{
		Line: toU32(line + 1),
		Col:  toU32(col + 1),
	}
}

func toU32(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("offset overflow: %w", err))
	}
	return v
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}
