package commands

import (
	"bytes"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/ava12/svgrammar/source"
)

const maxFileSize = 1 << 20

func loadFile(name string) ([]byte, error) {
	stat, e := os.Stat(name)
	if e != nil {
		return nil, errors.Wrap(e, "reading source")
	}
	if stat.Size() > maxFileSize {
		return nil, errors.Errorf("%s: file too large (%d bytes)", name, stat.Size())
	}

	content, e := os.ReadFile(name)
	if e != nil {
		return nil, errors.Wrap(e, "reading source")
	}
	if !utf8.Valid(content) {
		return nil, errors.Errorf("%s: not a valid UTF-8 encoded text", name)
	}
	return content, nil
}

// loadSamples reads a source file. A file starting with separator prefix is a multi-sample file:
// its first line is the separator, each following line starting with the same
// non-blank prefix starts a new sample. The rest of a separator line is a comment.
func loadSamples(name, separator string) ([]*source.Source, error) {
	content, e := loadFile(name)
	if e != nil {
		return nil, e
	}

	if separator == "" || !bytes.HasPrefix(content, []byte(separator)) {
		return []*source.Source{source.New(name, content)}, nil
	}
	return splitSamples(name, content), nil
}

type lineEntry struct {
	firstPos, lastPos int
}

func splitSamples(name string, content []byte) []*source.Source {
	lines := contentLines(content)
	if len(lines) == 0 {
		return nil
	}

	var result []*source.Source
	separator := linePrefix(content[lines[0].firstPos:lines[0].lastPos])
	sampleIndex := 1
	lineIndex := 1
	for lineIndex < len(lines) {
		sample, lineCnt := sourceSample(content, lines[lineIndex:], separator)
		sampleName := fmt.Sprintf("%s#%d (lines %d-%d)", name, sampleIndex, lineIndex+1, lineIndex+lineCnt)
		result = append(result, source.New(sampleName, sample))
		sampleIndex++
		lineIndex += lineCnt + 1
	}
	return result
}

func contentLines(content []byte) []lineEntry {
	var result []lineEntry
	pos := 0
	for pos < len(content) {
		newPos := bytes.IndexByte(content[pos:], '\n')
		if newPos < 0 {
			result = append(result, lineEntry{pos, len(content)})
			break
		}

		result = append(result, lineEntry{pos, pos + newPos})
		pos += newPos + 1
	}
	return result
}

func linePrefix(line []byte) []byte {
	for i, b := range line {
		if b <= ' ' {
			return line[:i]
		}
	}
	return line
}

// sourceSample returns sample text up to the next separator line and the number of sample lines.
func sourceSample(content []byte, lines []lineEntry, separator []byte) ([]byte, int) {
	if len(lines) == 0 {
		return nil, 0
	}

	for i, entry := range lines {
		if bytes.HasPrefix(content[entry.firstPos:entry.lastPos], separator) {
			return content[lines[0].firstPos:entry.firstPos], i
		}
	}
	return content[lines[0].firstPos:], len(lines)
}
