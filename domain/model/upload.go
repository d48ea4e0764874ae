package model

import (
	"errors"
	"fmt"
)

// BaseChunkSize is the 5 MiB chunk cap TikTok's inbox upload contract uses.
// Files smaller than this are sent as a single chunk of the whole file.
const BaseChunkSize = 5 * 1024 * 1024

// ErrInvalidFileSize is returned when an upload is attempted with a
// non-positive byte length.
var ErrInvalidFileSize = errors.New("invalid_file_size")

// UploadPlan is the derived chunking layout for one upload. It is computed
// fresh from the file size on every request and never persisted.
//
// TikTok validates that the declared chunk size and chunk count match the
// bytes actually transferred, so the count is floor(size/base) and the
// remainder is folded into the last chunk rather than sent as an extra one.
type UploadPlan struct {
	TotalSize       int64
	BaseChunkSize   int64
	TotalChunkCount int64
	RemainderBytes  int64
}

// Chunk is one byte range of an UploadPlan. Start and End are 0-based and
// inclusive on both ends.
type Chunk struct {
	Index int64
	Start int64
	End   int64
}

// Length returns the number of bytes covered by the chunk.
func (c Chunk) Length() int64 { return c.End - c.Start + 1 }

// ContentRange renders the chunk as a Content-Range header value against the
// plan's total size.
func (p UploadPlan) ContentRange(c Chunk) string {
	return fmt.Sprintf("bytes %d-%d/%d", c.Start, c.End, p.TotalSize)
}

// NewUploadPlan computes the chunk layout for a file of the given size.
func NewUploadPlan(size int64) (UploadPlan, error) {
	if size <= 0 {
		return UploadPlan{}, ErrInvalidFileSize
	}
	base := int64(BaseChunkSize)
	if size < base {
		base = size
	}
	total := size / base
	if total < 1 {
		total = 1
	}
	return UploadPlan{
		TotalSize:       size,
		BaseChunkSize:   base,
		TotalChunkCount: total,
		RemainderBytes:  size - base*total,
	}, nil
}

// Chunks returns the sequential byte ranges of the plan. All chunks are
// BaseChunkSize long except the last, which absorbs the remainder. The sum
// of all lengths equals TotalSize exactly.
func (p UploadPlan) Chunks() []Chunk {
	chunks := make([]Chunk, 0, p.TotalChunkCount)
	var start int64
	for i := int64(0); i < p.TotalChunkCount; i++ {
		length := p.BaseChunkSize
		if i == p.TotalChunkCount-1 {
			length += p.RemainderBytes
		}
		end := start + length - 1
		chunks = append(chunks, Chunk{Index: i, Start: start, End: end})
		start = end + 1
	}
	return chunks
}
