package scan

import (
	"time"
)

// Request represents a blob scan over one or more files
type Request struct {
	Paths []string

	// Kinds restricts the scan to symmetric and/or rsa blobs, empty means all
	Kinds []string

	// Workers bounds how many files are scanned concurrently
	Workers int

	// MaxFileSize skips files larger than this many bytes, 0 disables the check
	MaxFileSize int64

	// Timeout bounds the whole scan, 0 uses the context default
	Timeout time.Duration
}

// Response represents scan results across all files
type Response struct {
	Files      []FileResult  `json:"files" yaml:"files"`
	TotalBlobs int           `json:"total_blobs" yaml:"total_blobs"`
	Failed     int           `json:"failed" yaml:"failed"`
	ScanTime   time.Duration `json:"scan_time" yaml:"scan_time"`
}

// FileResult holds the blobs found in one file
type FileResult struct {
	Path  string       `json:"path" yaml:"path"`
	Size  int64        `json:"size" yaml:"size"`
	Blobs []BlobResult `json:"blobs" yaml:"blobs"`
	Error string       `json:"error,omitempty" yaml:"error,omitempty"`
}

// BlobResult describes a key blob found inside a file
type BlobResult struct {
	Offset    int    `json:"offset" yaml:"offset"`
	Length    int    `json:"length" yaml:"length"`
	BlobType  string `json:"blob_type" yaml:"blob_type"`
	Algorithm string `json:"algorithm" yaml:"algorithm"`
	Kind      string `json:"kind" yaml:"kind"`
	Label     string `json:"label" yaml:"label"`
	BitLen    int    `json:"bit_len" yaml:"bit_len"`
	KeyID     string `json:"key_id" yaml:"key_id"`
}
