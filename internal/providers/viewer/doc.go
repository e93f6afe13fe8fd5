// Package viewer previews regular files.
//
// A file is classified as an image (by content sniffing), binary (it
// contains a NUL byte), or text. Text that is not valid UTF-8 is decoded
// from the charset chardet detects, falling back to Mac Roman, which
// accepts any byte sequence. Files beyond the preview limit are
// truncated.
package viewer
