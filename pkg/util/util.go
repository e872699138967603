package util

import (
	"strings"

	"github.com/a-h/templ/lsp/protocol"
	"github.com/a-h/templ/lsp/uri"
)

const fileScheme = "file"

// IsFileURI reports whether u refers to a document on the local file system.
func IsFileURI(u protocol.DocumentURI) bool {
	scheme, _, ok := strings.Cut(string(u), ":")
	return ok && strings.EqualFold(scheme, fileScheme)
}

// Filename returns the file system path of a file URI, or "" for any other scheme.
func Filename(u protocol.DocumentURI) string {
	if !IsFileURI(u) {
		return ""
	}
	return uri.New(string(u)).Filename()
}

// SameFile reports whether two URIs point at the same file. Editors are not
// consistent about percent-encoding, so paths are compared rather than the
// raw strings.
func SameFile(a, b protocol.DocumentURI) bool {
	if a == b {
		return true
	}
	pa, pb := Filename(a), Filename(b)
	return pa != "" && pa == pb
}
