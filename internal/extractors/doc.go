// Package extractors turns uploaded document blobs into plain text.
//
// Each sub-package handles one family of MIME types. A Registry selects
// the first registered extractor that supports the content type.
package extractors
