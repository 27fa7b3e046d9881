// Package pagesplit locates logical page boundaries inside filing HTML and
// splits the document into per-page fragments.
//
// EDGAR filings mark page breaks inconsistently: some use <hr> rules, some
// use CSS page-break directives, and generated filings often fake a page
// separator with a full-width div wrapping a single top-bordered div. The
// splitter detects all of these, injects a synthetic marker element before
// each, and then splits the serialized document at the marker positions.
//
// Splitting works on string offsets rather than tree positions because
// marker insertion can produce nesting that no longer round-trips through a
// DOM serializer; offset arithmetic keeps every byte of page content intact
// regardless of how broken the source markup is.
package pagesplit
