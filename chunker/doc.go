// Package chunker repacks sanitized filing text into size-bounded chunks.
//
// The packer is a single pass over paragraphs with a two-state machine
// (scanning prose, scanning a table). Pipe-delimited table rows are
// buffered into table blocks that move between chunks as one atomic piece,
// so a table is never torn apart unless it alone exceeds the chunk size.
// Prose lines are batched and sent to the sentence oracle in one combined
// call per batch; the returned sentences are re-attributed to their source
// lines by length-weighted partitioning, which is approximate by design.
//
// The chunker never fails on malformed input; at worst it returns a single
// oversized chunk. The only error it can surface is an unavailable
// sentence oracle.
package chunker
