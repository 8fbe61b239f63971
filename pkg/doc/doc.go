// Package doc compiles nested declarative block trees into serialized
// documents.
//
// A tree is built from the sealed Value variants: scalars, ordered
// sequences, blocks (ordered field mappings), and lazy closures. Compile
// walks the tree depth-first and streams it into one of a closed set of
// encodings (JSON by default, YAML, MsgPack).
//
// Key guarantees:
//   - Field insertion order within a block is emission order; re-setting a
//     field updates it in place without moving its position.
//   - Set treats dotted field names literally ("a.b" is one key);
//     SetPath is the explicit opt-in for dot-driven nesting.
//   - Compiling the same tree twice yields byte-identical output.
//   - Errors are never swallowed: any failure aborts the whole compile.
//
// The package is stateless across calls; concurrent compiles of
// independent trees need no locking.
package doc
