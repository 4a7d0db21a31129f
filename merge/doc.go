// Package merge reconciles freshly generated Go source with a previously
// generated output file so hand-written additions survive regeneration.
//
// The engine aligns the two files by declaration name. Regenerated
// declarations always win; anything the generator did not produce (methods,
// functions, extra types, file-scope consts and vars, extra imports) is
// preserved and re-appended in its original order. Struct fields that are
// no longer generated are governed by a Strategy: abort, keep, or drop.
// Two escape hatches sit outside the strategy entirely:
//
//   - a jsctools:keep line comment pins a single struct field
//   - // CUSTOM CODE START ... // CUSTOM CODE END fences an opaque block
//     that is carried across regenerations verbatim
//
// Merged output is passed through gofmt-style formatting, which makes the
// operation idempotent: merging a file against its own merge output returns
// identical bytes.
//
// AtomicWriter completes the pipeline, publishing output with a temp-file
// rename so readers never see a partial file.
package merge
