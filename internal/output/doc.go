// Package output projects a model card's section model into concrete
// formats.
//
// # Adapters
//
// Every adapter reads the finished report.Card (and chart.Charts where
// charts are drawn) and never formats or classifies a value itself:
//
//   - RenderMarkup: static HTML with collapsible sections
//   - RenderBrief / RenderDetailed: plain text
//   - RenderInteractive: a Component tree, plus RenderInteractivePage to
//     draw it in a browser
//   - Formatter: YAML or JSON encoding of the model, charts or tree
//
// A section whose Present flag is false produces no bytes in any adapter.
//
// # Styling
//
// Colours come from TierStyles, keyed by classify.Tier. No adapter matches
// raw status, severity or quality strings.
//
// # Visibility
//
// Which sections are expanded is view state held in a Visibility set. It is
// passed into the adapters and never stored in the section model.
//
// # Files
//
// WriteFile writes a finished rendering atomically and reports failures as
// *WriteError.
package output
