// Package htmltext is a text-mode rendering backend. It lays HTML out
// as wrapped, styled terminal lines: headings bold, links underlined,
// images as placeholders carrying their fetched byte counts.
//
// The engine implements the orchestrator's ImageStager, StyleImporter,
// FragmentScroller and AnchorReporter capabilities and intentionally
// nothing more, so it doubles as the reference for how hosts behave
// when a capability is absent. Text hosts read the rendered window via
// Text instead of pixel frames.
package htmltext
