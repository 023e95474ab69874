// Package changelog turns changelog fragments into changelog entries.
//
// This package implements:
//   - Creating a new fragment file from the configured template
//   - Parsing rst and Markdown fragments into category sections
//   - Merging fragments in configured category order
//   - Rendering an entry and inserting it into the changelog at the insert marker
//   - Terminal preview of a collected entry
//
// All behavior is driven by a resolved config.Config.
package changelog
