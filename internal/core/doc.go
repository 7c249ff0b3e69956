// Package core resolves CSV sheets into typed rows and answers queries over them.
//
// This package has no transport dependencies. It is used by the web server,
// the sheetctl CLI, and tests alike.
//
// # Sheets
//
// A sheet is CSV text with three header rows (index, field names, field
// types) followed by data rows. [ExtractSchema] splits the headers from the
// data, and the [Service] materializes data rows into [Row] values:
//
//   - cells are coerced to numbers, bools, null, or strings ([Coerce])
//   - "Foo[0]", "Foo[1]" columns are reassembled into a list under "Foo"
//   - columns whose type is a registered linkable sheet ([LinkableTypes])
//     hold row indexes, replaced by the referenced row while depth remains
//
// # Caching
//
// Parsed sheets are cached before materialization, so one entry serves
// callers asking for any recursion depth. Concurrent misses for the same
// sheet share one fetch, and a [FetchLimiter] bounds fetches overall.
// [Service.StartCacheJanitor] sweeps expired entries in the background.
//
// # Queries
//
// [Service.Search] combines a fuzzy name match, structured filters
// ([ParseFilters]), and column projection ([Project]):
//
//	res, err := svc.Search(ctx, "Item", core.SearchOptions{
//	    SearchTerm: "potion",
//	    Filters:    []string{"LevelItem>=50"},
//	    Columns:    []string{"Name", "ItemUICategory.Name"},
//	})
//
// A filter or projection path that does not exist in a row is not an
// error: the filter fails and the projected leaf is left out.
//
// # Error Handling
//
// Errors wrap sentinels such as [ErrSheetNotFound] and [ErrMalformedFilter].
// [MapError] turns them into user-facing messages with a support code:
//
//   - SHEET001-SHEET003: sheet errors (missing, malformed, bad name)
//   - QRY001: query errors
//   - UPS001-UPS002: upstream errors (fetch failures, too many fetches)
//   - REQ001-REQ002: request errors (cancelled, timed out)
package core
