// Package render compiles typed formula trees into JavaScript and SQL
// expressions.
//
// Rendering happens in two phases. Compile walks the tree once, resolves
// every operator and function against the catalog and checks that each
// node's declared type is what the resolved overload returns. A formula
// with a type error produces no output at all. The resulting Plan renders
// any backend and mode without failing and without further lookups, so
// one Plan can serve concurrent renders.
//
// Leaves render directly:
//
//	literal text    JS "a\"b"          SQL 'a''b'
//	literal number  JS 1.5             SQL 1.5
//	literal bool    JS true            SQL TRUE
//	field           JS record["name"]  SQL "name"
package render
