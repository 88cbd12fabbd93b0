// Package ir provides the typed expression tree consumed by the formula
// renderer.
//
// This package contains the node and value types only. All other internal
// packages import ir; ir imports nothing internal, so it stays the
// foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Every node carries a resolved NodeType (the upstream type checker owes
//     us that contract).
//   - NO float types anywhere: number literals are exact decimals.
//   - Literal text is NFC normalised at the decoding boundary so that both
//     backends and the content hash see identical code points.
//   - Node and Value are sealed interfaces (marker methods) so consumers can
//     switch exhaustively.
package ir
