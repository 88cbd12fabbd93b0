// Package codegen builds target-dialect expression text.
//
// It owns literal quoting for both backends and the runtime branch ladder
// used wherever a value is only known when generated code executes (date
// units, dynamic format strings). Every ladder in the repository is emitted
// through Ladder so the JS and SQL shapes cannot drift apart.
package codegen
