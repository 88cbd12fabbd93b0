// Package overload resolves operator and function names against observed
// operand types.
//
// Operators and functions are declared as ordered lists of definitions per
// name. Order is load-bearing: the matcher scans the list front to back and
// the first definition that accepts the observed types wins, so the most
// specific definition must come first.
//
// OPERAND SPECS:
//
// OperandSpec is a closed tagged variant dispatched by a single function:
//
//	Any()        both operands must share a type; which type is unconstrained
//	Exact(T)     both operands must be exactly T
//	Set(T1..Tn)  each operand must individually belong to the set
//
// RENDER FUNCTIONS:
//
// Each definition carries one pure RenderFunc per backend. Render functions
// receive already rendered operand snippets and return a snippet in the
// same dialect; they hold no mutable state and are safe to call from any
// goroutine.
package overload
