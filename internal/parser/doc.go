// Package parser turns query text into an ast.Tree.
//
// The accepted language is a small SQL-like DSL:
//
//	SELECT name AS n, age FROM users WHERE age > 21 & (name = 'bob' | vip = true) SORT age DESC LIMIT 10
//
// Every boolean level is emitted as an ast.Operation, even when it has a
// single operand. Option words after the filter are lower-cased and passed
// through unvalidated; the query normalizer rejects unknown ones.
package parser
