// Package ir provides the literal value model shared by the query AST and
// the normalized query.
//
// This package contains value types only. All other internal packages
// import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Value is a sealed sum type (Null, String, Int, Float, Bool, Array, Object)
//   - Integral numbers are always Int, never Float
//   - Canonical JSON (RFC 8785) is the only encoding used for identity hashing
package ir
