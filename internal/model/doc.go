// Package model provides the record types shared by the desk ledger.
//
// This package contains type definitions and input parsing only. All other
// internal packages import model; model imports nothing internal.
//
// Key design constraints:
//   - Person identifiers are externally supplied positive integers
//   - Asset identifiers are free-text tokens (no case or format rules)
//   - Transaction identifiers are assigned by the store and never reused
//   - All timestamps are UTC; calendar dates are resolved by the caller's location
//   - All JSON tags use snake_case
package model
