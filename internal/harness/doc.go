// Package harness runs scripted desk sessions against a real ledger.
//
// A scenario is a YAML file listing desk operations stamped at fixed
// instants, followed by assertions on the final ledger and on reports
// computed over it. Scenarios double as executable documentation of the
// custody rules.
//
// # Scenario Format
//
//	name: walkthrough
//	description: "Check in, check out twice, report the day"
//	timezone: UTC
//	start: "2024-03-04T09:00:00Z"
//	steps:
//	  - op: check_in
//	    person: 1001
//	    asset: PC-7
//	    issue: "Hardware Failure: won't boot"
//	    expect: { transaction: 1 }
//	  - op: check_out
//	    advance: 2h30m
//	    transaction: 1
//	    expect: { changed: true }
//	assertions:
//	  - type: transaction
//	    transaction: 1
//	    status: closed
//	  - type: report
//	    report:
//	      start: "2024-03-04"
//	      rows:
//	        - { period: "2024-03-04", check_in: 1, check_out: 1, total: 2 }
//
// # Operations
//
//   - check_in: person, asset, issue or issue_type; optional name, address
//   - check_out: transaction
//   - upsert_person: person, name, address
//   - ensure_person: person
//   - ensure_asset: asset
//
// A step may set the clock with at (RFC 3339) and then move it with
// advance (a Go duration). An expect clause can name the returned
// transaction id, the returned changed flag, or an error class
// (validation or integrity).
//
// # Assertion Types
//
//   - transaction: the status of one transaction (open, closed, missing)
//   - active: the number of open transactions, optionally filtered by search
//   - completed: the number of closed transactions
//   - report: the aggregate rows and optional summary of a report
//
// # Deterministic Testing
//
// The harness uses:
//   - An in-memory SQLite database (isolated per run)
//   - A manual clock (testutil.ManualClock)
//   - Sequential references (testutil.SequentialReferences)
//
// This ensures identical snapshots across runs for golden file comparison.
package harness
