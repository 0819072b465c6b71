// Package report renders final account balances as CSV.
//
// Output columns are client, available, held, total, locked. Rows are
// sorted by client ID and every amount carries exactly four fractional
// digits, so the same run always produces byte-identical output.
package report
