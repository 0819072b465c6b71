// Package ingest parses the CSV transaction feed into model transactions.
//
// The feed is streamed one record at a time; nothing is buffered beyond the
// current record, so input size does not affect memory use. Unusable records
// surface as *RecordError values the caller can log and skip, keeping one
// bad row from aborting the run.
package ingest
