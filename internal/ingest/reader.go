package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/avelor/settler/internal/model"
)

// RecordError reports one unusable input record. It is recoverable: the
// reader stays positioned at the next record, so the caller can log the
// error and keep going.
type RecordError struct {
	// Record is the 1-based record number in the input, counting the
	// header row if one is present.
	Record int

	// Msg describes what was wrong with the record.
	Msg string

	// Err is the underlying parse error, if any.
	Err error
}

// Error implements the error interface.
func (e *RecordError) Error() string {
	msg := fmt.Sprintf("record %d: %s", e.Record, e.Msg)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the underlying cause to errors.Is/errors.As.
func (e *RecordError) Unwrap() error {
	return e.Err
}

// Reader streams transactions out of a CSV feed with columns
// type, client, tx, amount. A header row is skipped when present.
// Dispute, resolve and chargeback records carry no amount of their own;
// three-column records are accepted for them and a spurious fourth column
// is ignored.
type Reader struct {
	csv         *csv.Reader
	record      int
	checkHeader bool
}

// NewReader wraps r. Field counts are not enforced by the CSV layer so
// three-column dispute records pass through; leading whitespace inside
// fields is trimmed.
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true
	return &Reader{csv: cr, checkHeader: true}
}

// Next returns the next transaction in the feed. It returns io.EOF once the
// input is exhausted. A *RecordError covers exactly one bad record; any
// other error means the input itself failed and reading cannot continue.
func (r *Reader) Next() (model.Transaction, error) {
	for {
		fields, err := r.csv.Read()
		if errors.Is(err, io.EOF) {
			return model.Transaction{}, io.EOF
		}
		r.record++
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return model.Transaction{}, &RecordError{Record: r.record, Msg: "malformed CSV", Err: err}
			}
			return model.Transaction{}, err
		}

		if r.checkHeader {
			r.checkHeader = false
			if strings.EqualFold(strings.TrimSpace(fields[0]), "type") {
				continue
			}
		}

		return r.parse(fields)
	}
}

// parse converts one raw record. All values are copied out of fields before
// returning; the backing array is reused by the next Read.
func (r *Reader) parse(fields []string) (model.Transaction, error) {
	if len(fields) < 3 {
		return model.Transaction{}, r.errorf(nil, "want at least 3 fields, got %d", len(fields))
	}
	if len(fields) > 4 {
		return model.Transaction{}, r.errorf(nil, "want at most 4 fields, got %d", len(fields))
	}

	kindName := strings.TrimSpace(fields[0])
	kind, ok := model.KindFromString(kindName)
	if !ok {
		return model.Transaction{}, r.errorf(nil, "unknown transaction type %q", kindName)
	}

	client, err := strconv.ParseUint(strings.TrimSpace(fields[1]), 10, 16)
	if err != nil {
		return model.Transaction{}, r.errorf(err, "bad client ID %q", fields[1])
	}

	txID, err := strconv.ParseUint(strings.TrimSpace(fields[2]), 10, 32)
	if err != nil {
		return model.Transaction{}, r.errorf(err, "bad transaction ID %q", fields[2])
	}

	tx := model.Transaction{
		Kind:     kind,
		ClientID: uint16(client),
		TxID:     uint32(txID),
	}

	if kind.HasAmount() {
		if len(fields) < 4 || strings.TrimSpace(fields[3]) == "" {
			return model.Transaction{}, r.errorf(nil, "%s without an amount", kind)
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(fields[3]))
		if err != nil {
			return model.Transaction{}, r.errorf(err, "bad amount %q", fields[3])
		}
		// Excess precision is discarded here, once, so every balance
		// downstream carries at most four fractional digits. The positive
		// check runs after truncation: an amount too small to survive it
		// is a zero, not money.
		amount = amount.Truncate(model.DisplayPrecision)
		if amount.Sign() <= 0 {
			return model.Transaction{}, r.errorf(nil, "amount must be positive, got %q", fields[3])
		}
		tx.Amount = &amount
	}

	return tx, nil
}

func (r *Reader) errorf(cause error, format string, args ...any) *RecordError {
	return &RecordError{Record: r.record, Msg: fmt.Sprintf(format, args...), Err: cause}
}
