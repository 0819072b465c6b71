package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"

	"github.com/avelor/settler/internal/model"
)

// header is the first output row.
var header = []string{"client", "available", "held", "total", "locked"}

// Writer renders account snapshots to one destination. It is built for a
// single WriteAccounts call at the end of a run and is not safe for
// concurrent use.
type Writer struct {
	out    io.Writer
	logger *slog.Logger
}

// NewWriter returns a Writer emitting to out. A nil logger falls back to
// slog.Default().
func NewWriter(out io.Writer, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{out: out, logger: logger}
}

// WriteAccounts emits the header and one row per snapshot, sorted by
// client ID. The input slice is not modified.
func (w *Writer) WriteAccounts(snaps []model.AccountSnapshot) error {
	sorted := make([]model.AccountSnapshot, len(snaps))
	copy(sorted, snaps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ClientID < sorted[j].ClientID })

	cw := csv.NewWriter(w.out)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, snap := range sorted {
		row := []string{
			strconv.FormatUint(uint64(snap.ClientID), 10),
			snap.Available.StringFixed(model.DisplayPrecision),
			snap.Held.StringFixed(model.DisplayPrecision),
			snap.Total.StringFixed(model.DisplayPrecision),
			strconv.FormatBool(snap.Locked),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write client %d: %w", snap.ClientID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}

	w.logger.Debug("report written", "accounts", len(sorted))
	return nil
}
