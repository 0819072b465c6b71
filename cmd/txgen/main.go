// txgen generates a random CSV transaction feed for load testing.
// Usage: go run ./cmd/txgen -out feed.csv -clients 50 -count 100000 -seed 7
//
// The feed is mostly well formed: disputes reference logged transactions
// of the right client, resolves and chargebacks reference open disputes.
// A small share of rejects still occurs naturally (overdrawn withdrawals,
// transactions against locked accounts), which is the point of the tool.
package main

import (
	"encoding/csv"
	"flag"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avelor/settler/internal/model"
)

func main() {
	out := flag.String("out", "-", "output path, - for stdout")
	clients := flag.Int("clients", 50, "number of distinct clients")
	count := flag.Int("count", 100000, "number of records to generate")
	seed := flag.Int64("seed", 0, "RNG seed, 0 picks one from the clock")
	flag.Parse()

	// Data goes to stdout when -out is "-", so logs go to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *clients < 1 || *clients > 65535 {
		logger.Error("clients must be between 1 and 65535", "clients", *clients)
		os.Exit(1)
	}
	if *count < 1 {
		logger.Error("count must be >= 1", "count", *count)
		os.Exit(1)
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	dst := os.Stdout
	if *out != "-" {
		f, err := os.Create(*out)
		if err != nil {
			logger.Error("failed to create output", "error", err)
			os.Exit(1)
		}
		defer f.Close()
		dst = f
	}

	logger.Info("generating feed",
		"records", *count,
		"clients", *clients,
		"seed", *seed,
	)

	if err := generate(dst, rng, *clients, *count); err != nil {
		logger.Error("generation failed", "error", err)
		os.Exit(1)
	}

	logger.Info("feed written", "out", *out)
}

// txRef names one logged transaction for later reference records.
type txRef struct {
	client uint16
	txID   uint32
}

func generate(out io.Writer, rng *rand.Rand, clients, count int) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"type", "client", "tx", "amount"}); err != nil {
		return err
	}

	var (
		funded       []txRef
		disputed     []txRef
		underDispute = make(map[uint32]bool)
		nextTx       uint32
	)

	// fundingRecord logs a fresh deposit or withdrawal for a random client.
	fundingRecord := func(kind model.TransactionKind) []string {
		nextTx++
		client := uint16(rng.Intn(clients) + 1)
		ceiling := int64(500_000) // deposits up to 5000.00
		if kind == model.KindWithdrawal {
			ceiling = 20_000 // withdrawals up to 200.00
		}
		amount := decimal.New(1+rng.Int63n(ceiling), -2)
		funded = append(funded, txRef{client: client, txID: nextTx})
		return []string{kind.String(), formatID(uint64(client)), formatID(uint64(nextTx)), amount.String()}
	}

	// referenceRecord reuses the logged client so the record is valid.
	referenceRecord := func(kind model.TransactionKind, ref txRef) []string {
		return []string{kind.String(), formatID(uint64(ref.client)), formatID(uint64(ref.txID))}
	}

	for i := 0; i < count; i++ {
		var record []string
		switch kind := pickKind(rng, len(funded), len(disputed)); kind {
		case model.KindDeposit, model.KindWithdrawal:
			record = fundingRecord(kind)

		case model.KindDispute:
			ref := funded[rng.Intn(len(funded))]
			if underDispute[ref.txID] {
				// That one is already open; a deposit keeps the record
				// count exact.
				record = fundingRecord(model.KindDeposit)
				break
			}
			underDispute[ref.txID] = true
			disputed = append(disputed, ref)
			record = referenceRecord(kind, ref)

		case model.KindResolve, model.KindChargeback:
			j := rng.Intn(len(disputed))
			ref := disputed[j]
			disputed[j] = disputed[len(disputed)-1]
			disputed = disputed[:len(disputed)-1]
			delete(underDispute, ref.txID)
			record = referenceRecord(kind, ref)
		}

		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// pickKind rolls the transaction mix: mostly deposits and withdrawals, some
// disputes, a few resolutions and the odd chargeback. Reference kinds need
// something to reference, so empty pools degrade the roll to a deposit.
func pickKind(rng *rand.Rand, funded, disputed int) model.TransactionKind {
	roll := rng.Intn(100)
	switch {
	case roll < 55:
		return model.KindDeposit
	case roll < 85:
		return model.KindWithdrawal
	case roll < 93:
		if funded == 0 {
			return model.KindDeposit
		}
		return model.KindDispute
	case roll < 98:
		if disputed == 0 {
			return model.KindDeposit
		}
		return model.KindResolve
	default:
		if disputed == 0 {
			return model.KindDeposit
		}
		return model.KindChargeback
	}
}

func formatID(v uint64) string {
	return strconv.FormatUint(v, 10)
}
