// Package scanner captures barcode scans from a keyboard-wedge reader: a
// burst of printable characters terminated by Enter, arriving as one line of
// text input.
package scanner

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"unicode"

	inverrors "invtrack/internal/errors"
	"invtrack/internal/inventory"
)

// ErrAlreadyRunning is returned when Run is called on a scanner whose loop is
// still active. Only one capture loop may exist per input.
var ErrAlreadyRunning = errors.New("scanner is already running")

// SellFunc is invoked once per completed scan with the accumulated barcode.
type SellFunc func(ctx context.Context, barcode string) (*inventory.SaleEntry, error)

// Scanner reads Enter-terminated barcodes from an input stream and sells them.
type Scanner struct {
	input   io.Reader
	sell    SellFunc
	logger  *slog.Logger
	running atomic.Bool
}

func New(input io.Reader, sell SellFunc, logger *slog.Logger) *Scanner {
	return &Scanner{
		input:  input,
		sell:   sell,
		logger: logger.With("component", "scanner"),
	}
}

// Run consumes scans until the context is canceled or the input is exhausted.
// Sell outcomes are informational and logged; none of them stop the loop.
func (s *Scanner) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer s.running.Store(false)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scan := bufio.NewScanner(s.input)
		for scan.Scan() {
			select {
			case lines <- scan.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scan.Err(); err != nil {
			s.logger.Error("failed to read scanner input", "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			barcode := printable(line)
			if barcode == "" {
				continue
			}
			s.handleScan(ctx, barcode)
		}
	}
}

func (s *Scanner) handleScan(ctx context.Context, barcode string) {
	entry, err := s.sell(ctx, barcode)
	var outOfStock *inverrors.OutOfStockError
	switch {
	case errors.Is(err, inverrors.ErrProductNotFound):
		s.logger.Warn("item not found", "barcode", barcode)
	case errors.As(err, &outOfStock):
		s.logger.Warn("no stock left", "barcode", barcode, "name", outOfStock.Name)
	case err != nil:
		s.logger.Error("sell failed", "barcode", barcode, "error", err)
	default:
		s.logger.Info("sold 1 unit", "barcode", barcode, "name", entry.Name)
	}
}

// printable strips everything a scanner should not emit between the scan and
// the Enter terminator.
func printable(line string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(line))
}
