package service

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"txreceipt/internal/money"
	"txreceipt/internal/receipt"
)

// Stage is a step of receipt generation.
type Stage string

const (
	StageReceived  Stage = "RECEIVED"
	StageValidated Stage = "VALIDATED"
	StageLookedUp  Stage = "LOOKED_UP"
	StageRendered  Stage = "RENDERED"
	StagePersisted Stage = "PERSISTED"
	StageResponded Stage = "RESPONDED"
)

var (
	// ErrMissingIdentifier is returned when no transaction id is supplied.
	ErrMissingIdentifier = errors.New("service: transaction id is required")
	// ErrInvalidIdentifier is returned for ids that cannot name a receipt file.
	ErrInvalidIdentifier = errors.New("service: transaction id cannot name a receipt")
	// ErrRenderFailed covers drawing and file write failures.
	ErrRenderFailed = errors.New("service: receipt rendering failed")
	// ErrReceiptNotGenerated is returned by Link before the receipt exists.
	ErrReceiptNotGenerated = errors.New("service: receipt not yet generated")
)

// StageError records the stage at which receipt generation failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("receipt %s: %v", strings.ToLower(string(e.Stage)), e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func fail(stage Stage, err error) error {
	return &StageError{Stage: stage, Err: err}
}

// Origin is where the client reached us, used to build receipt URLs.
type Origin struct {
	Proto string
	Host  string
}

// URL returns the public URL of a receipt file, with the name path-escaped.
func (o Origin) URL(fileName string) string {
	proto := strings.TrimSpace(o.Proto)
	if proto == "" {
		proto = "http"
	}
	return fmt.Sprintf("%s://%s/public/%s", proto, o.Host, url.PathEscape(fileName))
}

// Receipt describes a generated receipt file.
type Receipt struct {
	FileName string
	URL      string
	Checksum string
}

// Composer lays out a receipt document.
type Composer interface {
	Compose(in receipt.Input) (*receipt.Document, error)
}

// DocumentRenderer writes a composed document.
type DocumentRenderer interface {
	Render(doc *receipt.Document, w io.Writer) error
}

// FileStore persists receipt files.
type FileStore interface {
	Write(name string, data []byte) error
	Exists(name string) (bool, error)
}

// Assets are the optional images drawn on every receipt.
type Assets struct {
	Logo  *receipt.Image
	Stamp *receipt.Image
}

// ReceiptDeps groups ReceiptService collaborators.
type ReceiptDeps struct {
	Store     TransactionStore
	Cache     TransactionCache
	Composer  Composer
	Renderer  DocumentRenderer
	Files     FileStore
	Formatter *money.Formatter
	Fees      money.Fees
	Assets    Assets
	// QR is optional; without it receipts carry no QR code.
	QR     receipt.QREncoder
	Logger *zap.Logger
}

// ReceiptService generates receipts and resolves their links.
type ReceiptService struct {
	deps ReceiptDeps
}

// NewReceiptService builds ReceiptService.
func NewReceiptService(deps ReceiptDeps) *ReceiptService {
	return &ReceiptService{deps: deps}
}

// Generate renders the receipt of txID into the public directory.
func (s *ReceiptService) Generate(ctx context.Context, txID string, origin Origin) (*Receipt, error) {
	logger := s.deps.Logger.With(zap.String("tx_id", txID))
	logger.Debug("receipt requested", zap.String("stage", string(StageReceived)))

	txID = strings.TrimSpace(txID)
	if txID == "" {
		return nil, fail(StageValidated, ErrMissingIdentifier)
	}
	if !receipt.ValidID(txID) {
		return nil, fail(StageValidated, ErrInvalidIdentifier)
	}

	tx, err := lookup(ctx, s.deps.Store, s.deps.Cache, logger, txID)
	if err != nil {
		return nil, fail(StageLookedUp, err)
	}

	fees := s.deps.Fees.Apply(tx.Amount)
	words, err := s.deps.Formatter.Words(fees.Total)
	if err != nil {
		return nil, fail(StageRendered, fmt.Errorf("%w: %v", ErrRenderFailed, err))
	}

	in := receipt.Input{
		Transaction: tx,
		Fees:        fees,
		Words:       words,
		Logo:        s.deps.Assets.Logo,
		Stamp:       s.deps.Assets.Stamp,
	}
	if s.deps.QR != nil {
		qr, err := s.deps.QR.Encode(tx.TxID)
		if err != nil {
			return nil, fail(StageRendered, fmt.Errorf("%w: %v", ErrRenderFailed, err))
		}
		in.QR = qr
	}

	doc, err := s.deps.Composer.Compose(in)
	if err != nil {
		return nil, fail(StageRendered, fmt.Errorf("%w: %v", ErrRenderFailed, err))
	}
	var buf bytes.Buffer
	if err := s.deps.Renderer.Render(doc, &buf); err != nil {
		return nil, fail(StageRendered, fmt.Errorf("%w: %v", ErrRenderFailed, err))
	}

	name := receipt.FileName(tx.TxID)
	if err := s.deps.Files.Write(name, buf.Bytes()); err != nil {
		return nil, fail(StagePersisted, fmt.Errorf("%w: %v", ErrRenderFailed, err))
	}

	sum := blake2b.Sum256(buf.Bytes())
	out := &Receipt{
		FileName: name,
		URL:      origin.URL(name),
		Checksum: hex.EncodeToString(sum[:]),
	}
	logger.Info("receipt generated",
		zap.String("stage", string(StageResponded)),
		zap.String("file", name),
		zap.Int("bytes", buf.Len()),
	)
	return out, nil
}

// Link returns the URL of an already generated receipt.
func (s *ReceiptService) Link(ctx context.Context, txID string, origin Origin) (string, error) {
	txID = strings.TrimSpace(txID)
	if txID == "" {
		return "", ErrMissingIdentifier
	}

	ok, err := s.deps.Store.Exists(ctx, txID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrNotFound
	}
	if !receipt.ValidID(txID) {
		return "", ErrReceiptNotGenerated
	}

	name := receipt.FileName(txID)
	found, err := s.deps.Files.Exists(name)
	if err != nil {
		return "", fmt.Errorf("service: check receipt file: %w", err)
	}
	if !found {
		return "", ErrReceiptNotGenerated
	}
	return origin.URL(name), nil
}
