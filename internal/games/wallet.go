package games

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/abhisek/bitlit/internal/i18n"
	"github.com/abhisek/bitlit/internal/progress"
)

const (
	// DefaultWalletBalance is the simulated starting balance in satoshis.
	DefaultWalletBalance int64 = 1_000_000

	// LightningFee is the flat fee of the fastest tier.
	LightningFee int64 = 1

	// TxXP is granted for each successful simulated send.
	TxXP = 15
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrUnknownFeeTier    = errors.New("unknown fee tier")
)

// FeeTier selects how fast (and how expensive) a simulated send is.
type FeeTier string

const (
	FeeLightning FeeTier = "lightning"
	FeePriority  FeeTier = "priority"
	FeeEconomy   FeeTier = "economy"
)

// FeeTiers returns the tiers from fastest to slowest.
func FeeTiers() []FeeTier {
	return []FeeTier{FeeLightning, FeePriority, FeeEconomy}
}

// ParseFeeTier maps a tier name to a FeeTier.
func ParseFeeTier(s string) (FeeTier, bool) {
	for _, t := range FeeTiers() {
		if string(t) == strings.ToLower(s) {
			return t, true
		}
	}
	return "", false
}

// Label returns the localized tier name.
func (t FeeTier) Label(lang i18n.Language) string {
	switch t {
	case FeeLightning:
		return i18n.T(lang, i18n.FeeLightning)
	case FeePriority:
		return i18n.T(lang, i18n.FeePriority)
	case FeeEconomy:
		return i18n.T(lang, i18n.FeeEconomy)
	}
	return string(t)
}

// Fee returns the fee for sending amount satoshis on tier. Lightning is a
// flat fee; priority is 0.1% and economy 0.05% of the amount, floored.
func Fee(amount int64, tier FeeTier) (int64, error) {
	switch tier {
	case FeeLightning:
		return LightningFee, nil
	case FeePriority:
		return amount / 1000, nil
	case FeeEconomy:
		return amount / 2000, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFeeTier, tier)
}

// Wallet is the transaction simulator's state slice. The balance is never
// negative.
type Wallet struct {
	mu      sync.Mutex
	balance int64
}

// NewWallet returns a wallet holding DefaultWalletBalance.
func NewWallet() *Wallet {
	return &Wallet{balance: DefaultWalletBalance}
}

// Balance returns the balance in satoshis.
func (w *Wallet) Balance() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.balance
}

// Debit removes total from the balance. It fails without mutating when
// total exceeds the balance.
func (w *Wallet) Debit(total int64) (int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if total > w.balance {
		return w.balance, ErrInsufficientFunds
	}
	w.balance -= total
	return w.balance, nil
}

// Reset restores DefaultWalletBalance.
func (w *Wallet) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.balance = DefaultWalletBalance
}

// Quote previews a send.
type Quote struct {
	Amount     int64   `json:"amount"`
	Tier       FeeTier `json:"tier"`
	Fee        int64   `json:"fee"`
	Total      int64   `json:"total"`
	Affordable bool    `json:"affordable"`
}

// Receipt describes a completed simulated send.
type Receipt struct {
	TxID      string  `json:"txid"`
	Recipient string  `json:"recipient"`
	Amount    int64   `json:"amount"`
	Tier      FeeTier `json:"tier"`
	Fee       int64   `json:"fee"`
	Total     int64   `json:"total"`
	Balance   int64   `json:"balance"`
}

// TxSimulator owns the wallet slice and its reward policy.
type TxSimulator struct {
	Wallet *Wallet
	ledger *progress.Ledger
	rand   io.Reader
}

// NewTxSimulator creates a simulator with a fresh wallet.
func NewTxSimulator(ledger *progress.Ledger) *TxSimulator {
	return &TxSimulator{Wallet: NewWallet(), ledger: ledger, rand: rand.Reader}
}

// Quote computes the fee and total for a prospective send.
func (s *TxSimulator) Quote(amount int64, tier FeeTier) (Quote, error) {
	fee, err := Fee(amount, tier)
	if err != nil {
		return Quote{}, err
	}
	total := amount + fee
	return Quote{
		Amount:     amount,
		Tier:       tier,
		Fee:        fee,
		Total:      total,
		Affordable: amount > 0 && total <= s.Wallet.Balance(),
	}, nil
}

// Send simulates a transaction. A send is valid only when amount is
// positive and amount plus fee fits the balance; an invalid send leaves
// the balance untouched and produces no transaction id.
func (s *TxSimulator) Send(recipient string, amount int64, tier FeeTier) (Receipt, error) {
	if amount <= 0 {
		return Receipt{}, ErrInvalidAmount
	}
	fee, err := Fee(amount, tier)
	if err != nil {
		return Receipt{}, err
	}
	total := amount + fee

	txid, err := randomHex(s.rand, 32)
	if err != nil {
		return Receipt{}, fmt.Errorf("generate txid: %w", err)
	}

	// The id is only handed out once the debit succeeds.
	balance, err := s.Wallet.Debit(total)
	if err != nil {
		return Receipt{}, err
	}

	s.ledger.AddXP(TxXP)
	s.ledger.CompleteModule(progress.ModuleSimulator)

	return Receipt{
		TxID:      txid,
		Recipient: recipient,
		Amount:    amount,
		Tier:      tier,
		Fee:       fee,
		Total:     total,
		Balance:   balance,
	}, nil
}

// Reset restores the simulated wallet balance.
func (s *TxSimulator) Reset() {
	s.Wallet.Reset()
}

// NewRecipientAddress returns a random bech32-looking address for the
// simulator's recipient field. It is not a valid Bitcoin address.
func NewRecipientAddress() string {
	h, err := randomHex(rand.Reader, 20)
	if err != nil {
		return "bc1q" + strings.Repeat("0", 40)
	}
	return "bc1q" + h
}

func randomHex(r io.Reader, n int) (string, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
