package position

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/model"
)

// Chronological returns a copy of txs ordered by date, then creation time, then ID.
// Transactions on the same day keep the order in which they were recorded.
func Chronological(txs []model.Transaction) []model.Transaction {
	sorted := slices.Clone(txs)
	slices.SortStableFunc(sorted, func(a, b model.Transaction) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return sorted
}

// Replay folds the full transaction history into a position starting from zero.
//
// The history is ordered with Chronological first, so callers may pass it in any order.
// The first invalid step (non-positive values, oversell) fails the whole replay; the error
// names the offending transaction.
func Replay(txs []model.Transaction) (Position, error) {
	var pos Position
	for _, tx := range Chronological(txs) {
		next, err := Apply(pos, tx)
		if err != nil {
			return Position{}, fmt.Errorf("transaction %s on %s: %w", tx.ID, tx.Date.Format("2006-01-02"), err)
		}
		pos = next
	}
	return pos, nil
}

// RecomputeOnTransactionDelete returns the position the product would have if the transaction
// with deletedID had never been recorded.
//
// The remaining history is replayed from scratch; subtracting the single transaction is not
// valid because buys move the average price and sells do not. The delete is rejected with
// apperrors.ErrInsufficientShares when a later sell would then oversell.
func RecomputeOnTransactionDelete(history []model.Transaction, deletedID string) (Position, error) {
	remaining := slices.DeleteFunc(slices.Clone(history), func(tx model.Transaction) bool {
		return tx.ID == deletedID
	})
	if len(remaining) == len(history) {
		return Position{}, fmt.Errorf("%w: %s", apperrors.ErrTransactionNotFound, deletedID)
	}
	return Replay(remaining)
}

// RecomputeOnTransactionEdit replaces the transaction with the same ID as edited and replays
// the resulting history. It is equivalent to deleting the old transaction and re-adding the
// new values.
func RecomputeOnTransactionEdit(history []model.Transaction, edited model.Transaction) (Position, error) {
	replaced := slices.Clone(history)
	idx := slices.IndexFunc(replaced, func(tx model.Transaction) bool {
		return tx.ID == edited.ID
	})
	if idx < 0 {
		return Position{}, fmt.Errorf("%w: %s", apperrors.ErrTransactionNotFound, edited.ID)
	}
	replaced[idx] = edited
	return Replay(replaced)
}

// RealizedGainFor replays the history up to the sell with sellID and returns the result of
// that sell, computed against the average price held at the moment of sale.
func RealizedGainFor(history []model.Transaction, sellID string) (SellResult, error) {
	var pos Position
	for _, tx := range Chronological(history) {
		if tx.ID != sellID {
			next, err := Apply(pos, tx)
			if err != nil {
				return SellResult{}, fmt.Errorf("transaction %s: %w", tx.ID, err)
			}
			pos = next
			continue
		}

		if tx.Type != model.TransactionSell {
			return SellResult{}, fmt.Errorf("%w: %s", apperrors.ErrTransactionNotSell, tx.ID)
		}
		_, result, err := ApplySell(pos, tx.Quantity, tx.Price)
		if err != nil {
			return SellResult{}, fmt.Errorf("transaction %s: %w", tx.ID, err)
		}
		return result, nil
	}
	return SellResult{}, fmt.Errorf("%w: %s", apperrors.ErrTransactionNotFound, sellID)
}
