package position_test

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/model"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/position"
)

const propertyRuns = 500

func randomQuantity(rng *rand.Rand) decimal.Decimal {
	return decimal.New(rng.Int64N(100000)+1, -2)
}

func randomPrice(rng *rand.Rand) decimal.Decimal {
	return decimal.New(rng.Int64N(10000000)+1, -4)
}

// randomHistory builds n transactions on consecutive days. With sells enabled, roughly a third
// are sells of at most the quantity held at that point.
func randomHistory(rng *rand.Rand, n int, sells bool) []model.Transaction {
	history := make([]model.Transaction, 0, n)
	held := decimal.Zero
	for i := range n {
		id := fmt.Sprintf("tx-%d", i)
		price := randomPrice(rng)
		if sells && held.IsPositive() && rng.IntN(3) == 0 {
			qty := held.Mul(decimal.New(rng.Int64N(100)+1, -2)).Truncate(2)
			if qty.IsPositive() {
				history = append(history, tx(id, model.TransactionSell, i, qty.String(), price.String()))
				held = held.Sub(qty)
				continue
			}
		}
		qty := randomQuantity(rng)
		history = append(history, tx(id, model.TransactionBuy, i, qty.String(), price.String()))
		held = held.Add(qty)
	}
	return history
}

// WHY: the average after a run of buys must be the exact weighted mean, not an approximation
// that drifts with every rounded intermediate average.
func TestReplayBuyOnlyAverageIsWeightedMean(t *testing.T) {
	rng := rand.New(rand.NewPCG(20240101, 7))

	for run := range propertyRuns {
		history := randomHistory(rng, rng.IntN(12)+1, false)

		sumQ, sumQP := decimal.Zero, decimal.Zero
		for _, b := range history {
			sumQ = sumQ.Add(b.Quantity)
			sumQP = sumQP.Add(b.Quantity.Mul(b.Price))
		}

		pos, err := position.Replay(history)
		if err != nil {
			t.Fatalf("run %d: Replay() returned unexpected error: %v", run, err)
		}
		if !pos.Quantity.Equal(sumQ) {
			t.Fatalf("run %d: Quantity = %s, want %s", run, pos.Quantity, sumQ)
		}
		if want := sumQP.Div(sumQ); !pos.AveragePrice.Equal(want) {
			t.Fatalf("run %d: AveragePrice = %s, want %s", run, pos.AveragePrice, want)
		}
		if !pos.CostBasis().Equal(sumQP) {
			t.Fatalf("run %d: CostBasis = %s, want %s", run, pos.CostBasis(), sumQP)
		}
	}
}

// WHY: deleting a transaction must leave the product exactly as if it had never been
// recorded, whichever transaction it is. Deletes that would oversell must fail the same way
// a replay of the shortened history does.
func TestRecomputeOnTransactionDeleteMatchesReplayWithout(t *testing.T) {
	rng := rand.New(rand.NewPCG(20240102, 11))

	for run := range propertyRuns {
		history := randomHistory(rng, rng.IntN(10)+2, true)

		for k := range history {
			without := slices.Delete(slices.Clone(history), k, k+1)
			want, wantErr := position.Replay(without)
			got, err := position.RecomputeOnTransactionDelete(history, history[k].ID)

			if wantErr != nil {
				if !errors.Is(err, apperrors.ErrInsufficientShares) {
					t.Fatalf("run %d, delete %s: expected ErrInsufficientShares, got %v", run, history[k].ID, err)
				}
				continue
			}
			if err != nil {
				t.Fatalf("run %d, delete %s: unexpected error: %v", run, history[k].ID, err)
			}
			if !got.Equal(want) || !got.CostBasis().Equal(want.CostBasis()) {
				t.Fatalf("run %d, delete %s: got %s@%s, want %s@%s",
					run, history[k].ID, got.Quantity, got.AveragePrice, want.Quantity, want.AveragePrice)
			}
		}
	}
}
