package snapshots

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwestcott/finsight/internal/domain"
	"github.com/mwestcott/finsight/internal/modules/accounts"
)

type fakeAccounts struct {
	accounts map[string][]accounts.Account
	holdings map[string][]domain.Holding
}

func (f *fakeAccounts) AccountsByUser(userID string) ([]accounts.Account, error) {
	return f.accounts[userID], nil
}

func (f *fakeAccounts) HoldingsByAccount(accountID string) ([]domain.Holding, error) {
	return f.holdings[accountID], nil
}

type fakeDebts struct {
	debts     []domain.DebtAccount
	cards     []domain.CreditCard
	mortgages []domain.Mortgage
}

func (f *fakeDebts) DebtAccountsByUser(string) ([]domain.DebtAccount, error) { return f.debts, nil }
func (f *fakeDebts) CreditCardsByUser(string) ([]domain.CreditCard, error)   { return f.cards, nil }
func (f *fakeDebts) MortgagesByUser(string) ([]domain.Mortgage, error)       { return f.mortgages, nil }

func TestComputeNetWorth(t *testing.T) {
	accountSource := &fakeAccounts{
		accounts: map[string][]accounts.Account{
			"u1": {
				{ID: "a1", UserID: "u1", Name: "Brokerage"},
				{ID: "a2", UserID: "u1", Name: "Retirement"},
			},
		},
		holdings: map[string][]domain.Holding{
			"a1": {
				{Symbol: "VTI", Quantity: decimal.NewFromInt(10), CurrentPrice: decimal.NewFromInt(200)},
				{Symbol: "AAPL", Quantity: decimal.NewFromInt(5), CurrentPrice: decimal.NewFromInt(150)},
			},
			"a2": {
				{Symbol: "SPY", Quantity: decimal.NewFromInt(4), CurrentPrice: decimal.NewFromInt(500)},
			},
		},
	}
	debtSource := &fakeDebts{
		debts: []domain.DebtAccount{
			{ID: "d1", Name: "auto loan", Balance: decimal.NewFromInt(8000)},
		},
		cards: []domain.CreditCard{
			{ID: "c1", Name: "visa", Balance: decimal.NewFromInt(1200)},
		},
		mortgages: []domain.Mortgage{
			{ID: "m1", PropertyName: "elm-street", Balance: decimal.NewFromInt(150000)},
		},
	}

	s := NewService(accountSource, debtSource, zerolog.Nop())
	snapshot, err := s.Compute("u1", time.Date(2025, 6, 1, 22, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	// Assets: 10×200 + 5×150 + 4×500 = 4750.
	assert.True(t, snapshot.Assets.Equal(decimal.NewFromInt(4750)), "assets %s", snapshot.Assets)
	// Liabilities: 8000 + 1200 + 150000 = 159200.
	assert.True(t, snapshot.Liabilities.Equal(decimal.NewFromInt(159200)))
	assert.True(t, snapshot.NetWorth.Equal(decimal.NewFromInt(-154450)))

	require.Len(t, snapshot.Accounts, 2)
	assert.True(t, snapshot.Accounts[0].Value.Equal(decimal.NewFromInt(2750)))
	require.Len(t, snapshot.Debts, 3)
	assert.Equal(t, "mortgage:elm-street", snapshot.Debts[2].Name)
}

func TestComputeNetWorthNoData(t *testing.T) {
	s := NewService(&fakeAccounts{}, &fakeDebts{}, zerolog.Nop())

	snapshot, err := s.Compute("ghost", time.Now())
	require.NoError(t, err)
	assert.True(t, snapshot.Assets.IsZero())
	assert.True(t, snapshot.Liabilities.IsZero())
	assert.True(t, snapshot.NetWorth.IsZero())
}
