package snapshots

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mwestcott/finsight/internal/domain"
	"github.com/mwestcott/finsight/internal/modules/accounts"
)

// AccountSource provides the account and holding views the snapshot needs.
type AccountSource interface {
	AccountsByUser(userID string) ([]accounts.Account, error)
	HoldingsByAccount(accountID string) ([]domain.Holding, error)
}

// Service computes net-worth snapshots from the current finance state.
type Service struct {
	accounts AccountSource
	debts    domain.DebtSource
	log      zerolog.Logger
}

// NewService creates a snapshot service.
func NewService(accountSource AccountSource, debtSource domain.DebtSource, log zerolog.Logger) *Service {
	return &Service{
		accounts: accountSource,
		debts:    debtSource,
		log:      log.With().Str("service", "snapshots").Logger(),
	}
}

// Compute builds the net-worth snapshot for a user as of now. Assets are
// the market value of every holding across the user's accounts;
// liabilities are debt, card and mortgage balances.
func (s *Service) Compute(userID string, now time.Time) (NetWorth, error) {
	snapshot := NetWorth{
		UserID:      userID,
		Date:        now.UTC().Truncate(24 * time.Hour),
		Assets:      decimal.Zero,
		Liabilities: decimal.Zero,
		ComputedAt:  now.UTC(),
	}

	userAccounts, err := s.accounts.AccountsByUser(userID)
	if err != nil {
		return NetWorth{}, err
	}
	for _, account := range userAccounts {
		holdings, err := s.accounts.HoldingsByAccount(account.ID)
		if err != nil {
			return NetWorth{}, err
		}
		value := decimal.Zero
		for _, h := range holdings {
			value = value.Add(h.MarketValue())
		}
		snapshot.Assets = snapshot.Assets.Add(value)
		snapshot.Accounts = append(snapshot.Accounts, AccountValue{
			AccountID: account.ID,
			Name:      account.Name,
			Value:     value.Round(2),
		})
	}

	debtAccounts, err := s.debts.DebtAccountsByUser(userID)
	if err != nil {
		return NetWorth{}, err
	}
	for _, d := range debtAccounts {
		snapshot.Liabilities = snapshot.Liabilities.Add(d.Balance)
		snapshot.Debts = append(snapshot.Debts, DebtBalance{ID: d.ID, Name: d.Name, Balance: d.Balance})
	}

	cards, err := s.debts.CreditCardsByUser(userID)
	if err != nil {
		return NetWorth{}, err
	}
	for _, c := range cards {
		// A credit balance (overpayment) reduces liabilities.
		snapshot.Liabilities = snapshot.Liabilities.Add(c.Balance)
		snapshot.Debts = append(snapshot.Debts, DebtBalance{ID: c.ID, Name: c.Name, Balance: c.Balance})
	}

	mortgages, err := s.debts.MortgagesByUser(userID)
	if err != nil {
		return NetWorth{}, err
	}
	for _, m := range mortgages {
		snapshot.Liabilities = snapshot.Liabilities.Add(m.Balance)
		snapshot.Debts = append(snapshot.Debts, DebtBalance{ID: m.ID, Name: "mortgage:" + m.PropertyName, Balance: m.Balance})
	}

	snapshot.Assets = snapshot.Assets.Round(2)
	snapshot.Liabilities = snapshot.Liabilities.Round(2)
	snapshot.NetWorth = snapshot.Assets.Sub(snapshot.Liabilities)

	return snapshot, nil
}
