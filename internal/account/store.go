// Package account persists the wallet's accounts and the current-account
// pointer in the encrypted vault. Two logical keys are used: a JSON array of
// accounts (insertion-ordered) and a bare current-account id.
package account

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"

	"github.com/pocketvault/wallet-core/internal/util"
	"github.com/pocketvault/wallet-core/internal/vault"
)

// Store is constructed once at process start with an injected vault and key
// names; there are no ambient globals. The mutex serializes every
// read-modify-write cycle so concurrent rename/connect calls cannot race.
type Store struct {
	mu          sync.Mutex
	vault       *vault.Vault
	accountsKey string
	currentKey  string
}

// NewStore creates an account store over the given vault.
func NewStore(v *vault.Vault, accountsKey, currentKey string) *Store {
	return &Store{
		vault:       v,
		accountsKey: accountsKey,
		currentKey:  currentKey,
	}
}

// load reads the full account list; a missing key means an empty wallet.
func (s *Store) load() ([]*Account, error) {
	raw, err := s.vault.Get(s.accountsKey)
	if err != nil {
		if errors.Is(err, vault.ErrNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to read accounts")
	}

	var accounts []*Account
	if err := json.Unmarshal(raw, &accounts); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal accounts")
	}
	return accounts, nil
}

func (s *Store) persist(accounts []*Account) error {
	raw, err := json.Marshal(accounts)
	if err != nil {
		return errors.Wrap(err, "failed to marshal accounts")
	}
	return s.vault.Put(s.accountsKey, raw)
}

// GetAllAccounts returns every stored account in insertion order.
func (s *Store) GetAllAccounts(_ context.Context) ([]*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// GetAccountByID returns the account with the given id, or ErrNotFound.
func (s *Store) GetAccountByID(_ context.Context, id string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findLocked(id)
}

func (s *Store) findLocked(id string) (*Account, error) {
	accounts, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, acc := range accounts {
		if acc.UserAccountID == id {
			return acc, nil
		}
	}
	return nil, ErrNotFound
}

// GetCurrentAccountID returns the current-account pointer, or an empty string
// when unset.
func (s *Store) GetCurrentAccountID(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentIDLocked()
}

func (s *Store) currentIDLocked() (string, error) {
	raw, err := s.vault.Get(s.currentKey)
	if err != nil {
		if errors.Is(err, vault.ErrNotFound) {
			return "", nil
		}
		return "", errors.Wrap(err, "failed to read current account id")
	}
	return string(raw), nil
}

// GetCurrentAccount resolves the current pointer to an account. Returns nil
// without error when no account is current.
func (s *Store) GetCurrentAccount(_ context.Context) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.currentIDLocked()
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, nil
	}

	acc, err := s.findLocked(id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return acc, err
}

// SaveAccount upserts by UserAccountID. An update with nil SVM/EVM preserves
// the stored sub-accounts, so a rename never clobbers connected chains.
func (s *Store) SaveAccount(ctx context.Context, acc *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx, acc)
}

func (s *Store) saveLocked(ctx context.Context, acc *Account) error {
	log := util.LogFromContext(ctx)

	accounts, err := s.load()
	if err != nil {
		return err
	}

	for i, existing := range accounts {
		if existing.UserAccountID != acc.UserAccountID {
			continue
		}
		merged := *acc
		if merged.SVM == nil {
			merged.SVM = existing.SVM
		}
		if merged.EVM == nil {
			merged.EVM = existing.EVM
		}
		accounts[i] = &merged
		return s.persist(accounts)
	}

	log.Debug().Str("account_id", acc.UserAccountID).Msg("Creating account")
	accounts = append(accounts, acc)
	return s.persist(accounts)
}

// GetOrCreateAccount fetches the account or creates a name-only shell,
// renaming if the display name changed.
func (s *Store) GetOrCreateAccount(ctx context.Context, id, name string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, err := s.findLocked(id)
	if err == nil {
		if acc.UserAccountName != name && name != "" {
			acc.UserAccountName = name
			if err := s.saveLocked(ctx, acc); err != nil {
				return nil, err
			}
		}
		return acc, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	acc = &Account{UserAccountID: id, UserAccountName: name}
	if err := s.saveLocked(ctx, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// SwitchAccount updates the current pointer only. Fails with ErrNotFound if
// the id has no account; account data is never mutated.
func (s *Store) SwitchAccount(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.findLocked(id); err != nil {
		return err
	}
	return s.vault.Put(s.currentKey, []byte(id))
}

// markCurrentIfUnsetLocked points the current id at the given account only
// when no account is current yet.
func (s *Store) markCurrentIfUnsetLocked(id string) error {
	current, err := s.currentIDLocked()
	if err != nil {
		return err
	}
	if current != "" {
		return nil
	}
	return s.vault.Put(s.currentKey, []byte(id))
}

// DisconnectAccount removes the whole account. If it was current, the first
// remaining account by insertion order is promoted; the pointer is cleared
// when none remain.
func (s *Store) DisconnectAccount(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disconnectAccountLocked(ctx, id)
}

func (s *Store) disconnectAccountLocked(ctx context.Context, id string) error {
	log := util.LogFromContext(ctx)

	accounts, err := s.load()
	if err != nil {
		return err
	}

	idx := -1
	for i, acc := range accounts {
		if acc.UserAccountID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}

	accounts = append(accounts[:idx], accounts[idx+1:]...)
	if err := s.persist(accounts); err != nil {
		return err
	}

	current, err := s.currentIDLocked()
	if err != nil {
		return err
	}
	if current != id {
		return nil
	}

	if len(accounts) == 0 {
		log.Info().Msg("Last account removed, clearing current pointer")
		return s.vault.Delete(s.currentKey)
	}
	return s.vault.Put(s.currentKey, []byte(accounts[0].UserAccountID))
}

// DisconnectAllAccounts wipes both persisted keys. Irreversible.
func (s *Store) DisconnectAllAccounts(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	util.LogFromContext(ctx).Warn().Msg("Wiping all wallet accounts")

	if err := s.vault.Delete(s.accountsKey); err != nil {
		return err
	}
	return s.vault.Delete(s.currentKey)
}
