package account

import (
	"context"

	"github.com/pkg/errors"

	"github.com/pocketvault/wallet-core/internal/keys"
)

// ConnectSVMAccountWithSeedPhrase derives a Solana keypair from the mnemonic
// and attaches it to the (possibly new) account. The account becomes current
// only if no account was current yet.
func (s *Store) ConnectSVMAccountWithSeedPhrase(ctx context.Context, id, name, mnemonic string) (*Account, error) {
	kp, err := keys.DeriveSolana(mnemonic, keys.SolanaDerivationPath)
	if err != nil {
		return nil, err
	}
	return s.attachSVM(ctx, id, name, kp)
}

// ConnectSVMAccountWithPrivateKey imports a raw base58 secret key.
func (s *Store) ConnectSVMAccountWithPrivateKey(ctx context.Context, id, name, privateKey string) (*Account, error) {
	kp, err := keys.ImportSolana(privateKey)
	if err != nil {
		return nil, err
	}
	return s.attachSVM(ctx, id, name, kp)
}

// ConnectEVMAccountWithSeedPhrase derives an EVM keypair from the mnemonic
// and attaches it to the (possibly new) account.
func (s *Store) ConnectEVMAccountWithSeedPhrase(ctx context.Context, id, name, mnemonic string) (*Account, error) {
	kp, err := keys.DeriveEVM(mnemonic, keys.EVMDerivationPath)
	if err != nil {
		return nil, err
	}
	return s.attachEVM(ctx, id, name, kp)
}

// ConnectEVMAccountWithPrivateKey imports a raw hex private key.
func (s *Store) ConnectEVMAccountWithPrivateKey(ctx context.Context, id, name, privateKey string) (*Account, error) {
	kp, err := keys.ImportEVM(privateKey)
	if err != nil {
		return nil, err
	}
	return s.attachEVM(ctx, id, name, kp)
}

func (s *Store) attachSVM(ctx context.Context, id, name string, kp *keys.SolanaKeypair) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc := s.shellLocked(id, name)
	acc.SVM = kp
	if err := s.saveLocked(ctx, acc); err != nil {
		return nil, err
	}
	if err := s.markCurrentIfUnsetLocked(acc.UserAccountID); err != nil {
		return nil, err
	}
	return acc, nil
}

func (s *Store) attachEVM(ctx context.Context, id, name string, kp *keys.EVMKeypair) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc := s.shellLocked(id, name)
	acc.EVM = kp
	if err := s.saveLocked(ctx, acc); err != nil {
		return nil, err
	}
	if err := s.markCurrentIfUnsetLocked(acc.UserAccountID); err != nil {
		return nil, err
	}
	return acc, nil
}

// shellLocked fetches the existing account or builds a fresh shell without
// persisting it; the caller persists after attaching the keypair.
func (s *Store) shellLocked(id, name string) *Account {
	acc, err := s.findLocked(id)
	if err == nil {
		if name != "" {
			acc.UserAccountName = name
		}
		return acc
	}
	return &Account{UserAccountID: id, UserAccountName: name}
}

// DisconnectSVMAccount removes just the Solana sub-account. The account
// itself is removed when no chain remains.
func (s *Store) DisconnectSVMAccount(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, err := s.findLocked(id)
	if err != nil {
		return err
	}
	acc.SVM = nil
	return s.detachFinishLocked(ctx, acc)
}

// DisconnectEVMAccount removes just the EVM sub-account.
func (s *Store) DisconnectEVMAccount(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, err := s.findLocked(id)
	if err != nil {
		return err
	}
	acc.EVM = nil
	return s.detachFinishLocked(ctx, acc)
}

func (s *Store) detachFinishLocked(ctx context.Context, acc *Account) error {
	if !acc.HasAnyChain() {
		return s.disconnectAccountLocked(ctx, acc.UserAccountID)
	}
	return s.replaceLocked(acc)
}

// replaceLocked overwrites the stored account wholesale, allowing nil
// sub-accounts to take effect (unlike the merge semantics of saveLocked).
func (s *Store) replaceLocked(acc *Account) error {
	accounts, err := s.load()
	if err != nil {
		return err
	}
	for i, existing := range accounts {
		if existing.UserAccountID == acc.UserAccountID {
			accounts[i] = acc
			return s.persist(accounts)
		}
	}
	return ErrNotFound
}

// Verify re-derives the public keys of every account that retains a seed
// phrase and checks them against the stored addresses. A vault MAC error
// means the passphrase is wrong.
func (s *Store) Verify(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.load()
	if err != nil {
		return err
	}

	for _, acc := range accounts {
		if acc.SVM != nil && acc.SVM.SeedPhrase != "" {
			kp, err := keys.DeriveSolana(acc.SVM.SeedPhrase, acc.SVM.DerivationPath)
			if err != nil {
				return errors.Wrapf(err, "account %s", acc.UserAccountID)
			}
			if kp.PublicKey != acc.SVM.PublicKey {
				return errors.Errorf("account %s: stored SVM address does not match seed phrase", acc.UserAccountID)
			}
		}
		if acc.EVM != nil && acc.EVM.SeedPhrase != "" {
			kp, err := keys.DeriveEVM(acc.EVM.SeedPhrase, acc.EVM.DerivationPath)
			if err != nil {
				return errors.Wrapf(err, "account %s", acc.UserAccountID)
			}
			if kp.PublicKey != acc.EVM.PublicKey {
				return errors.Errorf("account %s: stored EVM address does not match seed phrase", acc.UserAccountID)
			}
		}
	}
	return nil
}
