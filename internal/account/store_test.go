package account_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketvault/wallet-core/internal/account"
	"github.com/pocketvault/wallet-core/internal/vault"
)

const (
	testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

	accountsKey = "pv.accounts.v1"
	currentKey  = "pv.current.v1"
)

func newTestStore(t *testing.T) *account.Store {
	t.Helper()
	v := vault.New(vault.NewMemoryBackend(), []byte("pw"), vault.ScryptParams{DKLen: 32, N: 4096, R: 8, P: 1})
	return account.NewStore(v, accountsKey, currentKey)
}

func TestConnectBothChainsFromOneSeed(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	acc, err := store.ConnectSVMAccountWithSeedPhrase(ctx, "acc-1", "Main", testMnemonic)
	require.NoError(t, err)
	require.NotNil(t, acc.SVM)

	acc, err = store.ConnectEVMAccountWithSeedPhrase(ctx, "acc-1", "Main", testMnemonic)
	require.NoError(t, err)
	require.NotNil(t, acc.EVM)
	require.NotNil(t, acc.SVM, "connecting EVM must not drop the SVM sub-account")

	assert.Equal(t, "HAgk14JpMQLgt6rVgv7cBQFJWFto5Dqxi472uT3DKpqk", acc.SVM.PublicKey)
	assert.Equal(t, "0x9858EfFD232B4033E47d90003D41EC34EcaEda94", acc.EVM.PublicKey)
	assert.Equal(t, acc.SVM.SeedPhrase, acc.EVM.SeedPhrase)

	// First connected account becomes current.
	current, err := store.GetCurrentAccountID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", current)
}

func TestFirstCurrentIsNotStolen(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.ConnectSVMAccountWithSeedPhrase(ctx, "acc-1", "One", testMnemonic)
	require.NoError(t, err)
	_, err = store.ConnectEVMAccountWithSeedPhrase(ctx, "acc-2", "Two", testMnemonic)
	require.NoError(t, err)

	current, err := store.GetCurrentAccountID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", current)
}

func TestSaveAccountUpsertIdempotence(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	acc, err := store.ConnectSVMAccountWithSeedPhrase(ctx, "acc-1", "Main", testMnemonic)
	require.NoError(t, err)

	require.NoError(t, store.SaveAccount(ctx, acc))
	first, err := store.GetAllAccounts(ctx)
	require.NoError(t, err)

	require.NoError(t, store.SaveAccount(ctx, acc))
	second, err := store.GetAllAccounts(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, second, 1, "upsert must not duplicate entries")
}

func TestRenamePreservesSubAccounts(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.ConnectSVMAccountWithSeedPhrase(ctx, "acc-1", "Old name", testMnemonic)
	require.NoError(t, err)

	// A rename carries no key material.
	err = store.SaveAccount(ctx, &account.Account{UserAccountID: "acc-1", UserAccountName: "New name"})
	require.NoError(t, err)

	acc, err := store.GetAccountByID(ctx, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, "New name", acc.UserAccountName)
	require.NotNil(t, acc.SVM, "rename must not clobber the SVM sub-account")
}

func TestDisconnectAccountPromotesNext(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.ConnectSVMAccountWithSeedPhrase(ctx, "acc-1", "One", testMnemonic)
	require.NoError(t, err)
	_, err = store.ConnectSVMAccountWithSeedPhrase(ctx, "acc-2", "Two", testMnemonic)
	require.NoError(t, err)

	require.NoError(t, store.DisconnectAccount(ctx, "acc-1"))

	// Never a dangling pointer: the first remaining account is promoted.
	current, err := store.GetCurrentAccountID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "acc-2", current)

	require.NoError(t, store.DisconnectAccount(ctx, "acc-2"))
	current, err = store.GetCurrentAccountID(ctx)
	require.NoError(t, err)
	assert.Empty(t, current)
}

func TestDisconnectSingleChainKeepsAccount(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.ConnectSVMAccountWithSeedPhrase(ctx, "acc-1", "Main", testMnemonic)
	require.NoError(t, err)
	_, err = store.ConnectEVMAccountWithSeedPhrase(ctx, "acc-1", "Main", testMnemonic)
	require.NoError(t, err)

	require.NoError(t, store.DisconnectSVMAccount(ctx, "acc-1"))

	acc, err := store.GetAccountByID(ctx, "acc-1")
	require.NoError(t, err)
	assert.Nil(t, acc.SVM)
	assert.NotNil(t, acc.EVM)

	// Removing the last chain removes the account itself.
	require.NoError(t, store.DisconnectEVMAccount(ctx, "acc-1"))
	_, err = store.GetAccountByID(ctx, "acc-1")
	assert.ErrorIs(t, err, account.ErrNotFound)
}

func TestDisconnectAllAccounts(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.ConnectSVMAccountWithSeedPhrase(ctx, "acc-1", "One", testMnemonic)
	require.NoError(t, err)

	require.NoError(t, store.DisconnectAllAccounts(ctx))

	accounts, err := store.GetAllAccounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts)

	current, err := store.GetCurrentAccountID(ctx)
	require.NoError(t, err)
	assert.Empty(t, current)
}

func TestSwitchAccount(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.ConnectSVMAccountWithSeedPhrase(ctx, "acc-1", "One", testMnemonic)
	require.NoError(t, err)
	_, err = store.ConnectSVMAccountWithSeedPhrase(ctx, "acc-2", "Two", testMnemonic)
	require.NoError(t, err)

	require.NoError(t, store.SwitchAccount(ctx, "acc-2"))
	current, err := store.GetCurrentAccount(ctx)
	require.NoError(t, err)
	assert.Equal(t, "acc-2", current.UserAccountID)

	assert.ErrorIs(t, store.SwitchAccount(ctx, "nope"), account.ErrNotFound)
}

func TestGetOrCreateAccount(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	acc, err := store.GetOrCreateAccount(ctx, "acc-1", "Shell")
	require.NoError(t, err)
	assert.Equal(t, "Shell", acc.UserAccountName)
	assert.False(t, acc.HasAnyChain())

	renamed, err := store.GetOrCreateAccount(ctx, "acc-1", "Renamed")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", renamed.UserAccountName)

	accounts, err := store.GetAllAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestVerify(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.ConnectSVMAccountWithSeedPhrase(ctx, "acc-1", "Main", testMnemonic)
	require.NoError(t, err)
	_, err = store.ConnectEVMAccountWithSeedPhrase(ctx, "acc-1", "Main", testMnemonic)
	require.NoError(t, err)

	assert.NoError(t, store.Verify(ctx))
}
