package account

import (
	"github.com/pkg/errors"

	"github.com/pocketvault/wallet-core/internal/keys"
)

var (
	// ErrNotFound is returned when no account exists for the given id.
	ErrNotFound = errors.New("account not found")
)

// Account is one logical user-facing wallet identity. At least one of SVM/EVM
// is populated after creation; both coexist when created together from one
// seed phrase during onboarding.
type Account struct {
	// UserAccountID is globally unique and immutable once created.
	UserAccountID string `json:"userAccountID"`
	// UserAccountName is the user-editable display label.
	UserAccountName string `json:"userAccountName"`

	SVM *keys.SolanaKeypair `json:"svm,omitempty"`
	EVM *keys.EVMKeypair    `json:"evm,omitempty"`
}

// HasAnyChain reports whether the account still holds at least one
// chain sub-account.
func (a *Account) HasAnyChain() bool {
	return a.SVM != nil || a.EVM != nil
}
