/*
Package token implements a fungible token ledger.

Every token kind is described by a mint that fixes the decimal precision and
the supply. Balances are kept in token accounts, each bound to a single mint
and owner. The canonical account of an owner for a mint lives at the
associated token address, a program derived address computed from the owner
and the mint.

Both mints and accounts are stored using the SPL token program binary layout.
Creating an account requires a storage deposit in native lamports, kept on the
account address and released when the account is closed.
*/
package token
