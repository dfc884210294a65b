/*
Package cash defines a simple implementation of the native balance ledger.

There is no logic in the native asset, except that the balance
of any account may not go below zero and may not overflow. Thus, this
implementation is referred to as cash. Simple and safe.

Balances are kept in lamports, the smallest indivisible unit. Any address
may own a balance, including program derived addresses that have no private
key.
*/
package cash
