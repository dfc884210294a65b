/*
Package htlc implements hashed timelock escrows of native value and of
tokens.

A holder locks an amount under the SHA-256 commitment of a secret and an
expiration time. Anyone presenting the secret can redeem the value to the
account they sign for. Once the expiration time has passed, the value can be
refunded to the holder. Both operations destroy the escrow record, so at most
one of them ever succeeds.

The record address is a program derived address computed from the asset kind,
the holder and the commitment. There is no index of open escrows: the record
is found by recomputing its address. The value is held by a vault that only
the record derivation controls. For native value the vault is another
program derived address, for tokens it is the associated token account of the
record.
*/
package htlc
