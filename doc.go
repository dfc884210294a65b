/*

Package custody defines interfaces used throughout the custody engine, such
as: storage, transactions, handlers and the identities that own value.
It also contains helpers to work with context (block time, chain id, logger).
Look into this package to get a brief overview of design decisions made around
interfaces and extension building blocks.

Every state transition is executed by a Handler against a KVStore that is a
cache-wrap of the ledger. The app package commits the cache-wrap only when the
handler succeeds, which makes every operation all-or-nothing.

*/

package custody
