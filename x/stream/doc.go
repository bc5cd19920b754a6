/*
Package stream implements value streaming.

A payer escrows a fixed amount of an asset that the payee can progressively
withdraw over a schedule of discrete ticks. Once per tick an equal share of
the amount vests. The remainder of the integer division vests at the end
time, together with the last share. A cancellable stream can be stopped by
the payer, who is then refunded everything that was not yet withdrawn.

Stream terms are stored once and never modified. The withdrawal ledger of
each stream is kept separately and changes on every withdrawal and on
cancellation.

Every instruction carries a sigs.Credential. Creation and withdrawal are
protected against replay by a per identity nonce, cancellation can succeed
only once and needs none.
*/
package stream
