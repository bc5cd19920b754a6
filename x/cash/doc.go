/*
Package cash defines a simple implementation of holding and sending coins
between wallets.

There is no logic in the coins (tokens), except that the balance
of any coin may not go below zero. Thus, this implementation is
referred to as cash. Simple and safe.

The Controller is the asset transfer backend of streams: escrow deposits
and payouts are plain moves between wallets.
*/
package cash
