// Package ff1 implements the FF1 format-preserving encryption mode from
// NIST SP 800-38G, a 10-round Feistel network keyed by a PRF built from
// single-block ECB encryption chained as CBC-MAC, extended by counter mode
// when the derived pseudorandom output must exceed one block.
package ff1
