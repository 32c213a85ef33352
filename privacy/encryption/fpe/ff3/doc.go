// Package ff3 implements the FF3 and FF3-1 format-preserving encryption
// modes from NIST SP 800-38G and its Revision 1: 8-round Feistel networks
// that key the underlying block cipher with a byte-reversed key and encode
// numeral strings with digit-reversed (least-significant-digit-first)
// ordering.
//
// FF3 is retained only for legacy interoperability; it was weakened by
// published cryptanalysis and superseded by FF3-1. New integrations should
// use FF31Engine.
package ff3
