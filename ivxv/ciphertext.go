package ivxv

import (
	"encoding/asn1"
	"errors"
	"math/big"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// Ciphertext is an ElGamal ciphertext (G^r, Y^r * m).
type Ciphertext struct {
	Blind   *big.Int
	Blinded *big.Int
	OID     asn1.ObjectIdentifier
}

// NewCiphertext returns a ciphertext tagged with the ElGamal OID.
func NewCiphertext(blind, blinded *big.Int) *Ciphertext {
	return &Ciphertext{
		Blind:   new(big.Int).Set(blind),
		Blinded: new(big.Int).Set(blinded),
		OID:     ElGamalOID,
	}
}

// ParseCiphertext decodes
//
//	SEQUENCE {
//	  SEQUENCE { OID, parameters ANY OPTIONAL }
//	  SEQUENCE {
//	    SEQUENCE { INTEGER blind }
//	    SEQUENCE { INTEGER blindedMessage }
//	  }
//	}
//
// and checks both components against params.
func ParseCiphertext(params *ElGamalParameters, b []byte) (*Ciphertext, error) {
	var (
		input            = cryptobyte.String(b)
		outer, algo, enc cryptobyte.String
		oid              asn1.ObjectIdentifier
		blind, blinded   = new(big.Int), new(big.Int)
	)
	if !input.ReadASN1(&outer, cbasn1.SEQUENCE) || !input.Empty() {
		return nil, errors.Join(ErrCiphertextFormat, errors.New("invalid outer SEQUENCE"))
	}
	if !outer.ReadASN1(&algo, cbasn1.SEQUENCE) || !algo.ReadASN1ObjectIdentifier(&oid) {
		return nil, errors.Join(ErrCiphertextFormat, errors.New("invalid algorithm identifier"))
	}
	if !oid.Equal(ElGamalOID) {
		return nil, errors.Join(ErrCiphertextFormat, errors.New("unsupported algorithm "+oid.String()))
	}
	if !outer.ReadASN1(&enc, cbasn1.SEQUENCE) || !outer.Empty() ||
		!readComponent(&enc, blind) || !readComponent(&enc, blinded) || !enc.Empty() {
		return nil, errors.Join(ErrCiphertextFormat, errors.New("invalid ciphertext components"))
	}
	if !params.Contains(blind) || !params.Contains(blinded) {
		return nil, errors.Join(ErrCiphertextFormat, errors.New("component out of range"))
	}
	return &Ciphertext{Blind: blind, Blinded: blinded, OID: oid}, nil
}

// readComponent reads one group element, a SEQUENCE holding a single
// INTEGER.
func readComponent(s *cryptobyte.String, v *big.Int) bool {
	var seq cryptobyte.String
	return s.ReadASN1(&seq, cbasn1.SEQUENCE) && seq.ReadASN1Integer(v) && seq.Empty()
}

// Bytes returns the DER encoding accepted by ParseCiphertext.
func (c *Ciphertext) Bytes() ([]byte, error) {
	oid := c.OID
	if oid == nil {
		oid = ElGamalOID
	}
	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
			b.AddASN1ObjectIdentifier(oid)
		})
		b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
			for _, v := range []*big.Int{c.Blind, c.Blinded} {
				b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
					b.AddASN1BigInt(v)
				})
			}
		})
	})
	return b.Bytes()
}

// Equal reports whether c and d hold the same components.
func (c *Ciphertext) Equal(d *Ciphertext) bool {
	return c.Blind.Cmp(d.Blind) == 0 && c.Blinded.Cmp(d.Blinded) == 0
}
