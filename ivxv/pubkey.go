package ivxv

import (
	"encoding/asn1"
	"encoding/pem"
	"fmt"
	"math/big"
	"os"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

const pemTypePublicKey = "PUBLIC KEY"

// tagGeneralString is the universal tag of ASN.1 GeneralString.
const tagGeneralString = cbasn1.Tag(27)

// ElGamalOID identifies the ElGamal algorithm in keys and ciphertexts.
var ElGamalOID = asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 3029, 2, 1}

// PublicKey is an ElGamal public key Y = G^x together with its parameters.
type PublicKey struct {
	Params *ElGamalParameters
	Y      *big.Int
}

// ReadPublicKeyFile reads a PEM encoded public key from path.
func ReadPublicKeyFile(path string) (*PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &KeyParseError{Reason: "reading key file", Err: err}
	}
	return ParsePublicKeyPEM(data)
}

// ParsePublicKeyPEM parses a PEM block of type PUBLIC KEY.
func ParsePublicKeyPEM(data []byte) (*PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, &KeyParseError{Reason: "no PEM block found"}
	}
	if block.Type != pemTypePublicKey {
		return nil, &KeyParseError{Reason: fmt.Sprintf("unexpected PEM type %q", block.Type)}
	}
	return ParsePublicKeyDER(block.Bytes)
}

// ParsePublicKeyDER parses
//
//	SEQUENCE {
//	  SEQUENCE { OID, SEQUENCE { INTEGER p, INTEGER g, GeneralString election } }
//	  BIT STRING { INTEGER y }
//	}
func ParsePublicKeyDER(der []byte) (*PublicKey, error) {
	input := cryptobyte.String(der)
	var (
		spki, algo, params cryptobyte.String
		oid                asn1.ObjectIdentifier
		p, g               = new(big.Int), new(big.Int)
		election           cryptobyte.String
		keyBits            asn1.BitString
	)
	if !input.ReadASN1(&spki, cbasn1.SEQUENCE) || !input.Empty() {
		return nil, &KeyParseError{Reason: "invalid outer SEQUENCE"}
	}
	if !spki.ReadASN1(&algo, cbasn1.SEQUENCE) ||
		!algo.ReadASN1ObjectIdentifier(&oid) ||
		!algo.ReadASN1(&params, cbasn1.SEQUENCE) ||
		!algo.Empty() {
		return nil, &KeyParseError{Reason: "invalid algorithm identifier"}
	}
	if !oid.Equal(ElGamalOID) {
		return nil, &KeyParseError{Reason: fmt.Sprintf("unsupported algorithm %s", oid)}
	}
	if !params.ReadASN1Integer(p) ||
		!params.ReadASN1Integer(g) ||
		!params.ReadASN1(&election, tagGeneralString) ||
		!params.Empty() {
		return nil, &KeyParseError{Reason: "invalid domain parameters"}
	}
	if !spki.ReadASN1BitString(&keyBits) || !spki.Empty() {
		return nil, &KeyParseError{Reason: "invalid key BIT STRING"}
	}
	if keyBits.BitLength%8 != 0 {
		return nil, &KeyParseError{Reason: "key BIT STRING is not octet aligned"}
	}

	y := new(big.Int)
	keyDER := cryptobyte.String(keyBits.Bytes)
	if !keyDER.ReadASN1Integer(y) || !keyDER.Empty() {
		return nil, &KeyParseError{Reason: "invalid key INTEGER"}
	}

	ep, err := NewElGamalParameters(p, g, string(election))
	if err != nil {
		return nil, &KeyParseError{Reason: "invalid domain parameters", Err: err}
	}
	if !ep.Contains(y) || y.Cmp(big.NewInt(1)) == 0 {
		return nil, &KeyParseError{Reason: "key is not a group element"}
	}
	return &PublicKey{Params: ep, Y: y}, nil
}

// MarshalDER encodes the key in the format accepted by ParsePublicKeyDER.
func (pk *PublicKey) MarshalDER() ([]byte, error) {
	var keyBuilder cryptobyte.Builder
	keyBuilder.AddASN1BigInt(pk.Y)
	keyDER, err := keyBuilder.Bytes()
	if err != nil {
		return nil, err
	}

	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
			b.AddASN1ObjectIdentifier(ElGamalOID)
			b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
				b.AddASN1BigInt(pk.Params.P)
				b.AddASN1BigInt(pk.Params.G)
				b.AddASN1(tagGeneralString, func(b *cryptobyte.Builder) {
					b.AddBytes([]byte(pk.Params.ElectionID))
				})
			})
		})
		b.AddASN1BitString(keyDER)
	})
	return b.Bytes()
}

// MarshalPEM encodes the key as a PEM block.
func (pk *PublicKey) MarshalPEM() ([]byte, error) {
	der, err := pk.MarshalDER()
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(&pem.Block{Type: pemTypePublicKey, Bytes: der}), nil
}
