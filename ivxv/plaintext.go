package ivxv

import (
	"math/big"

	"github.com/takakv/msc-mixadapter/util"
)

// Padded plaintexts have the form 0x00 0x01 0xFF.. 0x00 || message and are
// exactly PaddedLen bytes long.
const paddingOverhead = 3

// PaddedLen returns the length of a padded plaintext. The leading zero byte
// keeps every padded value below Q.
func (p *ElGamalParameters) PaddedLen() int {
	return util.ByteLen(p.q)
}

// MaxMessageLen returns the longest message that can be padded and encoded.
func (p *ElGamalParameters) MaxMessageLen() int {
	n := p.PaddedLen() - paddingOverhead
	if n < 0 {
		return 0
	}
	return n
}

// Pad adds the padding to msg.
func (p *ElGamalParameters) Pad(msg []byte) ([]byte, error) {
	if len(msg) > p.MaxMessageLen() {
		return nil, ErrMessageTooLong
	}
	k := p.PaddedLen()
	out := make([]byte, k)
	out[1] = 0x01
	sep := k - len(msg) - 1
	for i := 2; i < sep; i++ {
		out[i] = 0xFF
	}
	copy(out[sep+1:], msg)
	return out, nil
}

// StripPadding returns the message carried by a padded plaintext.
func StripPadding(b []byte) ([]byte, error) {
	if len(b) < paddingOverhead || b[0] != 0x00 || b[1] != 0x01 {
		return nil, ErrBadPadding
	}
	i := 2
	for i < len(b) && b[i] == 0xFF {
		i++
	}
	if i == len(b) || b[i] != 0x00 {
		return nil, ErrBadPadding
	}
	return b[i+1:], nil
}

// EncodeMessage pads msg and maps it to a group element.
func (p *ElGamalParameters) EncodeMessage(msg []byte) (*big.Int, error) {
	padded, err := p.Pad(msg)
	if err != nil {
		return nil, err
	}
	return p.Encode(new(big.Int).SetBytes(padded))
}

// DecodeMessage maps a group element back to the message it encodes.
func (p *ElGamalParameters) DecodeMessage(e *big.Int) ([]byte, error) {
	m, err := p.Decode(e)
	if err != nil {
		return nil, err
	}
	padded, err := util.FixedBytes(m, p.PaddedLen())
	if err != nil {
		return nil, ErrBadPadding
	}
	return StripPadding(padded)
}
