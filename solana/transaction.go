package solana

import (
	"bytes"
	"fmt"

	"github.com/mr-tron/base58"
)

// LegacyVersion marks a transaction message without a version prefix.
const LegacyVersion = -1

// Transaction is a partially decoded wire transaction. The signature
// section is fully decoded; the message is kept as raw bytes with just
// enough of the header parsed to locate the required signers. Signing
// always covers the raw message bytes, so the opaque remainder
// (instructions, address table lookups) never needs interpreting.
type Transaction struct {
	Signatures [][]byte
	Message    []byte

	version    int
	signerKeys []string
}

// DeserializeTransaction decodes a wire transaction, attempting the
// versioned format first and falling back to the legacy format.
func DeserializeTransaction(data []byte) (*Transaction, error) {
	tx, err := deserializeTransaction(data, true)
	if err == nil {
		return tx, nil
	}
	return deserializeTransaction(data, false)
}

func deserializeTransaction(data []byte, versioned bool) (*Transaction, error) {
	numSigs, n, err := decodeShortVecLen(data)
	if err != nil {
		return nil, fmt.Errorf("signature count: %w", err)
	}
	offset := n
	if len(data) < offset+numSigs*SignatureLength {
		return nil, fmt.Errorf("signature section truncated")
	}
	sigs := make([][]byte, numSigs)
	for i := 0; i < numSigs; i++ {
		sig := make([]byte, SignatureLength)
		copy(sig, data[offset:offset+SignatureLength])
		sigs[i] = sig
		offset += SignatureLength
	}

	msg := data[offset:]
	if len(msg) == 0 {
		return nil, fmt.Errorf("empty message")
	}

	version := LegacyVersion
	pos := 0
	if versioned {
		if msg[0]&0x80 == 0 {
			return nil, fmt.Errorf("message has no version prefix")
		}
		version = int(msg[0] & 0x7f)
		if version != 0 {
			return nil, fmt.Errorf("unsupported message version %d", version)
		}
		pos = 1
	} else if msg[0]&0x80 != 0 {
		return nil, fmt.Errorf("legacy message with version prefix")
	}

	if len(msg) < pos+3 {
		return nil, fmt.Errorf("message header truncated")
	}
	numRequired := int(msg[pos])
	pos += 3

	numKeys, n, err := decodeShortVecLen(msg[pos:])
	if err != nil {
		return nil, fmt.Errorf("account key count: %w", err)
	}
	pos += n
	if len(msg) < pos+numKeys*PublicKeyLength {
		return nil, fmt.Errorf("account key section truncated")
	}
	if numKeys < numRequired {
		return nil, fmt.Errorf("message has %d static keys but requires %d signatures", numKeys, numRequired)
	}
	if numSigs != numRequired {
		return nil, fmt.Errorf("message requires %d signatures but carries %d slots", numRequired, numSigs)
	}

	signerKeys := make([]string, numRequired)
	for i := 0; i < numRequired; i++ {
		signerKeys[i] = base58.Encode(msg[pos+i*PublicKeyLength : pos+(i+1)*PublicKeyLength])
	}

	message := make([]byte, len(msg))
	copy(message, msg)

	return &Transaction{
		Signatures: sigs,
		Message:    message,
		version:    version,
		signerKeys: signerKeys,
	}, nil
}

// Version returns the message version, or LegacyVersion.
func (tx *Transaction) Version() int {
	return tx.version
}

// SignerKeys returns the base58 public keys of the required signers in
// signature slot order.
func (tx *Transaction) SignerKeys() []string {
	keys := make([]string, len(tx.signerKeys))
	copy(keys, tx.signerKeys)
	return keys
}

// IsSigner reports whether the public key occupies a signature slot.
func (tx *Transaction) IsSigner(pubkey string) bool {
	for _, key := range tx.signerKeys {
		if key == pubkey {
			return true
		}
	}
	return false
}

// PartialSign fills the keypair's signature slot. The other slots are
// left untouched.
func (tx *Transaction) PartialSign(kp *Keypair) error {
	for i, key := range tx.signerKeys {
		if key == kp.PublicKey {
			tx.Signatures[i] = kp.Sign(tx.Message)
			return nil
		}
	}
	return fmt.Errorf("%s is not a required signer", kp.PublicKey)
}

// IsFullySigned reports whether every signature slot has been filled.
func (tx *Transaction) IsFullySigned() bool {
	empty := make([]byte, SignatureLength)
	for _, sig := range tx.Signatures {
		if bytes.Equal(sig, empty) {
			return false
		}
	}
	return len(tx.Signatures) > 0
}

// Serialize writes the transaction back to the wire format.
func (tx *Transaction) Serialize() []byte {
	out := encodeShortVecLen(len(tx.Signatures))
	for _, sig := range tx.Signatures {
		out = append(out, sig...)
	}
	return append(out, tx.Message...)
}
