package fireblocks

import (
	"encoding/hex"
	"fmt"

	"fireblocks-signer-go/internal/models"

	"github.com/mr-tron/base58"
)

// SignatureLength is the size of an ed25519 transaction signature
const SignatureLength = 64

// ExtractSignature returns the base58 transaction signature carried by tx,
// or "" if it has none yet. Signed messages take precedence over txHash; only
// a malformed signed message is an error.
func ExtractSignature(tx *models.TransactionResponse) (string, error) {
	const op = "extract signature"

	if len(tx.SignedMessages) > 0 {
		fullSig := tx.SignedMessages[0].Signature.FullSig
		if fullSig == "" {
			return "", nil
		}
		raw, err := hex.DecodeString(fullSig)
		if err != nil {
			return "", newError(ErrInvalidSignature, op, "signature is not hex encoded", err)
		}
		if len(raw) != SignatureLength {
			return "", newError(ErrInvalidSignature, op,
				fmt.Sprintf("signature is %d bytes, want %d", len(raw), SignatureLength), nil)
		}
		return base58.Encode(raw), nil
	}

	// txHash is only a signature on chains that use one as the transaction
	// id; any other hash format (0x-prefixed EVM hashes, for one) yields none.
	if tx.TxHash != "" {
		if _, err := DecodeSignature(tx.TxHash); err != nil {
			return "", nil
		}
		return tx.TxHash, nil
	}

	return "", nil
}

// DecodeSignature decodes a base58 signature into its fixed-length form
func DecodeSignature(signature string) ([SignatureLength]byte, error) {
	const op = "decode signature"
	var out [SignatureLength]byte

	raw, err := base58.Decode(signature)
	if err != nil {
		return out, newError(ErrInvalidSignature, op, "signature is not base58 encoded", err)
	}
	if len(raw) != SignatureLength {
		return out, newError(ErrInvalidSignature, op,
			fmt.Sprintf("signature is %d bytes, want %d", len(raw), SignatureLength), nil)
	}
	copy(out[:], raw)
	return out, nil
}
