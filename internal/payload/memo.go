/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package payload

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/memo"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

// MemoBuilder builds memo transactions against a recent blockhash from RPC
type MemoBuilder struct {
	rpc *rpc.Client
}

func NewMemoBuilder(rpcUrl string) *MemoBuilder {
	return &MemoBuilder{rpc: rpc.New(rpcUrl)}
}

// Build fetches a finalized blockhash and returns a memo transaction paid by
// feePayer, partially signed by cosigners.
func (b *MemoBuilder) Build(ctx context.Context, feePayer solana.PublicKey, message string, cosigners ...solana.PrivateKey) (*solana.Transaction, error) {
	latest, err := b.rpc.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest blockhash: %w", err)
	}
	if latest == nil || latest.Value == nil {
		return nil, fmt.Errorf("no blockhash in RPC response")
	}

	zap.L().Debug("Fetched blockhash",
		zap.String("blockhash", latest.Value.Blockhash.String()),
		zap.Uint64("last_valid_block_height", latest.Value.LastValidBlockHeight))

	return NewMemoTransaction(feePayer, message, latest.Value.Blockhash, cosigners...)
}

// Broadcast sends a fully signed transaction and returns its signature
func (b *MemoBuilder) Broadcast(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	if err := tx.VerifySignatures(); err != nil {
		return solana.Signature{}, fmt.Errorf("transaction is not fully signed: %w", err)
	}
	sig, err := b.rpc.SendTransaction(ctx, tx)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to send transaction: %w", err)
	}
	return sig, nil
}

// NewMemoTransaction builds a memo transaction with feePayer as the first
// signer. The fee payer's signature slot is left zeroed for the custody
// service to fill.
func NewMemoTransaction(feePayer solana.PublicKey, message string, blockhash solana.Hash, cosigners ...solana.PrivateKey) (*solana.Transaction, error) {
	builder := memo.NewMemoInstructionBuilder().
		SetMessage([]byte(message)).
		SetSigner(feePayer)
	for _, cosigner := range cosigners {
		builder.AccountMetaSlice = append(builder.AccountMetaSlice, solana.Meta(cosigner.PublicKey()).SIGNER())
	}

	instruction, err := builder.ValidateAndBuild()
	if err != nil {
		return nil, fmt.Errorf("invalid memo instruction: %w", err)
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{instruction},
		blockhash,
		solana.TransactionPayer(feePayer),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	tx.Signatures = make([]solana.Signature, tx.Message.Header.NumRequiredSignatures)

	if len(cosigners) > 0 {
		_, err = tx.PartialSign(func(key solana.PublicKey) *solana.PrivateKey {
			for _, signer := range cosigners {
				if key.Equals(signer.PublicKey()) {
					return &signer
				}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to sign transaction: %w", err)
		}
	}

	return tx, nil
}

// Encode serializes a transaction into the base64 form the custody API
// accepts as program call data.
func Encode(tx *solana.Transaction) (string, error) {
	encoded, err := tx.ToBase64()
	if err != nil {
		return "", fmt.Errorf("failed to serialize transaction: %w", err)
	}
	return encoded, nil
}

// AttachSignature places the custody signature in the fee payer's slot
func AttachSignature(tx *solana.Transaction, signature [64]byte) error {
	if len(tx.Signatures) == 0 {
		return fmt.Errorf("transaction has no signature slots")
	}
	tx.Signatures[0] = solana.SignatureFromBytes(signature[:])
	return tx.VerifySignatures()
}
