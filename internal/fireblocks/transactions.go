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

package fireblocks

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"fireblocks-signer-go/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProgramCallOptions are the optional flags of a program call submission
type ProgramCallOptions struct {
	SignOnly        bool
	UseDurableNonce bool
	Note            string
}

// TransferParams contains parameters for a TRANSFER submission. Exactly one of
// DestinationAddress or DestinationVaultId must be set.
type TransferParams struct {
	AssetId            string
	VaultId            string
	DestinationAddress string
	DestinationTag     string
	DestinationVaultId string
	Amount             decimal.Decimal
	Note               string
}

// ProgramCall submits an encoded transaction to be signed and broadcast by
// the custody service.
func (c *Client) ProgramCall(ctx context.Context, assetId, vaultId, programCallData string) (*models.CreateTransactionResponse, error) {
	return c.ProgramCallWithOptions(ctx, assetId, vaultId, programCallData, ProgramCallOptions{})
}

// SignOnly submits an encoded transaction to be signed but not broadcast
func (c *Client) SignOnly(ctx context.Context, assetId, vaultId, programCallData string) (*models.CreateTransactionResponse, error) {
	return c.ProgramCallWithOptions(ctx, assetId, vaultId, programCallData, ProgramCallOptions{SignOnly: true})
}

func (c *Client) ProgramCallWithOptions(ctx context.Context, assetId, vaultId, programCallData string, opts ProgramCallOptions) (*models.CreateTransactionResponse, error) {
	extra := models.NewExtraParameters(programCallData)
	if opts.SignOnly {
		extra.WithSignOnly(true)
	}
	if opts.UseDurableNonce {
		extra.WithDurableNonce(true)
	}

	return c.CreateTransaction(ctx, models.TransactionRequest{
		Operation:       models.OperationProgramCall,
		AssetId:         assetId,
		Source:          models.VaultSource(vaultId),
		Note:            opts.Note,
		ExtraParameters: extra,
	})
}

// Transfer moves funds out of a vault account
func (c *Client) Transfer(ctx context.Context, params TransferParams) (*models.CreateTransactionResponse, error) {
	var destination *models.TransferPeerPath
	switch {
	case params.DestinationAddress != "" && params.DestinationVaultId != "":
		return nil, newError(ErrInvalidArgument, "create transaction", "only one destination may be set", nil)
	case params.DestinationAddress != "":
		destination = &models.TransferPeerPath{
			Type: models.PeerOneTimeAddress,
			OneTimeAddress: &models.OneTimeAddress{
				Address: params.DestinationAddress,
				Tag:     params.DestinationTag,
			},
		}
	case params.DestinationVaultId != "":
		dest := models.VaultSource(params.DestinationVaultId)
		destination = &dest
	default:
		return nil, newError(ErrInvalidArgument, "create transaction", "a destination is required", nil)
	}

	amount := params.Amount
	return c.CreateTransaction(ctx, models.TransactionRequest{
		Operation:   models.OperationTransfer,
		AssetId:     params.AssetId,
		Source:      models.VaultSource(params.VaultId),
		Destination: destination,
		Amount:      &amount,
		Note:        params.Note,
	})
}

// CreateTransaction submits a transaction request exactly once. It is never
// retried: a failed call may or may not have created the transaction, and
// the generated externalTxId lets the service reject a duplicate.
func (c *Client) CreateTransaction(ctx context.Context, request models.TransactionRequest) (*models.CreateTransactionResponse, error) {
	const op = "create transaction"
	if err := request.Validate(); err != nil {
		return nil, newError(ErrInvalidArgument, op, "", err)
	}
	if err := c.assets.check(op, request.AssetId); err != nil {
		return nil, err
	}
	if request.ExternalTxId == "" {
		request.ExternalTxId = uuid.NewString()
	}

	signOnly := request.ExtraParameters != nil && request.ExtraParameters.SignOnly != nil && *request.ExtraParameters.SignOnly

	c.logger.Info("Submitting transaction",
		zap.String("operation", string(request.Operation)),
		zap.String("asset_id", request.AssetId),
		zap.String("vault_id", request.Source.Id),
		zap.Bool("sign_only", signOnly),
		zap.String("external_tx_id", request.ExternalTxId))

	var response models.CreateTransactionResponse
	err := c.do(ctx, op, http.MethodPost, "/v1/transactions", request, &response, func() error {
		if response.Id == "" {
			return fmt.Errorf("response is missing transaction id")
		}
		if response.Status == "" {
			return fmt.Errorf("response is missing transaction status")
		}
		return nil
	})
	if err != nil {
		c.logger.Error("Failed to submit transaction",
			zap.String("asset_id", request.AssetId),
			zap.String("vault_id", request.Source.Id),
			zap.String("external_tx_id", request.ExternalTxId),
			zap.Error(err))
		return nil, err
	}

	c.logger.Info("Transaction submitted",
		zap.String("transaction_id", response.Id),
		zap.String("status", string(response.Status)),
		zap.String("external_tx_id", request.ExternalTxId))

	return &response, nil
}

// GetTransaction fetches a transaction and extracts its signature, if one is
// present. When a signature is present but malformed the transaction is
// returned together with an ErrInvalidSignature error.
func (c *Client) GetTransaction(ctx context.Context, txId string) (*models.TransactionResponse, string, error) {
	const op = "get transaction"
	if txId == "" {
		return nil, "", newError(ErrInvalidArgument, op, "transaction id is required", nil)
	}

	var response models.TransactionResponse
	err := c.do(ctx, op, http.MethodGet, "/v1/transactions/"+url.PathEscape(txId), nil, &response, func() error {
		if response.Id == "" {
			return fmt.Errorf("response is missing transaction id")
		}
		if response.Status == "" {
			return fmt.Errorf("response is missing transaction status")
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	signature, err := ExtractSignature(&response)
	if err != nil {
		return &response, "", err
	}
	return &response, signature, nil
}
