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

package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionOperation is the kind of transaction submitted to the custody API
type TransactionOperation string

const (
	OperationProgramCall  TransactionOperation = "PROGRAM_CALL"
	OperationTransfer     TransactionOperation = "TRANSFER"
	OperationRaw          TransactionOperation = "RAW"
	OperationTypedMessage TransactionOperation = "TYPED_MESSAGE"
)

// TransactionStatus is the lifecycle state reported by the custody API
type TransactionStatus string

const (
	StatusSubmitted                     TransactionStatus = "SUBMITTED"
	StatusQueued                        TransactionStatus = "QUEUED"
	StatusPendingAmlScreening           TransactionStatus = "PENDING_AML_SCREENING"
	StatusPendingEnrichment             TransactionStatus = "PENDING_ENRICHMENT"
	StatusPendingAuthorization          TransactionStatus = "PENDING_AUTHORIZATION"
	StatusPendingSignature              TransactionStatus = "PENDING_SIGNATURE"
	StatusPending3rdPartyManualApproval TransactionStatus = "PENDING_3RD_PARTY_MANUAL_APPROVAL"
	StatusPending3rdParty               TransactionStatus = "PENDING_3RD_PARTY"
	StatusBroadcasting                  TransactionStatus = "BROADCASTING"
	StatusConfirming                    TransactionStatus = "CONFIRMING"
	StatusCancelling                    TransactionStatus = "CANCELLING"
	StatusCompleted                     TransactionStatus = "COMPLETED"
	StatusCancelled                     TransactionStatus = "CANCELLED"
	StatusRejected                      TransactionStatus = "REJECTED"
	StatusBlocked                       TransactionStatus = "BLOCKED"
	StatusFailed                        TransactionStatus = "FAILED"
	StatusTimeout                       TransactionStatus = "TIMEOUT"
)

// Terminal reports whether no further transition can occur from this status.
// Statuses this client does not know about are treated as in-flight.
func (s TransactionStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusRejected, StatusBlocked, StatusFailed, StatusTimeout:
		return true
	}
	return false
}

// Succeeded reports whether the status is the single successful terminal state
func (s TransactionStatus) Succeeded() bool {
	return s == StatusCompleted
}

// PeerType identifies what a TransferPeerPath points at
type PeerType string

const (
	PeerVaultAccount   PeerType = "VAULT_ACCOUNT"
	PeerOneTimeAddress PeerType = "ONE_TIME_ADDRESS"
	PeerExternalWallet PeerType = "EXTERNAL_WALLET"
)

// OneTimeAddress is a destination address not registered in the workspace
type OneTimeAddress struct {
	Address string `json:"address"`
	Tag     string `json:"tag,omitempty"`
}

// TransferPeerPath is a source or destination reference
type TransferPeerPath struct {
	Type           PeerType        `json:"type"`
	Id             string          `json:"id,omitempty"`
	OneTimeAddress *OneTimeAddress `json:"oneTimeAddress,omitempty"`
}

// VaultSource builds a source reference to a vault account
func VaultSource(vaultId string) TransferPeerPath {
	return TransferPeerPath{Type: PeerVaultAccount, Id: vaultId}
}

// ExtraParameters carries the encoded program call and its optional flags
type ExtraParameters struct {
	ProgramCallData string `json:"programCallData"`
	SignOnly        *bool  `json:"signOnly,omitempty"`
	UseDurableNonce *bool  `json:"useDurableNonce,omitempty"`
}

// NewExtraParameters wraps program call data with no optional flags set
func NewExtraParameters(programCallData string) *ExtraParameters {
	return &ExtraParameters{ProgramCallData: programCallData}
}

// WithSignOnly sets the sign-only flag
func (p *ExtraParameters) WithSignOnly(v bool) *ExtraParameters {
	p.SignOnly = &v
	return p
}

// WithDurableNonce sets the durable nonce flag
func (p *ExtraParameters) WithDurableNonce(v bool) *ExtraParameters {
	p.UseDurableNonce = &v
	return p
}

// TransactionRequest is the body of a create-transaction call
type TransactionRequest struct {
	Operation       TransactionOperation `json:"operation"`
	AssetId         string               `json:"assetId"`
	Source          TransferPeerPath     `json:"source"`
	Destination     *TransferPeerPath    `json:"destination,omitempty"`
	Amount          *decimal.Decimal     `json:"amount,omitempty"`
	Note            string               `json:"note,omitempty"`
	ExternalTxId    string               `json:"externalTxId,omitempty"`
	ExtraParameters *ExtraParameters     `json:"extraParameters,omitempty"`
}

// Validate checks the fields that must be present before submission
func (r *TransactionRequest) Validate() error {
	if r.AssetId == "" {
		return fmt.Errorf("asset id is required")
	}
	if r.Source.Id == "" {
		return fmt.Errorf("source id is required")
	}
	if r.Operation == "" {
		return fmt.Errorf("operation is required")
	}
	if r.Operation == OperationProgramCall && (r.ExtraParameters == nil || r.ExtraParameters.ProgramCallData == "") {
		return fmt.Errorf("program call data is required for %s", r.Operation)
	}
	if r.Amount != nil && !r.Amount.IsPositive() {
		return fmt.Errorf("amount must be greater than zero")
	}
	return nil
}

// CreateTransactionResponse is returned once per submission
type CreateTransactionResponse struct {
	Id     string            `json:"id"`
	Status TransactionStatus `json:"status"`
}

func (r CreateTransactionResponse) String() string {
	return fmt.Sprintf("%s (%s)", r.Id, r.Status)
}

// MessageSignature is the raw signature returned for a signed message
type MessageSignature struct {
	FullSig string `json:"fullSig"`
	R       string `json:"r,omitempty"`
	S       string `json:"s,omitempty"`
	V       *int   `json:"v,omitempty"`
}

// SignedMessage is a message the custody service signed on behalf of a vault
type SignedMessage struct {
	Content        string           `json:"content,omitempty"`
	Algorithm      string           `json:"algorithm,omitempty"`
	DerivationPath []int            `json:"derivationPath,omitempty"`
	Signature      MessageSignature `json:"signature"`
	PublicKey      string           `json:"publicKey,omitempty"`
}

// TransactionResponse is the state of a transaction as reported by the custody API
type TransactionResponse struct {
	Id             string               `json:"id"`
	Status         TransactionStatus    `json:"status"`
	SubStatus      string               `json:"subStatus,omitempty"`
	TxHash         string               `json:"txHash,omitempty"`
	AssetId        string               `json:"assetId,omitempty"`
	Operation      TransactionOperation `json:"operation,omitempty"`
	Note           string               `json:"note,omitempty"`
	ExternalTxId   string               `json:"externalTxId,omitempty"`
	SignedMessages []SignedMessage      `json:"signedMessages,omitempty"`
	CreatedAt      int64                `json:"createdAt,omitempty"`
	LastUpdated    int64                `json:"lastUpdated,omitempty"`
}

// LastUpdatedTime converts the millisecond timestamp into a time.Time
func (r *TransactionResponse) LastUpdatedTime() time.Time {
	if r.LastUpdated == 0 {
		return time.Time{}
	}
	return time.UnixMilli(r.LastUpdated).UTC()
}

func (r TransactionResponse) String() string {
	if r.SubStatus != "" {
		return fmt.Sprintf("%s %s/%s", r.Id, r.Status, r.SubStatus)
	}
	return fmt.Sprintf("%s %s", r.Id, r.Status)
}
