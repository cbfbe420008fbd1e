package ethuri

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vitwit/walletlink/clients"
	"github.com/vitwit/walletlink/logger"
	"github.com/vitwit/walletlink/metrics"
	"github.com/vitwit/walletlink/network"
	"github.com/vitwit/walletlink/types"
	"github.com/vitwit/walletlink/utils"
)

// Handler acts on payment URIs.
type Handler struct {
	navigator  clients.Navigator
	dispatcher clients.Dispatcher
	guard      *network.Guard
	txs        clients.TransactionSubmitter
	accounts   clients.AccountSource
	resolver   clients.AddressResolver
	log        logger.Logger
	metrics    metrics.Recorder
}

// Deps groups the capabilities a Handler needs.
type Deps struct {
	Navigator    clients.Navigator
	Dispatcher   clients.Dispatcher
	Guard        *network.Guard
	Transactions clients.TransactionSubmitter
	Accounts     clients.AccountSource
	Resolver     clients.AddressResolver
	Logger       logger.Logger
	Metrics      metrics.Recorder
}

func NewHandler(d Deps) *Handler {
	h := &Handler{
		navigator:  d.Navigator,
		dispatcher: d.Dispatcher,
		guard:      d.Guard,
		txs:        d.Transactions,
		accounts:   d.Accounts,
		resolver:   d.Resolver,
		log:        d.Logger,
		metrics:    d.Metrics,
	}
	if h.resolver == nil {
		h.resolver = clients.HexResolver{}
	}
	if h.log == nil {
		h.log = logger.NoopLogger{}
	}
	if h.metrics == nil {
		h.metrics = metrics.NoopRecorder{}
	}
	return h
}

// Handle decodes raw and runs the matching flow. Decode and network failures
// are reported to the user here and return nil. Approve validation and
// submission failures are returned for the caller to report.
func (h *Handler) Handle(ctx context.Context, raw, originID string) error {
	intent, err := Parse(raw)
	if err != nil {
		h.log.Warn("invalid payment uri", map[string]any{"uri": raw, "error": err})
		h.dispatcher.ShowAlert(types.Alert{
			Kind:    types.AlertInvalidLink,
			Title:   "Invalid link",
			Message: err.Error(),
		})
		return nil
	}

	// The network must be settled before any transaction parameters are built.
	if intent.ChainID != "" {
		if err := h.guard.Ensure(ctx, intent.ChainID); err != nil {
			h.alertNetwork(err, intent.ChainID)
			return nil
		}
	}

	switch intent.FunctionName {
	case types.FunctionTransfer:
		h.navigate(types.ScreenSendToken, intent, originID)
		return nil
	case types.FunctionApprove:
		return h.approve(ctx, intent, originID)
	default:
		if intent.Param(types.ParamValue) != "" {
			h.navigate(types.ScreenSendNative, intent, originID)
		} else {
			h.navigate(types.ScreenChooseRecipient, intent, originID)
		}
		return nil
	}
}

func (h *Handler) navigate(screen types.Screen, intent *types.PaymentIntent, originID string) {
	h.navigator.Navigate(types.Navigation{Screen: screen, Intent: intent, OriginID: originID})
}

func (h *Handler) alertNetwork(err error, chainID string) {
	h.log.Warn("network switch failed", map[string]any{"chainId": chainID, "error": err})

	if types.IsCode(err, types.ErrMissingNetworkID) {
		h.dispatcher.ShowAlert(types.Alert{
			Kind:    types.AlertMissingNetworkID,
			Title:   "Network not found",
			Message: "The requested network id is missing or not supported.",
		})
		return
	}
	h.dispatcher.ShowAlert(types.Alert{
		Kind:    types.AlertNetworkNotFound,
		Title:   "Network not found",
		Message: fmt.Sprintf("Network with chain id %s not found in your wallet.", chainID),
	})
}

// approve builds and submits an ERC-20 approve. An unresolvable spender is
// reported but does not stop the submission.
func (h *Handler) approve(ctx context.Context, intent *types.PaymentIntent, originID string) error {
	amount, err := utils.ValidateUint256(intent.Param(types.ParamUint256))
	if err != nil {
		return err
	}

	spender, err := h.resolver.Resolve(ctx, intent.Param(types.ParamAddress))
	if err != nil {
		h.log.Warn("approve spender unresolved", map[string]any{
			"address": intent.Param(types.ParamAddress),
			"error":   err,
		})
		h.dispatcher.ShowAlert(types.Alert{
			Kind:    types.AlertInvalidRecipient,
			Title:   "Invalid recipient",
			Message: "The spender address could not be resolved.",
		})
		h.navigator.Navigate(types.Navigation{Screen: types.ScreenWalletHome, OriginID: originID})
		spender = common.Address{}
	}

	token, err := utils.ValidateAddress(intent.TargetAddress)
	if err != nil {
		if token, err = h.resolver.Resolve(ctx, intent.TargetAddress); err != nil {
			return err
		}
	}

	data, err := clients.EncodeApprove(spender, amount)
	if err != nil {
		return &types.WalletLinkError{Code: types.ErrValidationFailed, Message: "failed to encode approve", Err: err}
	}

	tx := types.TransactionRequest{
		From:            h.accounts.SelectedAddress(),
		To:              token,
		Value:           new(big.Int),
		Data:            data,
		Origin:          originID,
		DeviceConfirmed: true,
	}

	if err := h.txs.Submit(ctx, tx); err != nil {
		return &types.WalletLinkError{
			Code:    types.ErrSubmissionFailed,
			Message: "failed to submit approve transaction",
			Err:     err,
		}
	}

	h.metrics.IncCounter(metrics.TxSubmitted, map[string]string{"action": string(types.FunctionApprove)})
	h.log.Info("approve submitted", map[string]any{
		"token":   token.Hex(),
		"spender": spender.Hex(),
		"amount":  amount.String(),
		"origin":  originID,
	})
	return nil
}
