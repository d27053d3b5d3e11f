package commands

import (
	"context"
	"time"

	"proximity-pay/internal/domain/wallet"
	"proximity-pay/internal/pkg/clock"
	"proximity-pay/internal/pkg/metrics"
	"proximity-pay/internal/usecase/shared"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const tracerName = "proximity-pay/usecase/commands"

type TransferParams struct {
	FromWalletID uuid.UUID
	ToWalletID   uuid.UUID
	AmountCents  int64
	RefType      wallet.RefType
	RefID        string
}

type TransferResult struct {
	FromBalanceCents int64
	ToBalanceCents   int64
	Debit            wallet.Entry
	Credit           wallet.Entry
}

type DepositParams struct {
	WalletID    uuid.UUID
	AmountCents int64
	RefID       string
}

type DepositResult struct {
	BalanceCents int64
	Credit       wallet.Entry
}

type LedgerCommands interface {
	// Transfer runs in its own transaction.
	Transfer(ctx context.Context, p TransferParams) (*TransferResult, error)
	// TransferWithin joins the caller's transaction so the transfer commits
	// or rolls back together with the caller's other writes.
	TransferWithin(ctx context.Context, tx shared.Tx, p TransferParams) (*TransferResult, error)
	// Deposit credits money coming from outside the ledger, such as an
	// opening balance. The balance and its DEPOSIT entry change together.
	Deposit(ctx context.Context, p DepositParams) (*DepositResult, error)
}

type ledgerCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewLedgerCommands(uow shared.UnitOfWork, clk clock.Clock) LedgerCommands {
	return &ledgerCommandsImpl{uow: uow, clock: clk}
}

func (uc *ledgerCommandsImpl) Transfer(ctx context.Context, p TransferParams) (*TransferResult, error) {
	var result *TransferResult
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		r, err := uc.TransferWithin(ctx, tx, p)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}
	metrics.TransferredCentsTotal.Add(float64(p.AmountCents))
	return result, nil
}

func (uc *ledgerCommandsImpl) TransferWithin(ctx context.Context, tx shared.Tx, p TransferParams) (result *TransferResult, err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "LedgerCommands.Transfer")
	span.SetAttributes(
		attribute.String("ledger.from_wallet_id", p.FromWalletID.String()),
		attribute.String("ledger.to_wallet_id", p.ToWalletID.String()),
		attribute.Int64("ledger.amount_cents", p.AmountCents),
		attribute.String("ledger.ref", string(p.RefType)+":"+p.RefID),
	)
	start := time.Now()
	defer func() {
		metrics.TransferDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	now := uc.clock.Now()
	transfer, err := wallet.NewTransfer(p.FromWalletID, p.ToWalletID, p.AmountCents, p.RefType, p.RefID, now)
	if err != nil {
		return nil, classify(err)
	}

	from, err := tx.Wallets().FindByIDForUpdate(ctx, tx.DB(), transfer.FromWalletID())
	if err != nil {
		return nil, classify(err)
	}
	if err := from.CanDebit(transfer.AmountCents()); err != nil {
		return nil, classify(err)
	}

	fromBalance, err := tx.Wallets().AddBalance(ctx, tx.DB(), transfer.FromWalletID(), -transfer.AmountCents(), now)
	if err != nil {
		return nil, classify(err)
	}
	toBalance, err := tx.Wallets().AddBalance(ctx, tx.DB(), transfer.ToWalletID(), transfer.AmountCents(), now)
	if err != nil {
		return nil, classify(err)
	}

	debit, credit := transfer.Entries()
	if err := tx.Ledger().Append(ctx, tx.DB(), debit, credit); err != nil {
		return nil, classify(err)
	}

	return &TransferResult{
		FromBalanceCents: fromBalance,
		ToBalanceCents:   toBalance,
		Debit:            debit,
		Credit:           credit,
	}, nil
}

func (uc *ledgerCommandsImpl) Deposit(ctx context.Context, p DepositParams) (*DepositResult, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "LedgerCommands.Deposit")
	defer span.End()
	span.SetAttributes(
		attribute.String("ledger.wallet_id", p.WalletID.String()),
		attribute.Int64("ledger.amount_cents", p.AmountCents),
	)

	var result *DepositResult
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := uc.clock.Now()
		deposit, err := wallet.NewDeposit(p.WalletID, p.AmountCents, p.RefID, now)
		if err != nil {
			return err
		}
		if _, err := tx.Wallets().FindByIDForUpdate(ctx, tx.DB(), deposit.WalletID()); err != nil {
			return err
		}
		balance, err := tx.Wallets().AddBalance(ctx, tx.DB(), deposit.WalletID(), deposit.AmountCents(), now)
		if err != nil {
			return err
		}
		credit := deposit.Entry()
		if err := tx.Ledger().Append(ctx, tx.DB(), credit); err != nil {
			return err
		}
		result = &DepositResult{BalanceCents: balance, Credit: credit}
		return nil
	})
	if err != nil {
		err = classify(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return result, nil
}
