package converter

import (
	"proximity-pay/internal/domain/wallet"
	sqlc "proximity-pay/internal/infra/sqlc/generated"
	"proximity-pay/internal/pkg/pgconv"
)

func WalletFromInfra(row sqlc.WalletAccounts) *wallet.Wallet {
	return wallet.Reconstruct(row.ID, row.UserID, row.AvailableCents, pgconv.TimeFromPgtype(row.UpdatedAt))
}

func EntryToInsertParams(e wallet.Entry) sqlc.InsertLedgerEntryParams {
	return sqlc.InsertLedgerEntryParams{
		WalletID:    e.WalletID,
		Type:        e.Type.String(),
		Direction:   e.Direction.String(),
		AmountCents: e.AmountCents,
		RefType:     e.RefType.String(),
		RefID:       e.RefID,
		CreatedAt:   pgconv.TimeToPgtype(e.CreatedAt),
	}
}

func EntryFromInfra(row sqlc.LedgerEntries) wallet.Entry {
	return wallet.Entry{
		WalletID:    row.WalletID,
		Type:        wallet.EntryType(row.Type),
		Direction:   wallet.Direction(row.Direction),
		AmountCents: row.AmountCents,
		RefType:     wallet.RefType(row.RefType),
		RefID:       row.RefID,
		CreatedAt:   pgconv.TimeFromPgtype(row.CreatedAt),
	}
}
