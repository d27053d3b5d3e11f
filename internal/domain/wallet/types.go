package wallet

type Direction string

const (
	DirectionDebit  Direction = "DEBIT"
	DirectionCredit Direction = "CREDIT"
)

func (d Direction) String() string {
	return string(d)
}

// Sign is -1 for debits and +1 for credits.
func (d Direction) Sign() int64 {
	if d == DirectionDebit {
		return -1
	}
	return 1
}

type EntryType string

const (
	EntryTypeSendP2P    EntryType = "SEND_P2P"
	EntryTypeReceiveP2P EntryType = "RECEIVE_P2P"
	EntryTypeDeposit    EntryType = "DEPOSIT"
)

func (t EntryType) String() string {
	return string(t)
}

type RefType string

const (
	RefTypePaymentSession RefType = "PAYMENT_SESSION"
	RefTypeDeposit        RefType = "DEPOSIT"
)

func (r RefType) String() string {
	return string(r)
}
