package model

import "github.com/shopspring/decimal"

// CreateAccountRequest defines the payload for opening an account.
// It includes validation tags to ensure data integrity at the entry point.
// The PIN digest is produced by the session layer, plaintext PINs never
// reach the ledger. The deposit stays a decimal end to end; positivity is
// checked by the ledger since validator tags cannot inspect decimals.
type CreateAccountRequest struct {
	OwnerName      string `validate:"required,min=2"`
	InitialDeposit decimal.Decimal
	PINDigest      string `validate:"required,len=64,hexadecimal"`
	Phone          string `validate:"required"`
	Address        string `validate:"required"`
	NextOfKin      string
	NextOfKinPhone string
}

func (r CreateAccountRequest) Contact() ContactInfo {
	return ContactInfo{
		Phone:          r.Phone,
		Address:        r.Address,
		NextOfKin:      r.NextOfKin,
		NextOfKinPhone: r.NextOfKinPhone,
	}
}

// UpdateContactRequest defines the payload for replacing an account's
// contact metadata. The replacement is wholesale, so the required fields
// must be present again.
type UpdateContactRequest struct {
	Phone          string `validate:"required"`
	Address        string `validate:"required"`
	NextOfKin      string
	NextOfKinPhone string
}

func (r UpdateContactRequest) Contact() ContactInfo {
	return ContactInfo{
		Phone:          r.Phone,
		Address:        r.Address,
		NextOfKin:      r.NextOfKin,
		NextOfKinPhone: r.NextOfKinPhone,
	}
}
