package parties

import "time"

// PartyKind tags the counterparty role. Customers appear on sales documents,
// vendors on purchase documents; a party may serve both roles.
type PartyKind string

const (
	KindCustomer PartyKind = "CUSTOMER"
	KindVendor   PartyKind = "VENDOR"
)

// Party is a counterparty on a document. Only State participates in the GST
// split decision; the rest is contact data.
type Party struct {
	ID        int64     `json:"id" db:"id"`
	Kind      PartyKind `json:"kind" db:"kind"`
	Name      string    `json:"name" db:"name"`
	GSTIN     *string   `json:"gstin,omitempty" db:"gstin"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	Email     *string   `json:"email,omitempty" db:"email"`
	Address   *string   `json:"address,omitempty" db:"address"`
	State     string    `json:"state" db:"state"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// BusinessProfile is the single settings record carrying the business's own
// registration state. The comparator reads State; everything else is
// letterhead data.
type BusinessProfile struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	GSTIN     *string   `json:"gstin,omitempty" db:"gstin"`
	Address   *string   `json:"address,omitempty" db:"address"`
	State     string    `json:"state" db:"state"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreatePartyRequest is the payload for adding a party.
type CreatePartyRequest struct {
	Kind    PartyKind `json:"kind" validate:"required,oneof=CUSTOMER VENDOR"`
	Name    string    `json:"name" validate:"required,max=200"`
	GSTIN   *string   `json:"gstin,omitempty" validate:"omitempty,len=15"`
	Phone   *string   `json:"phone,omitempty" validate:"omitempty,max=20"`
	Email   *string   `json:"email,omitempty" validate:"omitempty,email"`
	Address *string   `json:"address,omitempty" validate:"omitempty,max=500"`
	State   string    `json:"state" validate:"omitempty,max=100"`
}

// UpdateProfileRequest updates the business profile settings record.
type UpdateProfileRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,max=200"`
	GSTIN   *string `json:"gstin,omitempty" validate:"omitempty,len=15"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=500"`
	State   *string `json:"state,omitempty" validate:"omitempty,max=100"`
}
