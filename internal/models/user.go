package models

// User owns exactly one wallet. Credentials live with the identity provider
// that issues bearer tokens; only the attributes the ledger needs are kept.
type User struct {
	Base
	Username string  `gorm:"uniqueIndex;not null" json:"username"`
	Email    string  `json:"email"`
	IsStaff  bool    `gorm:"default:false" json:"is_staff"`
	IsActive bool    `gorm:"default:true" json:"is_active"`
	Wallet   *Wallet `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"wallet,omitempty"`
}
