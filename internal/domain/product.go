package domain

import "time"

// ProductKind classifies catalog products.
type ProductKind string

const (
	ProductSIP        ProductKind = "sip"
	ProductMutualFund ProductKind = "mutual_fund"
	ProductInsurance  ProductKind = "insurance"
	ProductLoan       ProductKind = "loan"
	ProductCAService  ProductKind = "ca_service"
)

// IsValid reports whether k is a known product kind.
func (k ProductKind) IsValid() bool {
	switch k {
	case ProductSIP, ProductMutualFund, ProductInsurance, ProductLoan, ProductCAService:
		return true
	}
	return false
}

// Product is a catalog item that leads and applications reference.
// Its commission scheme drives settlement amounts.
type Product struct {
	ID         string
	Name       string
	Kind       ProductKind
	Commission CommissionScheme
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
