// Package model holds the GraphQL types that have no domain counterpart.
package model

import "github.com/rratsunrollun/rollun-usps/pkg/shipping"

// Supplier is the GraphQL view of a connector.
type Supplier struct {
	Name      string                    `json:"name"`
	OriginZip string                    `json:"originZip"`
	Methods   []shipping.ShippingMethod `json:"methods"`
}
