package shipping

import (
	"sort"
)

// UnknownDimension is reported for every dimension field of a product the
// dimension source does not know.
const UnknownDimension = -1000.0

// Attribute keys understood by the validation rules.
const (
	AttrAirAllowed = "isAirAllowed"
	AttrCSN        = "csn"
)

// ItemDimensions holds the physical size of a product.
type ItemDimensions struct {
	Length float64
	Width  float64
	Height float64
	Weight float64
}

// UnknownDimensions returns the sentinel dimensions used for products without
// dimension data.
func UnknownDimensions() ItemDimensions {
	return ItemDimensions{
		Length: UnknownDimension,
		Width:  UnknownDimension,
		Height: UnknownDimension,
		Weight: UnknownDimension,
	}
}

// DimensionTriple is the three spatial dimensions sorted descending.
type DimensionTriple struct {
	Max float64
	Mid float64
	Min float64
}

// Triple sorts the spatial dimensions so that Max >= Mid >= Min.
func (d ItemDimensions) Triple() DimensionTriple {
	dims := []float64{d.Length, d.Width, d.Height}
	sort.Sort(sort.Reverse(sort.Float64Slice(dims)))
	return DimensionTriple{Max: dims[0], Mid: dims[1], Min: dims[2]}
}

// Volume returns length × width × height.
func (d ItemDimensions) Volume() float64 {
	return d.Length * d.Width * d.Height
}

// Item is the package built for a single selection request.
type Item struct {
	ProductID  string
	Dimensions ItemDimensions
	Attributes map[string]any
}

// NewItem creates an item with an empty attribute map.
func NewItem(productID string, dims ItemDimensions) *Item {
	return &Item{
		ProductID:  productID,
		Dimensions: dims,
		Attributes: make(map[string]any),
	}
}

// Weight returns the actual weight of the item.
func (i *Item) Weight() float64 {
	return i.Dimensions.Weight
}

// Triple returns the ordered dimensions of the item.
func (i *Item) Triple() DimensionTriple {
	return i.Dimensions.Triple()
}

// SetAttribute stores an attribute on the item.
func (i *Item) SetAttribute(key string, value any) {
	if i.Attributes == nil {
		i.Attributes = make(map[string]any)
	}
	i.Attributes[key] = value
}

// AirAllowed reports whether the isAirAllowed attribute is set to true.
func (i *Item) AirAllowed() bool {
	v, ok := i.Attributes[AttrAirAllowed].(bool)
	return ok && v
}

// CSN returns the csn attribute, or "" when unset.
func (i *Item) CSN() string {
	v, _ := i.Attributes[AttrCSN].(string)
	return v
}

// ShippingMethod describes one entry of a connector's shipping catalog.
type ShippingMethod struct {
	ID       string `yaml:"id" json:"id" validate:"required"`
	Type     string `yaml:"type" json:"type" validate:"required"`
	Courier  string `yaml:"courier" json:"courier" validate:"required"`
	Priority int    `yaml:"priority" json:"priority" validate:"gte=0"`
}

// CostQuote is a single priced option returned by the cost-quote service.
type CostQuote struct {
	ID   string
	Name string
	Cost float64
}

// Candidate is an in-stock connector found during candidate resolution.
type Candidate struct {
	Connector Connector
	CSN       string
}

// SelectionResult is the winning shipping method for a product.
type SelectionResult struct {
	ID             string  `json:"id"`
	Supplier       string  `json:"supplier"`
	ShippingType   string  `json:"shippingType,omitempty"`
	ShippingMethod string  `json:"shippingMethod,omitempty"`
	Courier        string  `json:"courier,omitempty"`
	Priority       int     `json:"priority"`
	Cost           float64 `json:"cost"`
}
