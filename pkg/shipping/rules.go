package shipping

import (
	"strings"
)

// DimWeightDivisor converts cubic inches to billable pounds.
const DimWeightDivisor = 166.0

const uspsMarker = "-Usps-"

// USPS package subtypes with their own limits.
const (
	UspsFirstClassPackage      = "FtCls-Package"
	UspsFlatRateEnvelope       = "PM-FR-Env"
	UspsFlatRateLegalEnvelope  = "PM-FR-LegalEnv"
	UspsFlatRatePaddedEnvelope = "PM-FR-Pad-Env"
)

const (
	firstClassMaxWeight  = 0.9
	envelopeMaxWeight    = 5.0
	bigEnvelopeMaxWeight = 7.0
)

// VolumetricWeight returns the dimensional weight of a package.
func VolumetricWeight(d ItemDimensions) float64 {
	return d.Volume() / DimWeightDivisor
}

// EffectiveWeight returns the larger of the actual and volumetric weight.
func EffectiveWeight(d ItemDimensions) float64 {
	if vw := VolumetricWeight(d); vw > d.Weight {
		return vw
	}
	return d.Weight
}

// UspsSubtype extracts the USPS subtype from a method id such as
// "RM-Usps-PM-FR-Env". ok is false when the method is not a USPS one.
func UspsSubtype(methodID string) (subtype string, ok bool) {
	idx := strings.Index(methodID, uspsMarker)
	if idx < 0 {
		return "", false
	}
	return methodID[idx+len(uspsMarker):], true
}

// IsUsps reports whether a method id names a USPS service.
func IsUsps(methodID string) bool {
	_, ok := UspsSubtype(methodID)
	return ok
}

// IsUspsValid applies the carrier-agnostic USPS package rules. Methods that
// are not USPS are always valid.
func IsUspsValid(item *Item, destinationZip, methodID string) bool {
	subtype, ok := UspsSubtype(methodID)
	if !ok {
		return true
	}
	if !item.AirAllowed() {
		return false
	}

	switch subtype {
	case UspsFirstClassPackage:
		return item.Weight() <= firstClassMaxWeight
	case UspsFlatRateEnvelope:
		return envelopeFits(item, envelopeMaxWeight)
	case UspsFlatRateLegalEnvelope, UspsFlatRatePaddedEnvelope:
		return envelopeFits(item, bigEnvelopeMaxWeight)
	}
	return true
}

func envelopeFits(item *Item, maxWeight float64) bool {
	if item.Triple().Max <= 0 {
		return false
	}
	return EffectiveWeight(item.Dimensions) <= maxWeight
}
