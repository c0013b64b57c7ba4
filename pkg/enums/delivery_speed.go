package enums

import "fmt"

// DeliverySpeed selects the shipping fee tier at quote and checkout time.
type DeliverySpeed string

const (
	DeliverySpeedStandard DeliverySpeed = "standard"
	DeliverySpeedExpress  DeliverySpeed = "express"
)

var validDeliverySpeeds = []DeliverySpeed{
	DeliverySpeedStandard,
	DeliverySpeedExpress,
}

// String implements fmt.Stringer.
func (d DeliverySpeed) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DeliverySpeed.
func (d DeliverySpeed) IsValid() bool {
	for _, candidate := range validDeliverySpeeds {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDeliverySpeed converts raw input into a DeliverySpeed, defaulting to
// standard for the empty string.
func ParseDeliverySpeed(value string) (DeliverySpeed, error) {
	if value == "" {
		return DeliverySpeedStandard, nil
	}
	for _, candidate := range validDeliverySpeeds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery speed %q", value)
}
