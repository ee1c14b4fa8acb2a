package mpesa

import "errors"

// ErrInvalidPhoneNumber is returned before any gateway call when the payer
// phone is not in the 254XXXXXXXXX format.
var ErrInvalidPhoneNumber = errors.New("phone number must be in the format 254XXXXXXXXX")

// ValidatePhoneNumber checks the Kenyan MSISDN format the gateway expects:
// country code 254 followed by nine digits, twelve characters total.
func ValidatePhoneNumber(phone string) error {
	if len(phone) != 12 {
		return ErrInvalidPhoneNumber
	}
	if phone[:3] != "254" {
		return ErrInvalidPhoneNumber
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return ErrInvalidPhoneNumber
		}
	}
	return nil
}
