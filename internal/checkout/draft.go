package checkout

import "strings"

// Draft is the transient shipping/payment form state. It lives only for
// the duration of one checkout attempt and is never persisted.
type Draft struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`

	CardType       string `json:"card_type"`
	CardHolderName string `json:"card_holder_name"`
}

var cardTypes = map[string]struct{}{
	"visa":       {},
	"mastercard": {},
}

// FieldErrors maps a field name to its validation message, for inline
// display next to the offending control.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	return "invalid checkout form: " + strings.Join(parts, "; ")
}

// Validate checks every field and reports all problems at once. A draft
// with a non-nil result must not reach the payment step.
func (d Draft) Validate() FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(d.Name) == "" {
		errs["name"] = "name is required"
	}
	if strings.TrimSpace(d.Address) == "" {
		errs["address"] = "address is required"
	}
	if strings.TrimSpace(d.Phone) == "" {
		errs["phone"] = "phone is required"
	}
	if email := strings.TrimSpace(d.Email); email == "" {
		errs["email"] = "email is required"
	} else if !strings.Contains(email, "@") {
		errs["email"] = "email is not valid"
	}
	if _, ok := cardTypes[strings.ToLower(d.CardType)]; !ok {
		errs["card_type"] = "card type must be visa or mastercard"
	}
	if strings.TrimSpace(d.CardHolderName) == "" {
		errs["card_holder_name"] = "card holder name is required"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
