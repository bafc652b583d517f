package domain

import (
	"net/mail"
	"time"
)

// Profile describes the business running the campaigns.
type Profile struct {
	ID           string    `json:"id"`
	BusinessName string    `json:"business_name"`
	Industry     string    `json:"industry"`
	Email        string    `json:"email"`
	Currency     string    `json:"currency"`
	CreatedAt    time.Time `json:"created_at"`
}

func (p *Profile) Validate() error {
	var v validator
	v.required("business_name", p.BusinessName)
	if p.Email != "" {
		if _, err := mail.ParseAddress(p.Email); err != nil {
			v.add("email", "is not a valid address")
		}
	}
	if p.Currency != "" && len(p.Currency) != 3 {
		v.add("currency", "must be a three-letter code")
	}
	return v.err()
}

// Benchmark returns the industry benchmark used when diagnosing this profile's campaigns.
func (p *Profile) Benchmark() Benchmark {
	if p == nil {
		return BenchmarkFor(GeneralIndustry)
	}
	return BenchmarkFor(p.Industry)
}
