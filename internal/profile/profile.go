// Package profile holds the business description a content plan is generated for.
package profile

import (
	"fmt"
	"strings"
)

// BusinessType is the kind of business being planned for. Values are the
// labels shown to users.
type BusinessType string

const (
	Cafe          BusinessType = "Café"
	Restaurant    BusinessType = "Restaurant"
	Barbershop    BusinessType = "Barbershop"
	ClothingStore BusinessType = "Clothing Store"
	RealEstate    BusinessType = "Real Estate"
	Gym           BusinessType = "Gym/Fitness"
	Other         BusinessType = "Other"
)

var businessTypes = []BusinessType{Cafe, Restaurant, Barbershop, ClothingStore, RealEstate, Gym, Other}

var businessTypeAliases = map[string]BusinessType{
	"cafe":           Cafe,
	"restaurant":     Restaurant,
	"barbershop":     Barbershop,
	"clothing_store": ClothingStore,
	"clothingstore":  ClothingStore,
	"real_estate":    RealEstate,
	"realestate":     RealEstate,
	"gym":            Gym,
	"fitness":        Gym,
	"other":          Other,
}

// BusinessTypes returns every business type in display order.
func BusinessTypes() []BusinessType {
	out := make([]BusinessType, len(businessTypes))
	copy(out, businessTypes)
	return out
}

// Valid reports whether t is one of the known business types.
func (t BusinessType) Valid() bool {
	for _, bt := range businessTypes {
		if t == bt {
			return true
		}
	}
	return false
}

// ParseBusinessType accepts a display label ("Gym/Fitness") or an identifier
// ("gym", "clothing_store"), case-insensitively.
func ParseBusinessType(s string) (BusinessType, error) {
	needle := strings.TrimSpace(s)
	for _, bt := range businessTypes {
		if strings.EqualFold(needle, string(bt)) {
			return bt, nil
		}
	}
	if bt, ok := businessTypeAliases[strings.ToLower(needle)]; ok {
		return bt, nil
	}
	return "", fmt.Errorf("unknown business type %q", s)
}

// UnmarshalText normalizes any spelling ParseBusinessType accepts. Unknown
// values are kept verbatim so Validate can report them.
func (t *BusinessType) UnmarshalText(text []byte) error {
	if bt, err := ParseBusinessType(string(text)); err == nil {
		*t = bt
		return nil
	}
	*t = BusinessType(strings.TrimSpace(string(text)))
	return nil
}

// BusinessProfile describes the business a plan is generated for.
// WebsiteBrief is optional extra context gathered from the business website.
type BusinessProfile struct {
	BusinessName   string       `json:"businessName"`
	BusinessType   BusinessType `json:"businessType"`
	Niche          string       `json:"niche"`
	Location       string       `json:"location"`
	TargetAudience string       `json:"targetAudience"`
	WebsiteBrief   string       `json:"websiteBrief,omitempty"`
}

// ValidationError lists the fields that block submission.
type ValidationError struct {
	Missing     []string
	UnknownType BusinessType
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required fields: "+strings.Join(e.Missing, ", "))
	}
	if e.UnknownType != "" {
		parts = append(parts, fmt.Sprintf("unknown business type %q", e.UnknownType))
	}
	return "invalid business profile: " + strings.Join(parts, "; ")
}

// Validate checks that all five required fields are present. Values are
// taken as entered: nothing is trimmed or case-folded.
func (p BusinessProfile) Validate() error {
	verr := &ValidationError{}
	if p.BusinessName == "" {
		verr.Missing = append(verr.Missing, "businessName")
	}
	if p.BusinessType == "" {
		verr.Missing = append(verr.Missing, "businessType")
	} else if !p.BusinessType.Valid() {
		verr.UnknownType = p.BusinessType
	}
	if p.Niche == "" {
		verr.Missing = append(verr.Missing, "niche")
	}
	if p.Location == "" {
		verr.Missing = append(verr.Missing, "location")
	}
	if p.TargetAudience == "" {
		verr.Missing = append(verr.Missing, "targetAudience")
	}

	if len(verr.Missing) == 0 && verr.UnknownType == "" {
		return nil
	}
	return verr
}
