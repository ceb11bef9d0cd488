package domain

// Categories lists every accepted job category.
var Categories = []string{
	"Pricing",
	"Monetization",
	"Revenue Strategy",
	"Commercial Strategy",
}

var SeniorityLevels = []string{
	"Analyst",
	"Manager",
	"Senior",
	"Lead",
	"Head/Director",
	"VP",
}

var Regions = []string{
	"Europe",
	"UK",
	"US",
	"Canada",
	"APAC",
}

var LocationTypes = []string{
	"Remote",
	"Hybrid",
	"Onsite",
}

// Currency describes a salary currency
type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

var Currencies = []Currency{
	{Code: "EUR", Symbol: "€", Name: "Euro"},
	{Code: "USD", Symbol: "$", Name: "US Dollar"},
	{Code: "GBP", Symbol: "£", Name: "British Pound"},
	{Code: "CAD", Symbol: "C$", Name: "Canadian Dollar"},
	{Code: "AUD", Symbol: "A$", Name: "Australian Dollar"},
	{Code: "CHF", Symbol: "CHF", Name: "Swiss Franc"},
}

// Industries are suggestions only; the industry field is free text.
var Industries = []string{
	"Technology",
	"Fintech",
	"E-commerce",
	"SaaS",
	"Healthcare",
	"Entertainment",
	"Travel",
	"Delivery",
	"Retail",
	"Automotive",
	"Energy",
	"Consulting",
	"Other",
}

// CurrencyCodes returns the codes of Currencies in order
func CurrencyCodes() []string {
	codes := make([]string, len(Currencies))
	for i, c := range Currencies {
		codes[i] = c.Code
	}
	return codes
}

// ParseStatus converts a raw string to a Status.
func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusPending, StatusApproved, StatusRejected, StatusExpired:
		return st, true
	}
	return "", false
}
