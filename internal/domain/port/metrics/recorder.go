package metrics

// Recorder collects credit ledger counters
type Recorder interface {
	// CreditsDeducted counts credits consumed by successful deductions
	CreditsDeducted(amount int)
	// InsufficientCredits counts deductions refused for lack of credits
	InsufficientCredits()
	// TopUpAttempt counts auto-top-up evaluations by outcome
	TopUpAttempt(outcome string)
	// CreditsPurchased counts credits added by purchases and auto-top-ups
	CreditsPurchased(amount int)
}
