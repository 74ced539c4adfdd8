package metrics

// NoopRecorder discards every measurement; used when metrics are disabled
type NoopRecorder struct{}

func (NoopRecorder) CreditsDeducted(int) {}

func (NoopRecorder) InsufficientCredits() {}

func (NoopRecorder) TopUpAttempt(string) {}

func (NoopRecorder) CreditsPurchased(int) {}

func (NoopRecorder) ObserveRequest(string, string, int, float64) {}
