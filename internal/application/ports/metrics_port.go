package ports

// RecoveryMetrics contadores de los flujos de recuperación.
type RecoveryMetrics interface {
	CodeIssued()
	CodeVerified(ok bool)
	TokenIssued()
	TokenConsumed(ok bool)
	PasswordReset(flow string)
	DeliveryFailed(channel string)
	Swept(store string, n int)
}

// AccessMetrics contadores de decisiones de autorización.
type AccessMetrics interface {
	AuthorizationDecision(outcome string)
}

// NopMetrics implementa ambos puertos sin registrar nada (tests, herramientas CLI).
type NopMetrics struct{}

func (NopMetrics) CodeIssued()                  {}
func (NopMetrics) CodeVerified(bool)            {}
func (NopMetrics) TokenIssued()                 {}
func (NopMetrics) TokenConsumed(bool)           {}
func (NopMetrics) PasswordReset(string)         {}
func (NopMetrics) DeliveryFailed(string)        {}
func (NopMetrics) Swept(string, int)            {}
func (NopMetrics) AuthorizationDecision(string) {}
