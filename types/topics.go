package types

// Bus topic tokens.
const (
	TokPower    = "power"
	TokTimer    = "timer"
	TokSettings = "settings"

	TokState    = "state"
	TokSample   = "sample"
	TokSOCLimit = "soc_limit"
)
