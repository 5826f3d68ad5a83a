package report

// ThermalState is the device's heat-driven throttling risk.
type ThermalState int

const (
	ThermalNominal ThermalState = iota
	ThermalFair
	ThermalSerious
	ThermalCritical
	ThermalUnknown
)

var thermalNames = [...]string{
	ThermalNominal:  "Nominal",
	ThermalFair:     "Fair",
	ThermalSerious:  "Serious",
	ThermalCritical: "Critical",
	ThermalUnknown:  "Unknown",
}

func (s ThermalState) String() string {
	if s < ThermalNominal || s > ThermalUnknown {
		return thermalNames[ThermalUnknown]
	}

	return thermalNames[s]
}

// AllThermalStates lists every state in severity order, Unknown last.
func AllThermalStates() []ThermalState {
	return []ThermalState{ThermalNominal, ThermalFair, ThermalSerious, ThermalCritical, ThermalUnknown}
}
