package market

// InstrumentMeta carries the venue facts the simulator needs.
type InstrumentMeta struct {
	Name     string
	TickSize float64
	Timezone string // IANA zone of the venue's session clock
}

var Instruments = map[string]InstrumentMeta{
	"ES":      {Name: "ES", TickSize: 0.25, Timezone: "America/New_York"},
	"MES":     {Name: "MES", TickSize: 0.25, Timezone: "America/New_York"},
	"NQ":      {Name: "NQ", TickSize: 0.25, Timezone: "America/New_York"},
	"MNQ":     {Name: "MNQ", TickSize: 0.25, Timezone: "America/New_York"},
	"YM":      {Name: "YM", TickSize: 1, Timezone: "America/New_York"},
	"GC":      {Name: "GC", TickSize: 0.1, Timezone: "America/New_York"},
	"CL":      {Name: "CL", TickSize: 0.01, Timezone: "America/New_York"},
	"EUR_USD": {Name: "EUR_USD", TickSize: 0.00001, Timezone: "Europe/London"},
	"GBP_USD": {Name: "GBP_USD", TickSize: 0.00001, Timezone: "Europe/London"},
	"USD_JPY": {Name: "USD_JPY", TickSize: 0.001, Timezone: "Asia/Tokyo"},
}

// Lookup returns the metadata for name.
func Lookup(name string) (InstrumentMeta, bool) {
	m, ok := Instruments[name]
	return m, ok
}
