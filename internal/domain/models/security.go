package models

// Security is one tradeable instrument from the directory snapshot. The JSON
// tags match the exchange's published column names verbatim so the snapshot
// file can be decoded as-is. Immutable after load.
type Security struct {
	IssuerName     string `json:"Issuer Name"`
	SecurityID     string `json:"Security Id"`
	SectorName     string `json:"Sector Name"`
	IndustryName   string `json:"Industry New Name"`
	InstrumentType string `json:"Instrument"`
}
