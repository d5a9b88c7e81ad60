package models

type PolicyStatus string

const (
	PolicyActive    PolicyStatus = "active"
	PolicyExpired   PolicyStatus = "expired"
	PolicyCancelled PolicyStatus = "cancelled"
	PolicyClaimed   PolicyStatus = "claimed"
)

type ClaimStatus string

const (
	ClaimPending  ClaimStatus = "pending"
	ClaimApproved ClaimStatus = "approved"
	ClaimRejected ClaimStatus = "rejected"
	ClaimPaid     ClaimStatus = "paid"
)

type ThresholdOperator string

const (
	ThresholdGT  ThresholdOperator = ">"
	ThresholdLT  ThresholdOperator = "<"
	ThresholdEQ  ThresholdOperator = "=="
	ThresholdGTE ThresholdOperator = ">="
	ThresholdLTE ThresholdOperator = "<="
)

// IsValid reports whether the operator is one of the supported comparisons.
func (op ThresholdOperator) IsValid() bool {
	switch op {
	case ThresholdGT, ThresholdLT, ThresholdEQ, ThresholdGTE, ThresholdLTE:
		return true
	}
	return false
}

// WeatherType is an open category label; the constants cover the parameters
// the registered oracles currently report.
type WeatherType string

const (
	WeatherRainfall     WeatherType = "rainfall"
	WeatherTemperature  WeatherType = "temperature"
	WeatherWindSpeed    WeatherType = "wind_speed"
	WeatherHumidity     WeatherType = "humidity"
	WeatherDroughtIndex WeatherType = "drought_index"
)

type OracleCategory string

const (
	OracleWeatherStation OracleCategory = "weather_station"
	OracleSatellite      OracleCategory = "satellite"
	OracleAggregator     OracleCategory = "aggregator"
)
