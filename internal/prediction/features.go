package prediction

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/globalsolution/ecoprev/internal/model"
)

// Column names as the models were trained on them.
const (
	ColYear = "Year"

	ColSolarTWh = "Solar (terawatt-hours)"
	ColWindTWh  = "Wind (terawatt-hours)"
	ColHydroTWh = "Hydropower (terawatt-hours)"
	ColOtherTWh = "Other renewables (terawatt-hours)"

	ColOtherRenewables = "Other_renewables"
	ColSolar           = "Solar"
	ColWind            = "Wind"
	ColHydropower      = "Hydropower"
)

// PolicyFeatures is the classifier's input record.
type PolicyFeatures struct {
	Year       float64
	Solar      float64
	Wind       float64
	Hydropower float64
	Other      float64
}

// PolicyColumns returns the classifier's column order.
func PolicyColumns() []string {
	return []string{ColYear, ColSolarTWh, ColWindTWh, ColHydroTWh, ColOtherTWh}
}

// Vector returns the record in the classifier's column order.
func (f PolicyFeatures) Vector() model.Features {
	return model.Features{
		Names:  PolicyColumns(),
		Values: []float64{f.Year, f.Solar, f.Wind, f.Hydropower, f.Other},
	}
}

// EmissionFeatures is the regressor's input record.
type EmissionFeatures struct {
	Year            float64
	OtherRenewables float64
	Solar           float64
	Wind            float64
	Hydropower      float64
}

// EmissionColumns returns the regressor's column order.
func EmissionColumns() []string {
	return []string{ColYear, ColOtherRenewables, ColSolar, ColWind, ColHydropower}
}

// Vector returns the record in the regressor's column order.
func (f EmissionFeatures) Vector() model.Features {
	return model.Features{
		Names:  EmissionColumns(),
		Values: []float64{f.Year, f.OtherRenewables, f.Solar, f.Wind, f.Hydropower},
	}
}

// RenewablesSum is Other_renewables + Solar + Wind + Hydropower, added in that order.
func (f EmissionFeatures) RenewablesSum() float64 {
	return f.OtherRenewables + f.Solar + f.Wind + f.Hydropower
}

// BuildPolicyFeatures arranges a validated payload for the classifier.
func BuildPolicyFeatures(p Payload) (PolicyFeatures, error) {
	var f PolicyFeatures
	err := fill(p, []field{
		{ColYear, &f.Year},
		{ColSolarTWh, &f.Solar},
		{ColWindTWh, &f.Wind},
		{ColHydroTWh, &f.Hydropower},
		{ColOtherTWh, &f.Other},
	})
	return f, err
}

// BuildEmissionFeatures arranges a validated payload for the regressor.
func BuildEmissionFeatures(p Payload) (EmissionFeatures, error) {
	var f EmissionFeatures
	err := fill(p, []field{
		{ColYear, &f.Year},
		{ColOtherRenewables, &f.OtherRenewables},
		{ColSolar, &f.Solar},
		{ColWind, &f.Wind},
		{ColHydropower, &f.Hydropower},
	})
	return f, err
}

type field struct {
	name string
	dst  *float64
}

func fill(p Payload, fields []field) error {
	for _, fd := range fields {
		v, err := numeric(p[fd.name])
		if err != nil {
			return fmt.Errorf("campo '%s': %w", fd.name, err)
		}
		*fd.dst = v
	}
	return nil
}

// numeric converts a decoded JSON value the way a dataframe cast to float
// would. NaN and infinities are rejected.
func numeric(v any) (float64, error) {
	f, err := toFloat(v)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("valor não finito: %v", v)
	}
	return f, nil
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case json.Number:
		return strconv.ParseFloat(string(x), 64)
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("could not convert string to float: '%s'", x)
		}
		return f, nil
	case nil:
		return 0, fmt.Errorf("valor nulo não é numérico")
	default:
		return 0, fmt.Errorf("tipo %T não é numérico", v)
	}
}
