package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/globalsolution/ecoprev/internal/prediction"
)

var (
	predYear  int
	predSolar float64
	predWind  float64
	predHydro float64
	predOther float64
)

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Classify the renewable energy policy level",
	Long: `Send a record to POST /prever_politica on the running server and print the
predicted policy level. Generation values are in terawatt-hours.`,
	RunE: runPolicy,
}

var emissionCmd = &cobra.Command{
	Use:   "emission",
	Short: "Estimate emissions with and without renewables",
	Long: `Send a record to POST /prever_emissao on the running server and print the
estimate with renewables, without them, and the difference.`,
	RunE: runEmission,
}

func init() {
	for _, cmd := range []*cobra.Command{policyCmd, emissionCmd} {
		cmd.Flags().IntVar(&predYear, "year", 0, "year of the record")
		cmd.Flags().Float64Var(&predSolar, "solar", 0, "solar generation")
		cmd.Flags().Float64Var(&predWind, "wind", 0, "wind generation")
		cmd.Flags().Float64Var(&predHydro, "hydro", 0, "hydropower generation")
		cmd.Flags().Float64Var(&predOther, "other", 0, "other renewables generation")
		cmd.MarkFlagRequired("year")
		rootCmd.AddCommand(cmd)
	}
}

func policyPayload() map[string]any {
	return map[string]any{
		prediction.ColYear:     predYear,
		prediction.ColSolarTWh: predSolar,
		prediction.ColWindTWh:  predWind,
		prediction.ColHydroTWh: predHydro,
		prediction.ColOtherTWh: predOther,
	}
}

func emissionPayload() map[string]any {
	return map[string]any{
		prediction.ColYear:            predYear,
		prediction.ColOtherRenewables: predOther,
		prediction.ColSolar:           predSolar,
		prediction.ColWind:            predWind,
		prediction.ColHydropower:      predHydro,
	}
}

func runPolicy(cmd *cobra.Command, args []string) error {
	data, err := NewClient().Predict("/prever_politica", policyPayload())
	if err != nil {
		return err
	}

	if jsonOut {
		fmt.Println(string(data))
		return nil
	}

	var result struct {
		Ano   any    `json:"Ano"`
		Label string `json:"Classe Predita"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return err
	}

	fmt.Printf("Year:   %v\n", result.Ano)
	fmt.Printf("Policy: %s\n", result.Label)
	return nil
}

func runEmission(cmd *cobra.Command, args []string) error {
	data, err := NewClient().Predict("/prever_emissao", emissionPayload())
	if err != nil {
		return err
	}

	if jsonOut {
		fmt.Println(string(data))
		return nil
	}

	var result struct {
		Ano  any     `json:"Ano"`
		Full float64 `json:"Predicao_com_renovaveis"`
		Zero float64 `json:"Predicao_sem_renovaveis"`
		Diff float64 `json:"Diferenca"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return err
	}

	fmt.Printf("Year:                %v\n", result.Ano)
	fmt.Printf("With renewables:     %.4f\n", result.Full)
	fmt.Printf("Without renewables:  %.4f\n", result.Zero)
	fmt.Printf("Difference:          %.4f\n", result.Diff)
	return nil
}
