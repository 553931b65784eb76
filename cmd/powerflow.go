/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/gohybrid/power_balance"
)

// PowerFlowCmd represents the powerflow command
var PowerFlowCmd = &cobra.Command{
	Use:   "powerflow",
	Short: "Solve the energy network power flow for a total propulsive power",
	Long: `
Selects the series or parallel topology from the mixing parameters and efficiencies and
solves for the eleven component powers. Flag defaults can be set in the config file
under "powerflow" or through GOHYBRID_POWERFLOW_* environment variables.

gohybrid powerflow --PKtot 300000 --fS 0.5 --fL 0.5`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			PKtot = viper.GetFloat64("powerflow.PKtot")
			mix   = power_balance.MixingParameters{
				FS: viper.GetFloat64("powerflow.fS"),
				FL: viper.GetFloat64("powerflow.fL"),
			}
			eff = power_balance.ComponentEfficiencies{
				Fan:              viper.GetFloat64("powerflow.etaFan"),
				Motor:            viper.GetFloat64("powerflow.etaMot"),
				PowerElectronics: viper.GetFloat64("powerflow.etaPE"),
			}
		)
		sizing, _ := cmd.Flags().GetBool("size")
		if err := RunPowerFlow(PKtot, mix, eff, sizing); err != nil {
			panic(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(PowerFlowCmd)
	def := power_balance.DefaultEfficiencies()
	PowerFlowCmd.Flags().Float64("PKtot", 300.e3, "total propulsive power [W]")
	PowerFlowCmd.Flags().Float64("fS", 0.5, "supplied power mixing parameter, battery share of Pbat+Pturb")
	PowerFlowCmd.Flags().Float64("fL", 0.5, "load mixing parameter, electrical share of the propulsive power")
	PowerFlowCmd.Flags().Float64("etaFan", def.Fan, "fan efficiency")
	PowerFlowCmd.Flags().Float64("etaMot", def.Motor, "motor efficiency, used for the link machine too")
	PowerFlowCmd.Flags().Float64("etaPE", def.PowerElectronics, "power electronics efficiency")
	PowerFlowCmd.Flags().Bool("size", false, "print the design point rating per component")
	for _, name := range []string{"PKtot", "fS", "fL", "etaFan", "etaMot", "etaPE"} {
		if err := viper.BindPFlag("powerflow."+name, PowerFlowCmd.Flags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}

func RunPowerFlow(PKtot float64, mix power_balance.MixingParameters, eff power_balance.ComponentEfficiencies,
	sizing bool) (err error) {
	fmt.Printf("%s, PKtot = %g W\n", mix, PKtot)
	if sizing {
		var r *power_balance.Rating
		if r, err = power_balance.Size(PKtot, mix, eff); err != nil {
			return
		}
		r.Print()
		return
	}
	var pfs *power_balance.PowerFlowSolution
	if pfs, err = power_balance.SolvePowerFlow(PKtot, mix, eff); err != nil {
		return
	}
	pfs.Print()
	return
}
