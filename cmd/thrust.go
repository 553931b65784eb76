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
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/notargets/gohybrid/InputParameters"
	"github.com/notargets/gohybrid/network"
	"github.com/notargets/gohybrid/thrust_balance"
	"github.com/notargets/gohybrid/utils"
)

type ThrustRun struct {
	ICFile   string
	Parallel int
	Verbose  bool
}

// ThrustCmd represents the thrust command
var ThrustCmd = &cobra.Command{
	Use:   "thrust",
	Short: "Balance thrust and drag over the flight segments of a case deck",
	Long: `
Reads a YAML case deck with the network architecture and a list of flight segments,
balances thrust against drag for every flight condition and integrates battery energy
and fuel burned along each segment.

gohybrid thrust -I case.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
			tr  = &ThrustRun{}
		)
		if tr.ICFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			panic(err)
		}
		tr.Parallel, _ = cmd.Flags().GetInt("parallel")
		tr.Verbose, _ = cmd.Flags().GetBool("verbose")
		ip := processThrustInput(tr)
		if _, err = RunThrust(tr, ip); err != nil {
			panic(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(ThrustCmd)
	ThrustCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML case deck, see the example printed when omitted")
	ThrustCmd.Flags().IntP("parallel", "p", 1, "number of goroutines solving flight conditions")
	ThrustCmd.Flags().BoolP("verbose", "v", false, "report non-convergence and clamping as they happen")
}

func processThrustInput(tr *ThrustRun) (ip *InputParameters.InputParameters) {
	var (
		err  error
		data []byte
	)
	if len(tr.ICFile) == 0 {
		err = fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile) in YAML format")
		fmt.Printf("error: %s\n", err.Error())
		exampleFile := `
########################################
Title: "Turbo electric cruise"
fS: 0.
fL: 1.
StreamModel: FixedGeometry # or PowerSplit
Propulsors:
  mech: {count: 2, jetArea: 0.322}
  elec: {count: 2, jetArea: 0.322}
Fuel: {Cp: 289} # g/kW/hr
Segments:
  - Name: cruise
    Conditions:
      - {t: 0, V: 93.6, rho: 0.771, Dp: 2351, Dpp: 0.77}
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	if data, err = os.ReadFile(tr.ICFile); err != nil {
		panic(err)
	}
	ip = &InputParameters.InputParameters{}
	if err = ip.Parse(data); err != nil {
		panic(err)
	}
	return
}

func RunThrust(tr *ThrustRun, ip *InputParameters.InputParameters) (results []*network.SegmentResult, err error) {
	var (
		net   *network.Network
		start = time.Now()
	)
	if tr.Verbose {
		ip.Print()
	}
	settings := thrust_balance.Settings{Parallel: tr.Parallel, Verbose: tr.Verbose}
	if net, err = ip.Network(settings); err != nil {
		return
	}
	for _, seg := range ip.NetworkSegments() {
		var sr *network.SegmentResult
		if sr, err = net.Evaluate(seg); err != nil {
			return
		}
		sr.Print()
		results = append(results, sr)
	}
	fmt.Printf("Peak propulsive power %12.1f W, peak battery power %12.1f W\n", net.MaxPower, net.MaxBatteryPower)
	if tr.Verbose {
		fmt.Printf("Elapsed %v, %s\n", time.Since(start), utils.GetMemUsage())
	}
	return
}
