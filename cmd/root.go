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

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pqtorus",
	Short: "Elliptic function embedding of the torus C/L for rectangular lattices",
	Long: `
Computes the Weierstrass invariants of the lattice with half-periods p and q·i,
evaluates ℘ and ℘′, and embeds a sampled torus in R³ through a lattice-aligned
projection of (℘, ℘′).

pqtorus invariants -p 2 -q 3
pqtorus mesh -p 2 -q 3 -n 32 --wrap --full -o torus.yaml`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pqtorus.yaml)")
	rootCmd.PersistentFlags().IntP("workers", "w", 0, "number of parallel workers, 0 = number of CPUs")
	rootCmd.PersistentFlags().Float64("poleEpsilon", 0, "|sn| below which the argument is perturbed, 0 = 1e-12")
	rootCmd.PersistentFlags().Float64("poleRadius", 0, "distance to a lattice point that raises a pole warning, 0 = 1e-9")
	rootCmd.PersistentFlags().Bool("modular", false, "evaluate theta constants through the modular transform")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "print diagnostics")
	for _, key := range []string{"workers", "poleEpsilon", "poleRadius", "modular", "verbose"} {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(key)); err != nil {
			panic(err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".pqtorus")
	}
	viper.SetEnvPrefix("PQTORUS")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil && viper.GetBool("verbose") {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
