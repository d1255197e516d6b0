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
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/pqtorus/lattice"
	"github.com/notargets/pqtorus/weierstrass"
)

func addLatticeFlags(c *cobra.Command) {
	c.Flags().Float64P("p", "p", 2, "real half-period p > 0")
	c.Flags().Float64P("q", "q", 3, "imaginary half-period q > 0, the lattice is 2pZ + 2qiZ")
	c.Flags().IntP("degree", "d", 0, "sublattice degree d, half-periods p^-d, q^-d")
	c.Flags().String("convention", "zero", "degree convention: zero = L_0 is primary, minusone = L_-1 is primary")
}

// latticeFromFlags returns the sublattice selected by -p, -q, --degree
func latticeFromFlags(c *cobra.Command) (l lattice.Lattice, err error) {
	var (
		p, q   float64
		degree int
		conv   lattice.Convention
	)
	p, _ = c.Flags().GetFloat64("p")
	q, _ = c.Flags().GetFloat64("q")
	degree, _ = c.Flags().GetInt("degree")
	label, _ := c.Flags().GetString("convention")
	if conv, err = lattice.NewConvention(label); err != nil {
		return
	}
	if l, err = lattice.New(p, q); err != nil {
		return
	}
	return l.Sublattice(degree, conv)
}

func invariantOptions() (opts []lattice.Option) {
	if viper.GetBool("modular") {
		opts = append(opts, lattice.WithModularTransform())
	}
	return
}

func functionOptions() (opts weierstrass.Options) {
	opts = weierstrass.DefaultOptions()
	if eps := viper.GetFloat64("poleEpsilon"); eps > 0 {
		opts.PoleEpsilon = eps
	}
	if r := viper.GetFloat64("poleRadius"); r > 0 {
		opts.PoleWarningRadius = r
	}
	return
}

// marshalReport renders v as YAML, or JSON when format is "json"
func marshalReport(v interface{}, format string) (data []byte, err error) {
	if data, err = yaml.Marshal(v); err != nil {
		return
	}
	switch strings.ToLower(format) {
	case "json":
		return yaml.YAMLToJSON(data)
	case "yaml", "yml", "":
		return
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

func writeReport(v interface{}, path string) (err error) {
	var (
		data []byte
	)
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if data, err = marshalReport(v, format); err != nil {
		return
	}
	return ioutil.WriteFile(path, data, 0644)
}

func printReport(c *cobra.Command, v interface{}) (err error) {
	var (
		data []byte
	)
	format, _ := c.Flags().GetString("output")
	if data, err = marshalReport(v, format); err != nil {
		return
	}
	_, err = c.OutOrStdout().Write(data)
	return
}

func warnf(c *cobra.Command, format string, args ...interface{}) {
	if viper.GetBool("verbose") {
		fmt.Fprintf(c.ErrOrStderr(), format, args...)
	}
}
