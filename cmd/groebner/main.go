// Command groebner reads a polynomial system from a JSON file and prints
// its computed Gröbner basis, exercising only the public API in package
// groebner (spec.md §6).
package main

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/spf13/cobra"

	"github.com/consensys/groebner/f4"
	"github.com/consensys/groebner/groebner"
	"github.com/consensys/groebner/internal/utils"
	"github.com/consensys/groebner/logger"
	"github.com/consensys/groebner/monomial"
)

// inputPoly mirrors spec.md §6's Polynomial I/O format directly: monomials
// as exponent vectors, and coefficients as loosely-typed JSON values
// (number or string) so the input file can carry either small integers or
// big-integer literals without precision loss.
type inputPoly struct {
	Monoms [][]uint64    `json:"monoms"`
	Coeffs []interface{} `json:"coeffs"`
}

type inputSystem struct {
	Prime    uint64      `json:"prime,omitempty"`
	Rational bool        `json:"rational,omitempty"`
	Ordering string      `json:"ordering,omitempty"`
	Polys    []inputPoly `json:"polys"`
}

func parseOrdering(s string) (monomial.Ordering, error) {
	switch s {
	case "", "degrevlex":
		return monomial.DegRevLex, nil
	case "lex":
		return monomial.Lex, nil
	case "deglex":
		return monomial.DegLex, nil
	case "weighted":
		return monomial.Weighted, nil
	default:
		return 0, fmt.Errorf("unknown ordering %q", s)
	}
}

// coeffToBigInt converts one loosely-typed JSON coefficient to a big.Int,
// going through internal/utils.FromInterface so numbers, numeric strings
// and big-integer-literal strings are all accepted uniformly.
func coeffToBigInt(v interface{}) *big.Int {
	b := utils.FromInterface(v)
	return &b
}

func loadSystem(path string) (inputSystem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return inputSystem{}, err
	}
	var sys inputSystem
	if err := json.Unmarshal(data, &sys); err != nil {
		return inputSystem{}, err
	}
	return sys, nil
}

var fInputPath string

// computeCmd represents the compute command
var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "read a polynomial system and print its Gröbner basis",
	RunE:  cmdCompute,
}

func init() {
	rootCmd.AddCommand(computeCmd)
	computeCmd.Flags().StringVarP(&fInputPath, "input", "i", "", "path to the input JSON system")
	_ = computeCmd.MarkFlagRequired("input")
}

func cmdCompute(cmd *cobra.Command, args []string) error {
	sys, err := loadSystem(fInputPath)
	if err != nil {
		return err
	}
	ord, err := parseOrdering(sys.Ordering)
	if err != nil {
		return err
	}
	opts := groebner.NewOptions(f4.WithOrdering(ord))

	if sys.Rational {
		polys := make([]groebner.RationalPoly, len(sys.Polys))
		for i, p := range sys.Polys {
			coeffs := make([]groebner.RationalCoeff, len(p.Coeffs))
			for k, raw := range p.Coeffs {
				coeffs[k] = groebner.RationalCoeff{Num: coeffToBigInt(raw), Den: big.NewInt(1)}
			}
			polys[i] = groebner.RationalPoly{Monoms: p.Monoms, Coeffs: coeffs}
		}
		basis, err := groebner.GroebnerQ(polys, opts)
		if err != nil {
			return err
		}
		return printJSON(basis)
	}

	if sys.Prime == 0 {
		return fmt.Errorf("prime must be set for a non-rational system")
	}
	opts = opts.WithPrime(sys.Prime)
	polys := make([]groebner.Poly, len(sys.Polys))
	pBig := new(big.Int).SetUint64(sys.Prime)
	for i, p := range sys.Polys {
		coeffs := make([]uint64, len(p.Coeffs))
		for k, raw := range p.Coeffs {
			coeffs[k] = new(big.Int).Mod(coeffToBigInt(raw), pBig).Uint64()
		}
		polys[i] = groebner.Poly{Monoms: p.Monoms, Coeffs: coeffs}
	}
	basis, err := groebner.Groebner(polys, opts)
	if err != nil {
		return err
	}
	return printJSON(basis)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "groebner",
	Short: "compute a Gröbner basis of a polynomial system",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Logger().Error().Err(err).Msg("groebner command failed")
		os.Exit(1)
	}
}
