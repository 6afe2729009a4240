package commands

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"servicegov/internal/export"
	"servicegov/internal/ticket"
)

var (
	anonIn         string
	anonOut        string
	anonCompany    string
	anonFirstNames string
	anonLastNames  string
	anonSeed       uint64
)

// Minimal built-in pools for when no name files are supplied.
var (
	builtinFirstNames = []string{"Erik", "Anna", "Lars", "Maria", "Johan", "Karin", "Mikael", "Sara", "Anders", "Elin"}
	builtinLastNames  = []string{"Andersson", "Johansson", "Karlsson", "Nilsson", "Eriksson", "Larsson", "Olsson", "Persson", "Svensson", "Gustafsson"}
)

var anonymizeCmd = &cobra.Command{
	Use:   "anonymize",
	Short: "Mask PII in a raw incident export",
	Long: `Reads a raw incident CSV export, replaces caller and operator identities with
randomized names, regenerates incident numbers, masks the company name and
strips asset tags, then writes a cleaned export.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		firstNames, err := loadNamePool(anonFirstNames, builtinFirstNames)
		if err != nil {
			return err
		}
		lastNames, err := loadNamePool(anonLastNames, builtinLastNames)
		if err != nil {
			return err
		}

		seed := anonSeed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		anonymizer, err := export.NewAnonymizer(anonCompany, firstNames, lastNames, seed)
		if err != nil {
			return err
		}

		records, skipped, err := ticket.LoadCSV(anonIn)
		if err != nil {
			return err
		}
		if skipped > 0 {
			log.Warn().Int("skipped", skipped).Msg("Some rows were dropped during load")
		}

		if err := export.WriteCSVFile(anonOut, anonymizer.Scrub(records)); err != nil {
			return err
		}
		log.Info().Int("records", len(records)).Str("out", anonOut).Msg("Anonymized export written")
		return nil
	},
}

func loadNamePool(path string, fallback []string) ([]string, error) {
	if path == "" {
		return fallback, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open name pool: %w", err)
	}
	defer file.Close()

	var names []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			names = append(names, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read name pool: %w", err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("name pool %s is empty", path)
	}
	return names, nil
}

func init() {
	anonymizeCmd.Flags().StringVar(&anonIn, "in", "", "raw export CSV to read")
	anonymizeCmd.Flags().StringVar(&anonOut, "out", "", "cleaned export CSV to write")
	anonymizeCmd.Flags().StringVar(&anonCompany, "company", "", "company name to mask")
	anonymizeCmd.Flags().StringVar(&anonFirstNames, "first-names", "", "optional file with one first name per line")
	anonymizeCmd.Flags().StringVar(&anonLastNames, "last-names", "", "optional file with one last name per line")
	anonymizeCmd.Flags().Uint64Var(&anonSeed, "seed", 0, "random seed (0 = derive from clock)")
	_ = anonymizeCmd.MarkFlagRequired("in")
	_ = anonymizeCmd.MarkFlagRequired("out")
	_ = anonymizeCmd.MarkFlagRequired("company")
	rootCmd.AddCommand(anonymizeCmd)
}
