// Package config defines the data structures related to configuration and
// includes functions for loading the config and deriving the engine inputs
// from it.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/iwvelando/maize-roi/pkg/constants"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for maize-roi.
type Configuration struct {
	Farm        Farm              `yaml:"farm"`
	Loan        Loan              `yaml:"loan"`
	LaborRates  []LaborRate       `yaml:"laborRates"`
	WorkPlan    []Activity        `yaml:"workPlan"`
	Expenses    []Expense         `yaml:"expenses,omitempty"`
	CashFlow    CashFlowConfig    `yaml:"cashFlow"`
	Sensitivity SensitivityConfig `yaml:"sensitivity"`
	Market      MarketConfig      `yaml:"market,omitempty"`
	Scenarios   []Scenario        `yaml:"scenarios,omitempty"`
	Logging     LoggingConfig     `yaml:"logging,omitempty"`
	Output      OutputConfig      `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, xlsx
	File   string `yaml:"file,omitempty"`   // xlsx destination
}

// Farm holds the physical parameters shared by all scenarios.
type Farm struct {
	Size           float64 `yaml:"size"`          // acres
	ExpectedYield  int     `yaml:"expectedYield"` // 50 kg bags
	PricePerBag    float64 `yaml:"pricePerBag"`
	UseMarketPrice bool    `yaml:"useMarketPrice,omitempty"`
}

// Loan holds the loan choices shared by all scenarios. Fee, interest and
// insurance rates are fixed by the lender and are not configurable.
type Loan struct {
	Budget        float64 `yaml:"budget"`
	RepaymentType string  `yaml:"repaymentType"` // bullet, installments
	Insurance     bool    `yaml:"insurance"`
}

// LaborRate is the cost rate of one labor type. Tractor is per acre, other
// types are per working day.
type LaborRate struct {
	Type string  `yaml:"type"`
	Rate float64 `yaml:"rate"`
}

// Activity is one row of the work plan.
type Activity struct {
	Name      string `yaml:"name"`
	StartWeek int    `yaml:"startWeek"`
	EndWeek   int    `yaml:"endWeek"`
	LaborType string `yaml:"laborType"`
}

// Expense is a flat season expense outside the work plan, e.g. irrigation.
type Expense struct {
	Name   string  `yaml:"name"`
	Amount float64 `yaml:"amount"`
}

// ActivityCost is a static cost for an activity, used by the cost-map mode
// of the cash-flow projection.
type ActivityCost struct {
	Activity string  `yaml:"activity"`
	Cost     float64 `yaml:"cost"`
}

// CashFlowConfig controls the weekly cash-flow projection.
type CashFlowConfig struct {
	IncomeActivity string         `yaml:"incomeActivity"`
	WeekLabels     string         `yaml:"weekLabels,omitempty"` // startWeek, position
	CostSource     string         `yaml:"costSource,omitempty"` // rates, costMap, auto
	CostMap        []ActivityCost `yaml:"costMap,omitempty"`
	SeasonStart    string         `yaml:"seasonStart,omitempty"` // YYYY-MM-DD
}

// SensitivityConfig is the price grid of the profit sensitivity sweep.
type SensitivityConfig struct {
	Low  float64 `yaml:"low"`
	High float64 `yaml:"high"`
	Step float64 `yaml:"step"`
}

// MarketConfig holds the placeholder values returned by the static price
// and weather sources.
type MarketConfig struct {
	PricePerBag float64 `yaml:"pricePerBag,omitempty"`
	Source      string  `yaml:"source,omitempty"`
	Location    string  `yaml:"location,omitempty"`
	Weather     string  `yaml:"weather,omitempty"`
	RainfallMM  float64 `yaml:"rainfallMm,omitempty"`
	TempC       float64 `yaml:"tempC,omitempty"`
}

// Scenario overrides the shared farm and loan parameters. Unset fields
// inherit the shared values; expenses are added to the shared expenses.
type Scenario struct {
	Name           string    `yaml:"name"`
	Active         bool      `yaml:"active"`
	FarmSize       *float64  `yaml:"farmSize,omitempty"`
	ExpectedYield  *int      `yaml:"expectedYield,omitempty"`
	PricePerBag    *float64  `yaml:"pricePerBag,omitempty"`
	UseMarketPrice *bool     `yaml:"useMarketPrice,omitempty"`
	RepaymentType  string    `yaml:"repaymentType,omitempty"`
	Insurance      *bool     `yaml:"insurance,omitempty"`
	Expenses       []Expense `yaml:"expenses,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. MAIZE_* variables from a .env file next to the config
// override file values for this load only; the process environment is left
// untouched and still takes precedence over the .env file.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	if err := applyDotEnv(v, filepath.Join(filepath.Dir(configPath), ".env")); err != nil {
		return nil, err
	}
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r,
// e.g. an uploaded file. Environment overrides still apply.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

func applyDotEnv(v *viper.Viper, path string) error {
	values, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error reading env file %s, %s", path, err)
	}

	prefix := constants.EnvPrefix + "_"
	for name, value := range values {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if _, set := os.LookupEnv(name); set {
			continue
		}
		key := strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(name, prefix), "_", "."))
		v.Set(key, value)
	}
	return nil
}
